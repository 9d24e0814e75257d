package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// EfaConfigurationHandler serves EFA rate configuration endpoints.
type EfaConfigurationHandler struct {
	configs *usecase.EfaConfigurationService
}

// NewEfaConfigurationHandler builds an EfaConfigurationHandler.
func NewEfaConfigurationHandler(configs *usecase.EfaConfigurationService) *EfaConfigurationHandler {
	return &EfaConfigurationHandler{configs: configs}
}

// List godoc
// @Summary List every configuration year
// @Tags EfaConfigurations
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {array} EfaConfigurationPayload
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/efa-configurations [get]
func (h *EfaConfigurationHandler) List(c *gin.Context) {
	configs, err := h.configs.GetAll(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payloads := make([]EfaConfigurationPayload, 0, len(configs))
	for _, config := range configs {
		payloads = append(payloads, newEfaConfigurationPayload(config))
	}

	c.JSON(http.StatusOK, payloads)
}

// Create godoc
// @Summary Create a configuration year
// @Tags EfaConfigurations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body EfaConfigurationCreateRequest true "Configuration create request"
// @Success 201 {object} EfaConfigurationPayload
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/efa-configurations [post]
func (h *EfaConfigurationHandler) Create(c *gin.Context) {
	var req EfaConfigurationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid configuration payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	config, err := h.configs.Create(c.Request.Context(), req.Year, req.EfaRate, actorID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newEfaConfigurationPayload(*config))
}

// Edit godoc
// @Summary Change the rate of a configuration year
// @Tags EfaConfigurations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Configuration ID"
// @Param request body EfaConfigurationEditRequest true "Configuration edit request"
// @Success 200 {object} EfaConfigurationPayload
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/efa-configurations/{id} [put]
func (h *EfaConfigurationHandler) Edit(c *gin.Context) {
	var req EfaConfigurationEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid configuration payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	config, err := h.configs.Edit(c.Request.Context(), c.Param("id"), req.EfaRate, actorID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEfaConfigurationPayload(*config))
}

// Delete godoc
// @Summary Delete a configuration year
// @Tags EfaConfigurations
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Configuration ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/efa-configurations/{id} [delete]
func (h *EfaConfigurationHandler) Delete(c *gin.Context) {
	if err := h.configs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "configuration deleted"})
}

// BulkUpsert godoc
// @Summary Create or update many configuration years in one transaction
// @Tags EfaConfigurations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body EfaConfigurationBulkRequest true "Bulk upsert request"
// @Success 200 {object} EfaConfigurationBulkResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/efa-configurations/bulk [post]
func (h *EfaConfigurationHandler) BulkUpsert(c *gin.Context) {
	var req EfaConfigurationBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bulk payload"))
		return
	}

	items := make([]usecase.EfaConfigurationItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.EfaConfigurationItem{
			Year:    item.Year,
			EfaRate: item.EfaRate,
		})
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	result, err := h.configs.BulkUpsert(c.Request.Context(), items, actorID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	response := EfaConfigurationBulkResponse{
		Created: make([]EfaConfigurationSummaryPayload, 0, len(result.Created)),
		Updated: make([]EfaConfigurationSummaryPayload, 0, len(result.Updated)),
		Total:   result.Total,
	}
	for _, summary := range result.Created {
		response.Created = append(response.Created, newSummaryPayload(summary))
	}
	for _, summary := range result.Updated {
		response.Updated = append(response.Updated, newSummaryPayload(summary))
	}

	c.JSON(http.StatusOK, response)
}

func newSummaryPayload(summary usecase.EfaConfigurationSummary) EfaConfigurationSummaryPayload {
	return EfaConfigurationSummaryPayload{
		ID:        summary.ID,
		Year:      summary.Year,
		EfaRate:   summary.EfaRate,
		UpdatedAt: summary.UpdatedAt,
	}
}
