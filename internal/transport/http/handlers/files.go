package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saralhq/admin-backend/internal/transport/http/middleware"
	"github.com/saralhq/admin-backend/internal/usecase"
)

// FileHandler serves uploaded file metadata endpoints. File bytes land in
// uploadDir; only the metadata record goes through the domain.
type FileHandler struct {
	files     *usecase.FileService
	uploadDir string
}

// NewFileHandler builds a FileHandler storing file bytes under uploadDir.
func NewFileHandler(files *usecase.FileService, uploadDir string) *FileHandler {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &FileHandler{files: files, uploadDir: uploadDir}
}

// List godoc
// @Summary List uploaded file records
// @Tags Files
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {array} FilePayload
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/files [get]
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.List(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	payloads := make([]FilePayload, 0, len(files))
	for _, file := range files {
		payloads = append(payloads, newFilePayload(file))
	}

	c.JSON(http.StatusOK, payloads)
}

// Get godoc
// @Summary Fetch one uploaded file record
// @Tags Files
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "File ID"
// @Success 200 {object} FilePayload
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.files.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFilePayload(*file))
}

// Upload godoc
// @Summary Upload a file and record its metadata
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param file formData file true "File to upload"
// @Success 201 {object} FilePayload
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "missing file in form data"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveUploadedFile(header, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to store file"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	file, err := h.files.RecordUpload(c.Request.Context(), usecase.RecordUploadInput{
		FileName:    filepath.Base(header.Filename),
		StoredPath:  storedPath,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		UploadedBy:  actorID,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newFilePayload(*file))
}

// Delete godoc
// @Summary Delete an uploaded file record
// @Tags Files
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "File ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "file deleted"})
}
