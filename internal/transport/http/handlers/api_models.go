package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserPayload `json:"user"`
}

// ChangePasswordRequest defines the self-service password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UserPayload describes a user account returned by the API.
type UserPayload struct {
	ID                  string            `json:"id"`
	Email               string            `json:"email"`
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	Status              domain.UserStatus `json:"status"`
	IsTemporaryPassword bool              `json:"is_temporary_password"`
	IsWizardComplete    bool              `json:"is_wizard_complete"`
	CreatedAt           time.Time         `json:"created_at"`
	ModifiedAt          time.Time         `json:"modified_at"`
	Roles               []RolePayload     `json:"roles,omitempty"`
}

func newUserPayload(user domain.User) UserPayload {
	return UserPayload{
		ID:                  user.ID,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Status:              user.Status,
		IsTemporaryPassword: user.IsTemporaryPassword,
		IsWizardComplete:    user.IsWizardComplete,
		CreatedAt:           user.CreatedAt,
		ModifiedAt:          user.ModifiedAt,
	}
}

// UserCreateRequest defines the payload for provisioning a user account.
type UserCreateRequest struct {
	Email     string   `json:"email" binding:"required"`
	FirstName string   `json:"first_name" binding:"required"`
	LastName  string   `json:"last_name" binding:"required"`
	RoleIDs   []string `json:"role_ids"`
}

// UserUpdateRequest defines the payload for updating a user. A null
// role_ids leaves assignments untouched; an array replaces them.
type UserUpdateRequest struct {
	FirstName string    `json:"first_name" binding:"required"`
	LastName  string    `json:"last_name" binding:"required"`
	Status    string    `json:"status" binding:"required"`
	RoleIDs   *[]string `json:"role_ids"`
}

// AssignRolesRequest defines the payload that replaces a user's role set.
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// RolePayload describes a role returned by the API.
type RolePayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsSystemRole bool   `json:"is_system_role"`
}

func newRolePayload(role domain.Role) RolePayload {
	return RolePayload{
		ID:           role.ID,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
	}
}

// RoleCreateRequest defines the payload for creating a role.
type RoleCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// RoleUpdateRequest defines the payload for renaming or describing a role.
type RoleUpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// RoleDetailResponse pairs a role with its granted permissions.
type RoleDetailResponse struct {
	RolePayload
	Permissions []PermissionPayload `json:"permissions"`
}

// PermissionIDsRequest carries permission ids for grant and revoke calls.
type PermissionIDsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}

// PermissionPayload describes a catalogue entry returned by the API.
type PermissionPayload struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

func newPermissionPayload(permission domain.Permission) PermissionPayload {
	return PermissionPayload{
		ID:          permission.ID,
		Key:         permission.Key,
		DisplayName: permission.DisplayName,
		Category:    permission.Category,
		Description: permission.Description,
	}
}

// PermissionGroupPayload collects catalogue entries sharing a category.
type PermissionGroupPayload struct {
	Category    string              `json:"category"`
	Permissions []PermissionPayload `json:"permissions"`
}

// EfaConfigurationPayload describes one configuration year.
type EfaConfigurationPayload struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	EfaRate   float64   `json:"efa_rate"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newEfaConfigurationPayload(config domain.EfaConfiguration) EfaConfigurationPayload {
	return EfaConfigurationPayload{
		ID:        config.ID,
		Year:      config.Year,
		EfaRate:   config.EfaRate,
		UpdatedBy: config.UpdatedBy,
		UpdatedAt: config.UpdatedAt,
	}
}

// EfaConfigurationCreateRequest defines the payload for creating a year.
type EfaConfigurationCreateRequest struct {
	Year    int     `json:"year" binding:"required"`
	EfaRate float64 `json:"efa_rate"`
}

// EfaConfigurationEditRequest defines the payload for changing a rate.
type EfaConfigurationEditRequest struct {
	EfaRate float64 `json:"efa_rate"`
}

// EfaConfigurationBulkItem is one year/rate pair in a bulk upsert request.
type EfaConfigurationBulkItem struct {
	Year    int     `json:"year" binding:"required"`
	EfaRate float64 `json:"efa_rate"`
}

// EfaConfigurationBulkRequest defines the payload for a bulk upsert.
type EfaConfigurationBulkRequest struct {
	Items []EfaConfigurationBulkItem `json:"items" binding:"required"`
}

// EfaConfigurationSummaryPayload reports one item's outcome in a bulk upsert.
type EfaConfigurationSummaryPayload struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	EfaRate   float64   `json:"efa_rate"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EfaConfigurationBulkResponse partitions a bulk call into created and
// updated items.
type EfaConfigurationBulkResponse struct {
	Created []EfaConfigurationSummaryPayload `json:"created"`
	Updated []EfaConfigurationSummaryPayload `json:"updated"`
	Total   int                              `json:"total"`
}

// FilePayload describes an uploaded file record returned by the API.
type FilePayload struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newFilePayload(file domain.UploadedFile) FilePayload {
	return FilePayload{
		ID:          file.ID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		SizeBytes:   file.SizeBytes,
		UploadedBy:  file.UploadedBy,
		CreatedAt:   file.CreatedAt,
	}
}
