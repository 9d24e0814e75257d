package domain

import "time"

// Event names double as Kafka topic suffixes for the integration publisher.
const (
	EventUserRegistered          = "admin.user.registered"
	EventUserStatusChanged       = "admin.user.status_changed"
	EventUserRolesAssigned       = "admin.user.roles_assigned"
	EventRoleCreated             = "admin.role.created"
	EventRoleDeleted             = "admin.role.deleted"
	EventRolePermissionsChanged  = "admin.role.permissions_changed"
	EventEfaConfigurationCreated = "admin.efa_configuration.created"
	EventEfaConfigurationUpdated = "admin.efa_configuration.updated"
	EventFileUploaded            = "admin.file.uploaded"
	EventFileDeleted             = "admin.file.deleted"
)

// UserRegisteredEvent fires when a new user account is provisioned. The
// temporary password travels only inside the event so the post-commit
// notifier can deliver it; it is never persisted in clear text.
type UserRegisteredEvent struct {
	UserID            string
	Email             string
	FirstName         string
	TemporaryPassword string
	RegisteredAt      time.Time
}

func (UserRegisteredEvent) EventName() string { return EventUserRegistered }

// UserStatusChangedEvent fires when an account transitions between states.
type UserStatusChangedEvent struct {
	UserID    string
	OldStatus UserStatus
	NewStatus UserStatus
	ChangedAt time.Time
}

func (UserStatusChangedEvent) EventName() string { return EventUserStatusChanged }

// UserRolesAssignedEvent fires when the set of roles held by a user changes.
type UserRolesAssignedEvent struct {
	UserID     string
	RoleIDs    []string
	AssignedBy string
	AssignedAt time.Time
}

func (UserRolesAssignedEvent) EventName() string { return EventUserRolesAssigned }

// RoleCreatedEvent fires when an administrator creates a role.
type RoleCreatedEvent struct {
	RoleID    string
	Name      string
	CreatedAt time.Time
}

func (RoleCreatedEvent) EventName() string { return EventRoleCreated }

// RoleDeletedEvent fires when a non-system role is removed.
type RoleDeletedEvent struct {
	RoleID    string
	Name      string
	DeletedAt time.Time
}

func (RoleDeletedEvent) EventName() string { return EventRoleDeleted }

// RolePermissionsChangedEvent fires when permissions are granted to or
// revoked from a role.
type RolePermissionsChangedEvent struct {
	RoleID     string
	GrantedIDs []string
	RevokedIDs []string
	ChangedBy  string
	ChangedAt  time.Time
}

func (RolePermissionsChangedEvent) EventName() string { return EventRolePermissionsChanged }

// EfaConfigurationCreatedEvent fires when a configuration year is created.
type EfaConfigurationCreatedEvent struct {
	ConfigurationID string
	Year            int
	EfaRate         float64
}

func (EfaConfigurationCreatedEvent) EventName() string { return EventEfaConfigurationCreated }

// EfaConfigurationUpdatedEvent fires when a configuration rate changes.
type EfaConfigurationUpdatedEvent struct {
	ConfigurationID string
	Year            int
	EfaRate         float64
}

func (EfaConfigurationUpdatedEvent) EventName() string { return EventEfaConfigurationUpdated }

// FileUploadedEvent fires when file metadata is recorded.
type FileUploadedEvent struct {
	FileID     string
	FileName   string
	UploadedBy string
	UploadedAt time.Time
}

func (FileUploadedEvent) EventName() string { return EventFileUploaded }

// FileDeletedEvent fires when a file record is removed.
type FileDeletedEvent struct {
	FileID    string
	FileName  string
	DeletedAt time.Time
}

func (FileDeletedEvent) EventName() string { return EventFileDeleted }
