package domain

import (
	"fmt"
	"time"
)

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// ValidUserStatus reports whether the value is a known account state.
func ValidUserStatus(status UserStatus) bool {
	switch status {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users table. It owns
// zero or more role associations through the user_roles mapping table.
type User struct {
	Events

	ID                  string
	Email               string
	FirstName           string
	LastName            string
	PasswordHash        string
	Status              UserStatus
	IsTemporaryPassword bool
	IsWizardComplete    bool
	CreatedAt           time.Time
	ModifiedAt          time.Time
}

var (
	// ErrEmailNotUnique indicates another user already holds the email.
	ErrEmailNotUnique = NewConflictError("user.email_not_unique", "the email address is already registered")
	// ErrInvalidUserStatus indicates an unknown account state value.
	ErrInvalidUserStatus = NewValidationError("user.invalid_status", "the user status is not recognised")
	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = NewUnauthenticatedError("auth.invalid_credentials", "the provided credentials are invalid")
	// ErrWeakPassword indicates the new password failed the strength policy.
	ErrWeakPassword = NewValidationError("user.weak_password", "the password does not meet the strength requirements")
)

// UserNotFound builds the NotFound failure for a missing user id.
func UserNotFound(id string) *Error {
	return NewNotFoundError("user.not_found", fmt.Sprintf("the user with ID %q was not found", id))
}
