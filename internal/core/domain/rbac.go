package domain

import (
	"fmt"
	"time"
)

// Permission defines a named capability. Rows are created only by registry
// synchronisation at startup; handlers key off Key, never the id.
type Permission struct {
	ID          string
	Key         string
	DisplayName string
	Category    string
	Description string
}

// Role defines a set of permissions. System roles are provisioned by
// seeding and cannot be renamed or deleted through ordinary operations.
type Role struct {
	Events

	ID           string
	Name         string
	Description  string
	IsSystemRole bool
}

// UserRole assigns a role to a user.
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedAt time.Time
}

// RolePermission links a role with a permission.
type RolePermission struct {
	RoleID       string
	PermissionID string
}

// PermissionSet is a de-duplicated collection of permission keys.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the provided keys.
func NewPermissionSet(keys []string) PermissionSet {
	set := make(PermissionSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the permission key.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

var (
	// ErrRoleNameNotUnique indicates another role already holds the name.
	ErrRoleNameNotUnique = NewConflictError("role.name_not_unique", "a role with this name already exists")
	// ErrSystemRoleImmutable indicates an attempt to rename or delete a system role.
	ErrSystemRoleImmutable = NewConflictError("role.system_role_immutable", "system roles cannot be modified or deleted")
	// ErrRoleInUse indicates a delete was rejected while users still hold the role.
	ErrRoleInUse = NewConflictError("role.in_use", "the role is still assigned to one or more users")
)

// RoleNotFound builds the NotFound failure for a missing role id.
func RoleNotFound(id string) *Error {
	return NewNotFoundError("role.not_found", fmt.Sprintf("the role with ID %q was not found", id))
}

// PermissionNotFound builds the NotFound failure for a missing permission id.
func PermissionNotFound(id string) *Error {
	return NewNotFoundError("permission.not_found", fmt.Sprintf("the permission with ID %q was not found", id))
}
