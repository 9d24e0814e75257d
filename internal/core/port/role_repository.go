package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// RoleRepository exposes persistence operations for roles and the
// user_roles / role_permissions mapping tables.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error

	// ExistingIDs filters the provided ids down to those that reference a
	// persisted role, preserving input order.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	// CountUsers returns how many users currently hold the role.
	CountUsers(ctx context.Context, roleID string) (int, error)

	// GrantPermissions links permissions to the role; already-granted pairs
	// are skipped. Returns the number of rows inserted.
	GrantPermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)
	// RevokePermissions removes permissions from the role; pairs not held
	// are skipped. Returns the number of rows deleted.
	RevokePermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)

	// AssignToUser links the roles to the user; existing pairs are skipped.
	AssignToUser(ctx context.Context, userID string, roleIDs []string) error
	// RemoveAllFromUser clears every role association for the user.
	RemoveAllFromUser(ctx context.Context, userID string) error
	// ListByUser returns roles assigned to the user sorted by name.
	ListByUser(ctx context.Context, userID string) ([]domain.Role, error)
}
