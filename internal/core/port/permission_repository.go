package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// PermissionRepository exposes persistence operations for the permission
// catalogue. Rows are written only by registry synchronisation.
type PermissionRepository interface {
	CreateMany(ctx context.Context, permissions []domain.Permission) error
	List(ctx context.Context) ([]domain.Permission, error)
	// ListKeys returns every persisted permission key.
	ListKeys(ctx context.Context) ([]string, error)
	// ExistingIDs filters the provided ids down to those that reference a
	// persisted permission, preserving input order.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	// ListByRole returns permissions granted to the role.
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
	// KeysByUser returns the distinct permission keys reachable from the
	// user through its roles: the effective permission set.
	KeysByUser(ctx context.Context, userID string) ([]string, error)
}
