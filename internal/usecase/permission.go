package usecase

import (
	"context"
	"fmt"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// PermissionGroup collects catalogue entries sharing a category.
type PermissionGroup struct {
	Category    string
	Permissions []domain.Permission
}

// PermissionService exposes read access to the persisted permission
// catalogue. Writes happen only through startup registry synchronisation.
type PermissionService struct {
	permissions port.PermissionRepository
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: permissions}
}

// List returns the full catalogue ordered by category then key.
func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// ListGrouped returns the catalogue grouped by category, preserving the
// repository's category ordering.
func (s *PermissionService) ListGrouped(ctx context.Context) ([]PermissionGroup, error) {
	permissions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]PermissionGroup, 0)
	index := make(map[string]int)
	for _, permission := range permissions {
		idx, ok := index[permission.Category]
		if !ok {
			idx = len(groups)
			index[permission.Category] = idx
			groups = append(groups, PermissionGroup{Category: permission.Category})
		}
		groups[idx].Permissions = append(groups[idx].Permissions, permission)
	}

	return groups, nil
}
