package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// AuthorizationService resolves effective permission sets and answers the
// per-request gate check. Resolution is the flat two-hop join: user roles,
// then role permissions, de-duplicated. Results may be cached; every RBAC
// mutation invalidates the whole cache, so a hit is never stale.
type AuthorizationService struct {
	permissions port.PermissionRepository
	cache       port.PermissionCache
	logger      *zap.Logger
}

// NewAuthorizationService constructs an AuthorizationService. The cache is
// optional; without one every check recomputes the set.
func NewAuthorizationService(permissions port.PermissionRepository, cache port.PermissionCache, logger *zap.Logger) *AuthorizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationService{permissions: permissions, cache: cache, logger: logger}
}

// ResolveEffectivePermissions returns the de-duplicated union of permission
// keys across every role the user holds.
func (s *AuthorizationService) ResolveEffectivePermissions(ctx context.Context, userID string) (domain.PermissionSet, error) {
	if s.cache != nil {
		keys, hit, err := s.cache.EffectiveSet(ctx, userID)
		if err != nil {
			s.logger.Warn("permission cache read failed, recomputing", zap.Error(err))
		} else if hit {
			return domain.NewPermissionSet(keys), nil
		}
	}

	keys, err := s.permissions.KeysByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve effective permissions: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.StoreSet(ctx, userID, keys); err != nil {
			s.logger.Warn("permission cache write failed", zap.Error(err))
		}
	}

	return domain.NewPermissionSet(keys), nil
}

// HasPermission reports whether the user's effective set contains the key.
func (s *AuthorizationService) HasPermission(ctx context.Context, userID, permissionKey string) (bool, error) {
	set, err := s.ResolveEffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(permissionKey), nil
}

// InvalidateCache drops every cached permission set. Called after any
// UserRole or RolePermission mutation commits. Cache errors are logged,
// not returned: the mutation has already committed and the cache is keyed
// by generation, so the worst case is a recompute.
func (s *AuthorizationService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("permission cache invalidation failed", zap.Error(err))
	}
}
