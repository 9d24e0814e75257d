package port

import "context"

// PermissionCache stores resolved effective permission sets. A stale cache
// is a correctness bug, so every RBAC mutation must call Invalidate.
type PermissionCache interface {
	// EffectiveSet returns the cached keys for the user and whether the
	// entry was present.
	EffectiveSet(ctx context.Context, userID string) ([]string, bool, error)
	StoreSet(ctx context.Context, userID string, keys []string) error
	// Invalidate drops every cached set at once. Granularity is coarse on
	// purpose: any UserRole or RolePermission mutation may widen or narrow
	// an arbitrary number of users.
	Invalidate(ctx context.Context) error
}
