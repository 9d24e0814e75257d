package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// UnitOfWork begins atomic units of work. Everything mutated through a
// single Work either commits together or not at all.
type UnitOfWork interface {
	Begin(ctx context.Context) (Work, error)
}

// Work is one open unit of work. Repositories obtained from it execute
// inside the same transaction. Aggregates that raise events must be
// registered so SaveChanges can collect them: the pending events are
// snapshotted before the storage commit and dispatched only after the
// commit succeeds. A failed commit discards the snapshot.
type Work interface {
	Users() UserRepository
	Roles() RoleRepository
	Permissions() PermissionRepository
	EfaConfigurations() EfaConfigurationRepository
	Files() FileRepository

	// Register tracks an aggregate for event collection. Registering the
	// same aggregate twice is a no-op; registration order fixes the
	// cross-aggregate dispatch order.
	Register(carrier domain.EventCarrier)

	// SaveChanges commits the unit of work and returns the number of rows
	// affected by its statements. On success every event raised on a
	// registered aggregate is dispatched exactly once, in raise order.
	SaveChanges(ctx context.Context) (int, error)

	// Rollback aborts the unit of work. Calling it after SaveChanges is a
	// no-op, which makes it safe to defer.
	Rollback(ctx context.Context) error
}
