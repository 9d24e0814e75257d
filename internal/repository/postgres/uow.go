package postgres

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// txBeginner abstracts pgxpool.Pool for transaction start so the unit of
// work can be exercised against pgxmock in tests.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UnitOfWork opens pgx transactions and wires transaction-scoped
// repositories around them.
type UnitOfWork struct {
	db     txBeginner
	bus    port.EventBus
	logger *zap.Logger
}

// NewUnitOfWork constructs a unit of work factory over the pool.
func NewUnitOfWork(pool *pgxpool.Pool, bus port.EventBus, logger *zap.Logger) *UnitOfWork {
	return newUnitOfWork(pool, bus, logger)
}

func newUnitOfWork(db txBeginner, bus port.EventBus, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{db: db, bus: bus, logger: logger}
}

// Begin starts a transaction and returns the open unit of work.
func (u *UnitOfWork) Begin(ctx context.Context) (port.Work, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}

	work := &Work{
		tx:     tx,
		bus:    u.bus,
		logger: u.logger,
	}
	work.exec = &countingExecutor{tx: tx, affected: &work.affected}

	return work, nil
}

// Work is one open transaction. Repositories obtained from it share the
// transaction; registered aggregates contribute their pending events to the
// pre-commit snapshot.
type Work struct {
	tx       pgx.Tx
	exec     *countingExecutor
	bus      port.EventBus
	logger   *zap.Logger
	carriers []domain.EventCarrier
	affected int64
	closed   bool
}

// Users returns the user repository bound to this transaction.
func (w *Work) Users() port.UserRepository { return newUserRepository(w.exec) }

// Roles returns the role repository bound to this transaction.
func (w *Work) Roles() port.RoleRepository { return newRoleRepository(w.exec) }

// Permissions returns the permission repository bound to this transaction.
func (w *Work) Permissions() port.PermissionRepository { return newPermissionRepository(w.exec) }

// EfaConfigurations returns the EFA configuration repository bound to this transaction.
func (w *Work) EfaConfigurations() port.EfaConfigurationRepository {
	return newEfaConfigurationRepository(w.exec)
}

// Files returns the file repository bound to this transaction.
func (w *Work) Files() port.FileRepository { return newFileRepository(w.exec) }

// Register tracks an aggregate for event collection. Registration order
// fixes cross-aggregate dispatch order; duplicates are ignored.
func (w *Work) Register(carrier domain.EventCarrier) {
	if carrier == nil {
		return
	}
	for _, existing := range w.carriers {
		if existing == carrier {
			return
		}
	}
	w.carriers = append(w.carriers, carrier)
}

// SaveChanges snapshots pending events from every registered aggregate,
// commits the transaction, and only then dispatches the snapshot. A failed
// commit discards the snapshot so no event is ever published for a mutation
// that did not durably persist.
func (w *Work) SaveChanges(ctx context.Context) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("unit of work already closed")
	}
	w.closed = true

	var pending []domain.Event
	for _, carrier := range w.carriers {
		pending = append(pending, carrier.PullEvents()...)
	}

	if err := w.tx.Commit(ctx); err != nil {
		return 0, translateError(err, "commit unit of work")
	}

	if len(pending) > 0 && w.bus != nil {
		w.bus.Dispatch(ctx, pending)
	}

	return int(atomic.LoadInt64(&w.affected)), nil
}

// Rollback aborts the transaction. Safe to defer: after SaveChanges it is
// a no-op.
func (w *Work) Rollback(ctx context.Context) error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("rollback unit of work: %w", err)
	}

	return nil
}

// countingExecutor forwards statements to the transaction while summing
// affected rows, so SaveChanges can report a change count the way the
// storage boundary promises.
type countingExecutor struct {
	tx       pgx.Tx
	affected *int64
}

func (e *countingExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := e.tx.Exec(ctx, sql, args...)
	if err == nil {
		atomic.AddInt64(e.affected, tag.RowsAffected())
	}
	return tag, err
}

func (e *countingExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return e.tx.Query(ctx, sql, args...)
}

func (e *countingExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return e.tx.QueryRow(ctx, sql, args...)
}

var _ port.UnitOfWork = (*UnitOfWork)(nil)
var _ port.Work = (*Work)(nil)
