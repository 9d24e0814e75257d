package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
)

// PermissionRepository implements port.PermissionRepository over PostgreSQL.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a permission repository instance.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return newPermissionRepository(pool)
}

func newPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMany inserts the provided permission rows in one statement.
func (r *PermissionRepository) CreateMany(ctx context.Context, permissions []domain.Permission) error {
	if len(permissions) == 0 {
		return nil
	}

	query := r.builder.Insert("permissions").
		Columns("id", "key", "display_name", "category", "description")

	for _, permission := range permissions {
		query = query.Values(permission.ID, permission.Key, permission.DisplayName, permission.Category, permission.Description)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert permissions")
	}

	return nil
}

// List retrieves the full catalogue ordered by category then key.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "key", "display_name", "category", "description").
		From("permissions").
		OrderBy("category ASC", "key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(&permission.ID, &permission.Key, &permission.DisplayName, &permission.Category, &permission.Description); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

// ListKeys returns every persisted permission key.
func (r *PermissionRepository) ListKeys(ctx context.Context) ([]string, error) {
	stmt, args, err := r.builder.Select("key").
		From("permissions").
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permission keys sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permission keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan permission key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission keys: %w", err)
	}

	return keys, nil
}

// ExistingIDs filters the provided ids down to persisted permissions.
func (r *PermissionRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt, args, err := r.builder.Select("id").
		From("permissions").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing permission ids sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing permission ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan permission id: %w", err)
		}
		found[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission ids: %w", err)
	}

	existing := make([]string, 0, len(found))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			existing = append(existing, id)
		}
	}

	return existing, nil
}

// ListByRole returns permissions granted to the role.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("p.id", "p.key", "p.display_name", "p.category", "p.description").
		From("permissions p").
		Join("role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permissions by role sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by role: %w", err)
	}
	defer rows.Close()

	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(&permission.ID, &permission.Key, &permission.DisplayName, &permission.Category, &permission.Description); err != nil {
			return nil, fmt.Errorf("scan permission by role: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions by role: %w", err)
	}

	return permissions, nil
}

// KeysByUser resolves the user's effective permission set: the distinct
// keys reachable through the two-hop user_roles/role_permissions join.
func (r *PermissionRepository) KeysByUser(ctx context.Context, userID string) ([]string, error) {
	stmt, args, err := r.builder.Select("DISTINCT p.key").
		From("permissions p").
		Join("role_permissions rp ON rp.permission_id = p.id").
		Join("user_roles ur ON ur.role_id = rp.role_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("p.key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permission keys by user sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permission keys by user: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan permission key by user: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission keys by user: %w", err)
	}

	return keys, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
