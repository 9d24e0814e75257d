package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/repository"
)

// EfaConfigurationRepository implements EFA configuration persistence.
type EfaConfigurationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewEfaConfigurationRepository constructs a PostgreSQL-backed repository.
func NewEfaConfigurationRepository(pool *pgxpool.Pool) *EfaConfigurationRepository {
	return newEfaConfigurationRepository(pool)
}

func newEfaConfigurationRepository(exec pgExecutor) *EfaConfigurationRepository {
	return &EfaConfigurationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new configuration row. The unique index on year is the
// final arbiter for duplicate years.
func (r *EfaConfigurationRepository) Create(ctx context.Context, config *domain.EfaConfiguration) error {
	stmt, args, err := r.builder.Insert("efa_configurations").
		Columns("id", "year", "efa_rate", "updated_by", "updated_at").
		Values(config.ID, config.Year, config.EfaRate, config.UpdatedBy, config.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert efa configuration sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert efa configuration")
	}

	return nil
}

// GetByID retrieves a configuration by its ID.
func (r *EfaConfigurationRepository) GetByID(ctx context.Context, id string) (*domain.EfaConfiguration, error) {
	stmt, args, err := r.builder.Select("id", "year", "efa_rate", "updated_by", "updated_at").
		From("efa_configurations").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select efa configuration sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var config domain.EfaConfiguration
	if err := row.Scan(&config.ID, &config.Year, &config.EfaRate, &config.UpdatedBy, &config.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan efa configuration: %w", err)
	}

	return &config, nil
}

// List retrieves all configurations ordered by year.
func (r *EfaConfigurationRepository) List(ctx context.Context) ([]domain.EfaConfiguration, error) {
	return r.list(ctx, nil)
}

// ListByYears retrieves configurations whose year appears in the slice.
func (r *EfaConfigurationRepository) ListByYears(ctx context.Context, years []int) ([]domain.EfaConfiguration, error) {
	if len(years) == 0 {
		return nil, nil
	}
	return r.list(ctx, squirrel.Eq{"year": years})
}

func (r *EfaConfigurationRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.EfaConfiguration, error) {
	query := r.builder.Select("id", "year", "efa_rate", "updated_by", "updated_at").
		From("efa_configurations").
		OrderBy("year ASC")
	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list efa configurations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query efa configurations: %w", err)
	}
	defer rows.Close()

	configs := make([]domain.EfaConfiguration, 0)
	for rows.Next() {
		var config domain.EfaConfiguration
		if err := rows.Scan(&config.ID, &config.Year, &config.EfaRate, &config.UpdatedBy, &config.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan efa configuration: %w", err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate efa configurations: %w", err)
	}

	return configs, nil
}

// YearExists reports whether a configuration row exists for the year.
func (r *EfaConfigurationRepository) YearExists(ctx context.Context, year int) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("efa_configurations").
		Where(squirrel.Eq{"year": year}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build efa year exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("query efa year exists: %w", err)
	}

	return true, nil
}

// Update modifies an existing configuration.
func (r *EfaConfigurationRepository) Update(ctx context.Context, config *domain.EfaConfiguration) error {
	stmt, args, err := r.builder.Update("efa_configurations").
		Set("efa_rate", config.EfaRate).
		Set("updated_by", config.UpdatedBy).
		Set("updated_at", config.UpdatedAt).
		Where(squirrel.Eq{"id": config.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update efa configuration sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return translateError(err, "update efa configuration")
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a configuration by ID.
func (r *EfaConfigurationRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("efa_configurations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete efa configuration sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete efa configuration: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.EfaConfigurationRepository = (*EfaConfigurationRepository)(nil)
