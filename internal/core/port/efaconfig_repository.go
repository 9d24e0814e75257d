package port

import (
	"context"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

// EfaConfigurationRepository exposes persistence operations for EFA rate
// configurations keyed by year.
type EfaConfigurationRepository interface {
	Create(ctx context.Context, config *domain.EfaConfiguration) error
	GetByID(ctx context.Context, id string) (*domain.EfaConfiguration, error)
	List(ctx context.Context) ([]domain.EfaConfiguration, error)
	// ListByYears returns configurations whose year appears in the slice.
	ListByYears(ctx context.Context, years []int) ([]domain.EfaConfiguration, error)
	YearExists(ctx context.Context, year int) (bool, error)
	Update(ctx context.Context, config *domain.EfaConfiguration) error
	Delete(ctx context.Context, id string) error
}
