package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/repository"
)

// EfaConfigurationItem is one year/rate pair in a bulk upsert request.
type EfaConfigurationItem struct {
	Year    int
	EfaRate float64
}

// EfaConfigurationSummary reports one item's outcome in a bulk upsert.
type EfaConfigurationSummary struct {
	ID        string
	Year      int
	EfaRate   float64
	UpdatedAt time.Time
}

// BulkUpsertResult partitions a bulk call into created and updated items.
type BulkUpsertResult struct {
	Created []EfaConfigurationSummary
	Updated []EfaConfigurationSummary
	Total   int
}

// EfaConfigurationService manages EFA rate configurations keyed by year.
type EfaConfigurationService struct {
	uow     port.UnitOfWork
	configs port.EfaConfigurationRepository
	logger  *zap.Logger
}

// NewEfaConfigurationService constructs an EfaConfigurationService.
func NewEfaConfigurationService(uow port.UnitOfWork, configs port.EfaConfigurationRepository, log *zap.Logger) *EfaConfigurationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EfaConfigurationService{uow: uow, configs: configs, logger: log}
}

func validateItem(year int, rate float64) error {
	if year < 1900 || year > 2100 {
		return domain.ErrInvalidEfaYear
	}
	if rate < 0 {
		return domain.ErrInvalidEfaRate
	}
	return nil
}

// Create adds a configuration for a year that has none yet. The unique
// index on year is the final arbiter: the pre-check only narrows the
// window, and a constraint violation still maps to the same Conflict.
func (s *EfaConfigurationService) Create(ctx context.Context, year int, rate float64, updatedBy string) (*domain.EfaConfiguration, error) {
	if err := validateItem(year, rate); err != nil {
		return nil, err
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	exists, err := work.EfaConfigurations().YearExists(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("check year: %w", err)
	}
	if exists {
		return nil, domain.EfaConfigurationYearExists(year)
	}

	config := &domain.EfaConfiguration{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Year:      year,
		EfaRate:   rate,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}
	config.Raise(domain.EfaConfigurationCreatedEvent{
		ConfigurationID: config.ID,
		Year:            config.Year,
		EfaRate:         config.EfaRate,
	})

	if err := work.EfaConfigurations().Create(ctx, config); err != nil {
		return nil, translateConflict(err, domain.EfaConfigurationYearExists(year))
	}
	work.Register(config)

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, translateConflict(err, domain.EfaConfigurationYearExists(year))
	}

	return config, nil
}

// Edit changes the rate of an existing configuration.
func (s *EfaConfigurationService) Edit(ctx context.Context, id string, rate float64, updatedBy string) (*domain.EfaConfiguration, error) {
	if rate < 0 {
		return nil, domain.ErrInvalidEfaRate
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	config, err := work.EfaConfigurations().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.EfaConfigurationNotFound(id)
		}
		return nil, fmt.Errorf("get efa configuration: %w", err)
	}

	config.SetRate(rate, updatedBy, time.Now().UTC())

	if err := work.EfaConfigurations().Update(ctx, config); err != nil {
		return nil, fmt.Errorf("update efa configuration: %w", err)
	}
	work.Register(config)

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, err
	}

	return config, nil
}

// Delete removes a configuration by id.
func (s *EfaConfigurationService) Delete(ctx context.Context, id string) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	if err := work.EfaConfigurations().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.EfaConfigurationNotFound(id)
		}
		return fmt.Errorf("delete efa configuration: %w", err)
	}

	_, err = work.SaveChanges(ctx)
	return err
}

// GetAll returns every configuration ordered by year.
func (s *EfaConfigurationService) GetAll(ctx context.Context) ([]domain.EfaConfiguration, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list efa configurations: %w", err)
	}
	return configs, nil
}

// BulkUpsert creates or updates many configurations in one unit of work.
// Items whose year already exists land in the update bucket, the rest in
// the create bucket; the partition is deterministic and reported per item.
// A duplicate year later in the same request updates the record created
// earlier in the request instead of colliding with it.
func (s *EfaConfigurationService) BulkUpsert(ctx context.Context, items []EfaConfigurationItem, updatedBy string) (*BulkUpsertResult, error) {
	for _, item := range items {
		if err := validateItem(item.Year, item.EfaRate); err != nil {
			return nil, err
		}
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	years := make([]int, 0, len(items))
	for _, item := range items {
		years = append(years, item.Year)
	}

	existing, err := work.EfaConfigurations().ListByYears(ctx, years)
	if err != nil {
		return nil, fmt.Errorf("list existing years: %w", err)
	}

	byYear := make(map[int]*domain.EfaConfiguration, len(existing))
	for i := range existing {
		byYear[existing[i].Year] = &existing[i]
	}

	now := time.Now().UTC()
	result := &BulkUpsertResult{
		Created: make([]EfaConfigurationSummary, 0),
		Updated: make([]EfaConfigurationSummary, 0),
	}

	for _, item := range items {
		if config, ok := byYear[item.Year]; ok {
			config.SetRate(item.EfaRate, updatedBy, now)
			if err := work.EfaConfigurations().Update(ctx, config); err != nil {
				return nil, fmt.Errorf("update year %d: %w", item.Year, err)
			}
			work.Register(config)
			result.Updated = append(result.Updated, summarize(config))
			continue
		}

		config := &domain.EfaConfiguration{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Year:      item.Year,
			EfaRate:   item.EfaRate,
			UpdatedBy: updatedBy,
			UpdatedAt: now,
		}
		config.Raise(domain.EfaConfigurationCreatedEvent{
			ConfigurationID: config.ID,
			Year:            config.Year,
			EfaRate:         config.EfaRate,
		})

		if err := work.EfaConfigurations().Create(ctx, config); err != nil {
			return nil, translateConflict(err, domain.EfaConfigurationYearExists(item.Year))
		}
		work.Register(config)
		byYear[item.Year] = config
		result.Created = append(result.Created, summarize(config))
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, translateConflict(err, domain.NewConflictError("efa_configuration.year_exists", "an EFA configuration year collided during commit"))
	}

	result.Total = len(result.Created) + len(result.Updated)
	return result, nil
}

func summarize(config *domain.EfaConfiguration) EfaConfigurationSummary {
	return EfaConfigurationSummary{
		ID:        config.ID,
		Year:      config.Year,
		EfaRate:   config.EfaRate,
		UpdatedAt: config.UpdatedAt,
	}
}
