// Package seed provisions the baseline data the service needs before it can
// accept requests: the permission catalogue, the Administrator role, and the
// initial administrator account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/infra/config"
	"github.com/saralhq/admin-backend/internal/infra/logger"
	"github.com/saralhq/admin-backend/internal/permissions"
	"github.com/saralhq/admin-backend/internal/repository"
)

// AdministratorRoleName is the provisioned system role holding every permission.
const AdministratorRoleName = "Administrator"

// Seeder synchronises the permission registry with the database and
// bootstraps the administrator role and account. Every step is idempotent;
// the seeder runs on each startup.
type Seeder struct {
	uow    port.UnitOfWork
	hasher port.PasswordHasher
	cfg    config.SeedSettings
	logger *zap.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(uow port.UnitOfWork, hasher port.PasswordHasher, cfg config.SeedSettings, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{uow: uow, hasher: hasher, cfg: cfg, logger: log}
}

// Run executes all seeding steps inside a single transaction.
func (s *Seeder) Run(ctx context.Context) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed unit of work: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	created, err := s.syncPermissions(ctx, work)
	if err != nil {
		return err
	}

	role, err := s.ensureAdministratorRole(ctx, work)
	if err != nil {
		return err
	}

	granted, err := s.grantAllPermissions(ctx, work, role.ID)
	if err != nil {
		return err
	}

	adminCreated, err := s.ensureAdminUser(ctx, work, role.ID)
	if err != nil {
		return err
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return fmt.Errorf("commit seed unit of work: %w", err)
	}

	s.logger.Info("database seeding complete",
		zap.Int("permissions_created", created),
		zap.Int("permissions_granted", granted),
		zap.Bool("admin_user_created", adminCreated),
	)
	return nil
}

// syncPermissions inserts catalogue entries missing from the database.
// Rows for keys removed from the catalogue are kept; grants referencing
// them simply stop matching any route.
func (s *Seeder) syncPermissions(ctx context.Context, work port.Work) (int, error) {
	existing, err := work.Permissions().ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list permission keys: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, key := range existing {
		known[key] = struct{}{}
	}

	var missing []domain.Permission
	for _, def := range permissions.All() {
		if _, ok := known[def.Key]; ok {
			continue
		}
		missing = append(missing, domain.Permission{
			ID:          uuid.Must(uuid.NewV7()).String(),
			Key:         def.Key,
			DisplayName: def.DisplayName,
			Category:    def.Category,
			Description: def.Description,
		})
	}

	if len(missing) == 0 {
		return 0, nil
	}

	if err := work.Permissions().CreateMany(ctx, missing); err != nil {
		return 0, fmt.Errorf("create missing permissions: %w", err)
	}
	return len(missing), nil
}

func (s *Seeder) ensureAdministratorRole(ctx context.Context, work port.Work) (*domain.Role, error) {
	role, err := work.Roles().GetByName(ctx, AdministratorRoleName)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get administrator role: %w", err)
	}

	role = &domain.Role{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         AdministratorRoleName,
		Description:  "Full access to every administrative operation",
		IsSystemRole: true,
	}
	if err := work.Roles().Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create administrator role: %w", err)
	}

	s.logger.Info("administrator role provisioned", zap.String("role_id", role.ID))
	return role, nil
}

func (s *Seeder) grantAllPermissions(ctx context.Context, work port.Work, roleID string) (int, error) {
	all, err := work.Permissions().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list permissions: %w", err)
	}

	ids := make([]string, 0, len(all))
	for _, permission := range all {
		ids = append(ids, permission.ID)
	}

	granted, err := work.Roles().GrantPermissions(ctx, roleID, ids)
	if err != nil {
		return 0, fmt.Errorf("grant administrator permissions: %w", err)
	}
	return granted, nil
}

func (s *Seeder) ensureAdminUser(ctx context.Context, work port.Work, roleID string) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	if email == "" {
		s.logger.Warn("admin email not configured, skipping administrator account")
		return false, nil
	}

	if _, err := work.Users().GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("get administrator account: %w", err)
	}

	if strings.TrimSpace(s.cfg.AdminPassword) == "" {
		s.logger.Warn("admin password not configured, skipping administrator account",
			zap.String("email", logger.MaskEmail(email)))
		return false, nil
	}

	hash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash administrator password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:               uuid.Must(uuid.NewV7()).String(),
		Email:            email,
		FirstName:        "System",
		LastName:         "Administrator",
		PasswordHash:     hash,
		Status:           domain.UserStatusActive,
		IsWizardComplete: true,
		CreatedAt:        now,
		ModifiedAt:       now,
	}
	if err := work.Users().Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create administrator account: %w", err)
	}

	if err := work.Roles().AssignToUser(ctx, admin.ID, []string{roleID}); err != nil {
		return false, fmt.Errorf("assign administrator role: %w", err)
	}

	s.logger.Info("administrator account provisioned",
		zap.String("user_id", admin.ID),
		zap.String("email", logger.MaskEmail(email)),
	)
	return true, nil
}
