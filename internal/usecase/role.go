package usecase

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
	"github.com/saralhq/admin-backend/internal/repository"
)

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name        string
	Description string
}

// UpdateRoleInput captures the payload for renaming or describing a role.
type UpdateRoleInput struct {
	RoleID      string
	Name        string
	Description string
}

// RoleWithPermissions pairs a role with its granted permissions.
type RoleWithPermissions struct {
	Role        domain.Role
	Permissions []domain.Permission
}

// RoleService manages roles and their permission grants.
type RoleService struct {
	uow         port.UnitOfWork
	roles       port.RoleRepository
	permissions port.PermissionRepository
	authz       *AuthorizationService
	logger      *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(
	uow port.UnitOfWork,
	roles port.RoleRepository,
	permissions port.PermissionRepository,
	authz *AuthorizationService,
	log *zap.Logger,
) *RoleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleService{uow: uow, roles: roles, permissions: permissions, authz: authz, logger: log}
}

// Create provisions a new non-system role.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("role.invalid_name", "the role name must not be empty")
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	if _, err := work.Roles().GetByName(ctx, name); err == nil {
		return nil, domain.ErrRoleNameNotUnique
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by name: %w", err)
	}

	role := &domain.Role{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	role.Raise(domain.RoleCreatedEvent{
		RoleID:    role.ID,
		Name:      role.Name,
		CreatedAt: time.Now().UTC(),
	})

	if err := work.Roles().Create(ctx, role); err != nil {
		return nil, translateConflict(err, domain.ErrRoleNameNotUnique)
	}
	work.Register(role)

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, translateConflict(err, domain.ErrRoleNameNotUnique)
	}

	return role, nil
}

// Update renames or re-describes a role. System roles are immutable.
func (s *RoleService) Update(ctx context.Context, input UpdateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("role.invalid_name", "the role name must not be empty")
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	role, err := work.Roles().GetByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.RoleNotFound(input.RoleID)
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	if role.IsSystemRole && role.Name != name {
		return nil, domain.ErrSystemRoleImmutable
	}

	role.Name = name
	role.Description = strings.TrimSpace(input.Description)

	if err := work.Roles().Update(ctx, role); err != nil {
		return nil, translateConflict(err, domain.ErrRoleNameNotUnique)
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, translateConflict(err, domain.ErrRoleNameNotUnique)
	}

	return role, nil
}

// Delete removes a role. System roles cannot be deleted, and a role still
// assigned to users is rejected rather than cascaded: the caller must
// unassign first.
func (s *RoleService) Delete(ctx context.Context, roleID string) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	role, err := work.Roles().GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RoleNotFound(roleID)
		}
		return fmt.Errorf("get role: %w", err)
	}

	if role.IsSystemRole {
		return domain.ErrSystemRoleImmutable
	}

	assigned, err := work.Roles().CountUsers(ctx, roleID)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if assigned > 0 {
		return domain.ErrRoleInUse
	}

	role.Raise(domain.RoleDeletedEvent{
		RoleID:    role.ID,
		Name:      role.Name,
		DeletedAt: time.Now().UTC(),
	})
	work.Register(role)

	if err := work.Roles().Delete(ctx, roleID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return err
	}

	if s.authz != nil {
		s.authz.InvalidateCache(ctx)
	}

	return nil
}

// GrantPermissions links permissions to the role. Unknown permission ids
// reject the call; granting an already-granted permission is a no-op.
func (s *RoleService) GrantPermissions(ctx context.Context, roleID string, permissionIDs []string, changedBy string) error {
	return s.changePermissions(ctx, roleID, permissionIDs, changedBy, true)
}

// RevokePermissions removes permissions from the role. Revoking a
// permission not held is a no-op.
func (s *RoleService) RevokePermissions(ctx context.Context, roleID string, permissionIDs []string, changedBy string) error {
	return s.changePermissions(ctx, roleID, permissionIDs, changedBy, false)
}

func (s *RoleService) changePermissions(ctx context.Context, roleID string, permissionIDs []string, changedBy string, grant bool) error {
	unique := dedupe(permissionIDs)
	if len(unique) == 0 {
		return nil
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	role, err := work.Roles().GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.RoleNotFound(roleID)
		}
		return fmt.Errorf("get role: %w", err)
	}

	if grant {
		existing, err := work.Permissions().ExistingIDs(ctx, unique)
		if err != nil {
			return fmt.Errorf("validate permission ids: %w", err)
		}
		if len(existing) != len(unique) {
			return domain.PermissionNotFound(firstMissing(unique, existing))
		}
	}

	var changed int
	var event domain.RolePermissionsChangedEvent
	if grant {
		changed, err = work.Roles().GrantPermissions(ctx, roleID, unique)
		event = domain.RolePermissionsChangedEvent{RoleID: roleID, GrantedIDs: unique, ChangedBy: changedBy, ChangedAt: time.Now().UTC()}
	} else {
		changed, err = work.Roles().RevokePermissions(ctx, roleID, unique)
		event = domain.RolePermissionsChangedEvent{RoleID: roleID, RevokedIDs: unique, ChangedBy: changedBy, ChangedAt: time.Now().UTC()}
	}
	if err != nil {
		return fmt.Errorf("change role permissions: %w", err)
	}

	if changed > 0 {
		role.Raise(event)
		work.Register(role)
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return err
	}

	if changed > 0 && s.authz != nil {
		s.authz.InvalidateCache(ctx)
	}

	return nil
}

// Get returns the role with its granted permissions.
func (s *RoleService) Get(ctx context.Context, roleID string) (*RoleWithPermissions, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.RoleNotFound(roleID)
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	perms, err := s.permissions.ListByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}

	return &RoleWithPermissions{Role: *role, Permissions: perms}, nil
}

// List returns all roles sorted by name.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}
