package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/infra/logger"
	"github.com/saralhq/admin-backend/internal/infra/security"
	"github.com/saralhq/admin-backend/internal/repository"
)

const temporaryPasswordLength = 12

// RegisterUserInput captures the payload for provisioning a user account.
type RegisterUserInput struct {
	Email     string
	FirstName string
	LastName  string
	RoleIDs   []string
}

// UpdateUserInput captures the payload for updating a user. RoleIDs, when
// non-nil, replaces the user's role set in the same unit of work.
type UpdateUserInput struct {
	UserID    string
	FirstName string
	LastName  string
	Status    domain.UserStatus
	RoleIDs   []string
}

// ChangePasswordInput captures a self-service password change.
type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// UserWithRoles pairs a user with its assigned roles for read paths.
type UserWithRoles struct {
	User  domain.User
	Roles []domain.Role
}

// UserService manages user accounts and their role assignments.
type UserService struct {
	uow       port.UnitOfWork
	users     port.UserRepository
	roles     port.RoleRepository
	hasher    port.PasswordHasher
	authz     *AuthorizationService
	validator *security.PasswordValidator
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(
	uow port.UnitOfWork,
	users port.UserRepository,
	roles port.RoleRepository,
	hasher port.PasswordHasher,
	authz *AuthorizationService,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		uow:       uow,
		users:     users,
		roles:     roles,
		hasher:    hasher,
		authz:     authz,
		validator: validator,
		logger:    log,
	}
}

// Register provisions a new user with a generated temporary password and
// optionally assigns roles inside the same unit of work. The temporary
// password leaves the process only through the UserRegistered event, which
// the post-commit notifier consumes.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("user.invalid_email", "a valid email address is required")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, domain.NewValidationError("user.invalid_name", "the first name must not be empty")
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	if _, err := work.Users().GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailNotUnique
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	temporaryPassword, err := generateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("generate temporary password: %w", err)
	}

	hash, err := s.hasher.Hash(temporaryPassword)
	if err != nil {
		return nil, fmt.Errorf("hash temporary password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		Email:               email,
		FirstName:           strings.TrimSpace(input.FirstName),
		LastName:            strings.TrimSpace(input.LastName),
		PasswordHash:        hash,
		Status:              domain.UserStatusActive,
		IsTemporaryPassword: true,
		CreatedAt:           now,
		ModifiedAt:          now,
	}
	user.Raise(domain.UserRegisteredEvent{
		UserID:            user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		TemporaryPassword: temporaryPassword,
		RegisteredAt:      now,
	})

	if err := work.Users().Create(ctx, user); err != nil {
		return nil, translateConflict(err, domain.ErrEmailNotUnique)
	}
	work.Register(user)

	rolesChanged := false
	if len(input.RoleIDs) > 0 {
		if err := assignRolesInWork(ctx, work, user, input.RoleIDs, ""); err != nil {
			return nil, err
		}
		rolesChanged = true
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, translateConflict(err, domain.ErrEmailNotUnique)
	}

	if rolesChanged && s.authz != nil {
		s.authz.InvalidateCache(ctx)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return user, nil
}

// Update edits profile fields and account status; a non-nil RoleIDs slice
// replaces the role set atomically with the profile change.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	if !domain.ValidUserStatus(input.Status) {
		return nil, domain.ErrInvalidUserStatus
	}

	work, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	user, err := work.Users().GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFound(input.UserID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now().UTC()
	if user.Status != input.Status {
		user.Raise(domain.UserStatusChangedEvent{
			UserID:    user.ID,
			OldStatus: user.Status,
			NewStatus: input.Status,
			ChangedAt: now,
		})
	}

	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Status = input.Status
	user.ModifiedAt = now

	if err := work.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	work.Register(user)

	rolesChanged := false
	if input.RoleIDs != nil {
		if err := work.Roles().RemoveAllFromUser(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("clear user roles: %w", err)
		}
		if err := assignRolesInWork(ctx, work, user, input.RoleIDs, ""); err != nil {
			return nil, err
		}
		rolesChanged = true
	}

	if _, err := work.SaveChanges(ctx); err != nil {
		return nil, err
	}

	if rolesChanged && s.authz != nil {
		s.authz.InvalidateCache(ctx)
	}

	return user, nil
}

// AssignRoles replaces the user's role associations. Unknown role ids
// reject the whole call; assigning an already-held role is idempotent.
func (s *UserService) AssignRoles(ctx context.Context, userID string, roleIDs []string, assignedBy string) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	user, err := work.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserNotFound(userID)
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := work.Roles().RemoveAllFromUser(ctx, userID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	if err := assignRolesInWork(ctx, work, user, roleIDs, assignedBy); err != nil {
		return err
	}
	work.Register(user)

	if _, err := work.SaveChanges(ctx); err != nil {
		return err
	}

	if s.authz != nil {
		s.authz.InvalidateCache(ctx)
	}

	return nil
}

// assignRolesInWork validates and links roles inside an open unit of work,
// raising the assignment event on the user aggregate.
func assignRolesInWork(ctx context.Context, work port.Work, user *domain.User, roleIDs []string, assignedBy string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	unique := dedupe(roleIDs)

	existing, err := work.Roles().ExistingIDs(ctx, unique)
	if err != nil {
		return fmt.Errorf("validate role ids: %w", err)
	}
	if len(existing) != len(unique) {
		missing := firstMissing(unique, existing)
		return domain.RoleNotFound(missing)
	}

	if err := work.Roles().AssignToUser(ctx, user.ID, unique); err != nil {
		return fmt.Errorf("assign roles: %w", err)
	}

	user.Raise(domain.UserRolesAssignedEvent{
		UserID:     user.ID,
		RoleIDs:    unique,
		AssignedBy: assignedBy,
		AssignedAt: time.Now().UTC(),
	})
	work.Register(user)

	return nil
}

// ChangePassword verifies the current credential and replaces it after a
// strength check, clearing the temporary-password flag.
func (s *UserService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserNotFound(input.UserID)
		}
		return fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	if s.validator != nil {
		if err := s.validator.Validate(input.NewPassword); err != nil {
			return domain.ErrWeakPassword
		}
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash, false); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// CompleteWizard marks the onboarding wizard as finished for the user.
func (s *UserService) CompleteWizard(ctx context.Context, userID string) error {
	work, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	user, err := work.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserNotFound(userID)
		}
		return fmt.Errorf("get user: %w", err)
	}

	user.IsWizardComplete = true
	user.ModifiedAt = time.Now().UTC()

	if err := work.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	_, err = work.SaveChanges(ctx)
	return err
}

// Get returns the user with its assigned roles.
func (s *UserService) Get(ctx context.Context, userID string) (*UserWithRoles, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFound(userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}

	return &UserWithRoles{User: *user, Roles: roles}, nil
}

// List returns all users sorted by email.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// translateConflict converts a storage constraint violation into the given
// typed Conflict failure; other errors pass through untouched.
func translateConflict(err error, conflict *domain.Error) error {
	if errors.Is(err, repository.ErrConflict) {
		return conflict
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstMissing(wanted, found []string) string {
	foundSet := make(map[string]struct{}, len(found))
	for _, id := range found {
		foundSet[id] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := foundSet[id]; !ok {
			return id
		}
	}
	return ""
}

const temporaryPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// generateTemporaryPassword draws characters uniformly from a fixed
// alphabet using crypto/rand.
func generateTemporaryPassword(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = temporaryPasswordAlphabet[int(b)%len(temporaryPasswordAlphabet)]
	}
	return string(out), nil
}
