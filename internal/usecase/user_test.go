package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

func newUserServiceForTest(bus *busMock) (*UserService, *uowMock, *permissionCacheMock) {
	uow := newUOWMock(bus)
	cache := newPermissionCacheMock()
	authz := NewAuthorizationService(uow.work.perms, cache, nil)
	svc := NewUserService(uow, uow.work.users, uow.work.roles, &hasherMock{}, authz, nil, nil)
	return svc, uow, cache
}

func TestUserRegister(t *testing.T) {
	bus := &busMock{}
	svc, uow, _ := newUserServiceForTest(bus)

	user, err := svc.Register(context.Background(), RegisterUserInput{
		Email:     "  Jane.Doe@Example.COM ",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "jane.doe@example.com" {
		t.Errorf("email not normalised, got %q", user.Email)
	}
	if !user.IsTemporaryPassword {
		t.Error("expected the temporary password flag to be set")
	}
	if user.PasswordHash == "" {
		t.Error("expected a hashed temporary password")
	}

	stored, err := uow.work.users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if stored.Status != domain.UserStatusActive {
		t.Errorf("expected active status, got %q", stored.Status)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventUserRegistered {
		t.Fatalf("expected one registered event after commit, got %v", names)
	}
	registered, ok := bus.dispatched[0].(domain.UserRegisteredEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.dispatched[0])
	}
	if registered.TemporaryPassword == "" {
		t.Error("the registered event must carry the temporary password")
	}
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserServiceForTest(&busMock{})

	input := RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrEmailNotUnique) {
		t.Fatalf("expected ErrEmailNotUnique, got %v", err)
	}
}

func TestUserRegisterInvalidInput(t *testing.T) {
	svc, _, _ := newUserServiceForTest(&busMock{})

	cases := []struct {
		name  string
		input RegisterUserInput
	}{
		{"missing email", RegisterUserInput{FirstName: "Jane"}},
		{"malformed email", RegisterUserInput{Email: "not-an-address", FirstName: "Jane"}},
		{"missing first name", RegisterUserInput{Email: "jane@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected a validation failure, got %v", err)
			}
		})
	}
}

func TestUserRegisterUnknownRoleRollsBack(t *testing.T) {
	bus := &busMock{}
	svc, uow, _ := newUserServiceForTest(bus)

	_, err := svc.Register(context.Background(), RegisterUserInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		RoleIDs:   []string{"missing-role"},
	})
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected a not-found failure, got %v", err)
	}
	if uow.work.saved != 0 {
		t.Error("the unit of work must not commit when role validation fails")
	}
	if len(bus.names()) != 0 {
		t.Error("no events may be dispatched without a commit")
	}
}

func TestUserRegisterWithRolesInvalidatesCache(t *testing.T) {
	svc, uow, cache := newUserServiceForTest(&busMock{})

	role := &domain.Role{ID: "role-1", Name: "Editors"}
	if err := uow.work.roles.Create(context.Background(), role); err != nil {
		t.Fatal(err)
	}

	user, err := svc.Register(context.Background(), RegisterUserInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		RoleIDs:   []string{"role-1", "role-1"},
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	assigned := uow.work.roles.userRoles[user.ID]
	if len(assigned) != 1 || assigned[0] != "role-1" {
		t.Errorf("expected the deduplicated role assignment, got %v", assigned)
	}
	if cache.flushes != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.flushes)
	}
}

func TestUserUpdateStatusChangeRaisesEvent(t *testing.T) {
	bus := &busMock{}
	svc, uow, _ := newUserServiceForTest(bus)

	user, err := svc.Register(context.Background(), RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil

	updated, err := svc.Update(context.Background(), UpdateUserInput{
		UserID:    user.ID,
		FirstName: "Janet",
		LastName:  "Doe",
		Status:    domain.UserStatusSuspended,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.FirstName != "Janet" || updated.Status != domain.UserStatusSuspended {
		t.Errorf("profile fields not applied: %+v", updated)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventUserStatusChanged {
		t.Fatalf("expected a status change event, got %v", names)
	}
	event := bus.dispatched[0].(domain.UserStatusChangedEvent)
	if event.OldStatus != domain.UserStatusActive || event.NewStatus != domain.UserStatusSuspended {
		t.Errorf("unexpected transition %q -> %q", event.OldStatus, event.NewStatus)
	}

	stored, _ := uow.work.users.GetByID(context.Background(), user.ID)
	if stored.Status != domain.UserStatusSuspended {
		t.Error("status change not persisted")
	}
}

func TestUserUpdateSameStatusRaisesNothing(t *testing.T) {
	bus := &busMock{}
	svc, _, _ := newUserServiceForTest(bus)

	user, err := svc.Register(context.Background(), RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil

	if _, err := svc.Update(context.Background(), UpdateUserInput{
		UserID:    user.ID,
		FirstName: "Jane",
		Status:    domain.UserStatusActive,
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(bus.names()) != 0 {
		t.Errorf("no event expected for an unchanged status, got %v", bus.names())
	}
}

func TestUserUpdateRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newUserServiceForTest(&busMock{})

	_, err := svc.Update(context.Background(), UpdateUserInput{UserID: "any", Status: "frozen"})
	if !errors.Is(err, domain.ErrInvalidUserStatus) {
		t.Fatalf("expected ErrInvalidUserStatus, got %v", err)
	}
}

func TestUserUpdateReplacesRoleSet(t *testing.T) {
	svc, uow, _ := newUserServiceForTest(&busMock{})

	for _, role := range []*domain.Role{
		{ID: "role-1", Name: "Editors"},
		{ID: "role-2", Name: "Reviewers"},
	} {
		if err := uow.work.roles.Create(context.Background(), role); err != nil {
			t.Fatal(err)
		}
	}

	user, err := svc.Register(context.Background(), RegisterUserInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		RoleIDs:   []string{"role-1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(context.Background(), UpdateUserInput{
		UserID:    user.ID,
		FirstName: "Jane",
		Status:    domain.UserStatusActive,
		RoleIDs:   []string{"role-2"},
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	assigned := uow.work.roles.userRoles[user.ID]
	if len(assigned) != 1 || assigned[0] != "role-2" {
		t.Errorf("expected the role set to be replaced, got %v", assigned)
	}
}

func TestUserAssignRolesUnknownUser(t *testing.T) {
	svc, _, _ := newUserServiceForTest(&busMock{})

	err := svc.AssignRoles(context.Background(), "missing", []string{"role-1"}, "actor")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected a not-found failure, got %v", err)
	}
}

func TestUserAssignRolesDispatchesEvent(t *testing.T) {
	bus := &busMock{}
	svc, uow, cache := newUserServiceForTest(bus)

	if err := uow.work.roles.Create(context.Background(), &domain.Role{ID: "role-1", Name: "Editors"}); err != nil {
		t.Fatal(err)
	}
	user, err := svc.Register(context.Background(), RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil
	cache.flushes = 0

	if err := svc.AssignRoles(context.Background(), user.ID, []string{"role-1"}, "actor-1"); err != nil {
		t.Fatalf("AssignRoles returned error: %v", err)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventUserRolesAssigned {
		t.Fatalf("expected a roles assigned event, got %v", names)
	}
	event := bus.dispatched[0].(domain.UserRolesAssignedEvent)
	if event.AssignedBy != "actor-1" {
		t.Errorf("expected the acting user on the event, got %q", event.AssignedBy)
	}
	if cache.flushes != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.flushes)
	}
}

func TestUserChangePassword(t *testing.T) {
	svc, uow, _ := newUserServiceForTest(&busMock{})

	user, err := svc.Register(context.Background(), RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}
	current := user.PasswordHash[len("hashed:"):]

	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "Tr1cky&Long#Enough",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: current,
		NewPassword:     "Tr1cky&Long#Enough",
	}); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	stored, _ := uow.work.users.GetByID(context.Background(), user.ID)
	if stored.IsTemporaryPassword {
		t.Error("the temporary password flag must be cleared")
	}
	if stored.PasswordHash != "hashed:Tr1cky&Long#Enough" {
		t.Errorf("new password not stored, got %q", stored.PasswordHash)
	}
}

func TestUserCompleteWizard(t *testing.T) {
	svc, uow, _ := newUserServiceForTest(&busMock{})

	user, err := svc.Register(context.Background(), RegisterUserInput{Email: "jane@example.com", FirstName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.CompleteWizard(context.Background(), user.ID); err != nil {
		t.Fatalf("CompleteWizard returned error: %v", err)
	}
	stored, _ := uow.work.users.GetByID(context.Background(), user.ID)
	if !stored.IsWizardComplete {
		t.Error("wizard completion not persisted")
	}
}

func TestUserGetWithRoles(t *testing.T) {
	svc, uow, _ := newUserServiceForTest(&busMock{})

	if err := uow.work.roles.Create(context.Background(), &domain.Role{ID: "role-1", Name: "Editors"}); err != nil {
		t.Fatal(err)
	}
	user, err := svc.Register(context.Background(), RegisterUserInput{
		Email:     "jane@example.com",
		FirstName: "Jane",
		RoleIDs:   []string{"role-1"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.User.ID != user.ID {
		t.Errorf("unexpected user %q", got.User.ID)
	}
	if len(got.Roles) != 1 || got.Roles[0].Name != "Editors" {
		t.Errorf("unexpected roles %+v", got.Roles)
	}

	if _, err := svc.Get(context.Background(), "missing"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected a not-found failure, got %v", err)
	}
}
