package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

func newRoleServiceForTest(bus *busMock) (*RoleService, *uowMock, *permissionCacheMock) {
	uow := newUOWMock(bus)
	cache := newPermissionCacheMock()
	authz := NewAuthorizationService(uow.work.perms, cache, nil)
	svc := NewRoleService(uow, uow.work.roles, uow.work.perms, authz, nil)
	return svc, uow, cache
}

func TestRoleCreate(t *testing.T) {
	bus := &busMock{}
	svc, uow, _ := newRoleServiceForTest(bus)

	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "  Editors ", Description: "content editors"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if role.Name != "Editors" {
		t.Errorf("name not trimmed, got %q", role.Name)
	}
	if role.IsSystemRole {
		t.Error("user-created roles must not be system roles")
	}

	if _, err := uow.work.roles.GetByID(context.Background(), role.ID); err != nil {
		t.Fatalf("role was not persisted: %v", err)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventRoleCreated {
		t.Fatalf("expected one created event after commit, got %v", names)
	}
}

func TestRoleCreateDuplicateName(t *testing.T) {
	svc, _, _ := newRoleServiceForTest(&busMock{})

	if _, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if !errors.Is(err, domain.ErrRoleNameNotUnique) {
		t.Fatalf("expected ErrRoleNameNotUnique, got %v", err)
	}
}

func TestRoleCreateEmptyName(t *testing.T) {
	svc, _, _ := newRoleServiceForTest(&busMock{})

	_, err := svc.Create(context.Background(), CreateRoleInput{Name: "   "})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected a validation failure, got %v", err)
	}
}

func TestRoleUpdateSystemRoleRename(t *testing.T) {
	svc, uow, _ := newRoleServiceForTest(&busMock{})

	system := &domain.Role{ID: "sys-1", Name: "Administrator", IsSystemRole: true}
	if err := uow.work.roles.Create(context.Background(), system); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Update(context.Background(), UpdateRoleInput{RoleID: "sys-1", Name: "Renamed"})
	if !errors.Is(err, domain.ErrSystemRoleImmutable) {
		t.Fatalf("expected ErrSystemRoleImmutable, got %v", err)
	}

	// The description of a system role may change as long as the name stays.
	updated, err := svc.Update(context.Background(), UpdateRoleInput{RoleID: "sys-1", Name: "Administrator", Description: "full access"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Description != "full access" {
		t.Errorf("description not applied, got %q", updated.Description)
	}
}

func TestRoleDelete(t *testing.T) {
	bus := &busMock{}
	svc, uow, cache := newRoleServiceForTest(bus)

	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil
	cache.flushes = 0

	if err := svc.Delete(context.Background(), role.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := uow.work.roles.GetByID(context.Background(), role.ID); err == nil {
		t.Fatal("the role must be gone after Delete")
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventRoleDeleted {
		t.Fatalf("expected one deleted event, got %v", names)
	}
	if cache.flushes != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.flushes)
	}
}

func TestRoleDeleteSystemRole(t *testing.T) {
	svc, uow, _ := newRoleServiceForTest(&busMock{})

	system := &domain.Role{ID: "sys-1", Name: "Administrator", IsSystemRole: true}
	if err := uow.work.roles.Create(context.Background(), system); err != nil {
		t.Fatal(err)
	}

	err := svc.Delete(context.Background(), "sys-1")
	if !errors.Is(err, domain.ErrSystemRoleImmutable) {
		t.Fatalf("expected ErrSystemRoleImmutable, got %v", err)
	}
}

func TestRoleDeleteWhileAssigned(t *testing.T) {
	svc, uow, _ := newRoleServiceForTest(&busMock{})

	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}
	if err := uow.work.roles.AssignToUser(context.Background(), "user-1", []string{role.ID}); err != nil {
		t.Fatal(err)
	}

	err = svc.Delete(context.Background(), role.ID)
	if !errors.Is(err, domain.ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}
	if _, err := uow.work.roles.GetByID(context.Background(), role.ID); err != nil {
		t.Fatal("the role must survive a rejected delete")
	}
}

func TestRoleGrantPermissions(t *testing.T) {
	bus := &busMock{}
	svc, uow, cache := newRoleServiceForTest(bus)

	if err := uow.work.perms.CreateMany(context.Background(), []domain.Permission{
		{ID: "perm-1", Key: "users.read"},
		{ID: "perm-2", Key: "users.create"},
	}); err != nil {
		t.Fatal(err)
	}
	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil
	cache.flushes = 0

	if err := svc.GrantPermissions(context.Background(), role.ID, []string{"perm-1", "perm-2", "perm-1"}, "actor-1"); err != nil {
		t.Fatalf("GrantPermissions returned error: %v", err)
	}

	granted := uow.work.roles.rolePerms[role.ID]
	if len(granted) != 2 {
		t.Errorf("expected two grants, got %v", granted)
	}
	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventRolePermissionsChanged {
		t.Fatalf("expected one permissions changed event, got %v", names)
	}
	if cache.flushes != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.flushes)
	}
}

func TestRoleGrantUnknownPermission(t *testing.T) {
	svc, uow, _ := newRoleServiceForTest(&busMock{})

	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}

	err = svc.GrantPermissions(context.Background(), role.ID, []string{"missing"}, "actor-1")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected a not-found failure, got %v", err)
	}
	if uow.work.saved != 1 {
		t.Errorf("only the create may commit, got %d saves", uow.work.saved)
	}
}

func TestRoleGrantAlreadyHeldIsNoOp(t *testing.T) {
	bus := &busMock{}
	svc, uow, cache := newRoleServiceForTest(bus)

	if err := uow.work.perms.CreateMany(context.Background(), []domain.Permission{{ID: "perm-1", Key: "users.read"}}); err != nil {
		t.Fatal(err)
	}
	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.GrantPermissions(context.Background(), role.ID, []string{"perm-1"}, "actor-1"); err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil
	cache.flushes = 0

	if err := svc.GrantPermissions(context.Background(), role.ID, []string{"perm-1"}, "actor-1"); err != nil {
		t.Fatalf("repeated grant returned error: %v", err)
	}
	if len(bus.names()) != 0 {
		t.Errorf("a no-op grant must not raise events, got %v", bus.names())
	}
	if cache.flushes != 0 {
		t.Error("a no-op grant must not invalidate the cache")
	}
}

func TestRoleRevokePermissions(t *testing.T) {
	bus := &busMock{}
	svc, uow, _ := newRoleServiceForTest(bus)

	if err := uow.work.perms.CreateMany(context.Background(), []domain.Permission{{ID: "perm-1", Key: "users.read"}}); err != nil {
		t.Fatal(err)
	}
	role, err := svc.Create(context.Background(), CreateRoleInput{Name: "Editors"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.GrantPermissions(context.Background(), role.ID, []string{"perm-1"}, "actor-1"); err != nil {
		t.Fatal(err)
	}
	bus.dispatched = nil

	if err := svc.RevokePermissions(context.Background(), role.ID, []string{"perm-1"}, "actor-1"); err != nil {
		t.Fatalf("RevokePermissions returned error: %v", err)
	}
	if len(uow.work.roles.rolePerms[role.ID]) != 0 {
		t.Error("the grant must be removed")
	}

	names := bus.names()
	if len(names) != 1 || names[0] != domain.EventRolePermissionsChanged {
		t.Fatalf("expected one permissions changed event, got %v", names)
	}
	event := bus.dispatched[0].(domain.RolePermissionsChangedEvent)
	if len(event.RevokedIDs) != 1 || len(event.GrantedIDs) != 0 {
		t.Errorf("expected a revoke-only event, got %+v", event)
	}
}

func TestRoleChangePermissionsEmptyInput(t *testing.T) {
	svc, uow, _ := newRoleServiceForTest(&busMock{})

	if err := svc.GrantPermissions(context.Background(), "role-1", nil, "actor-1"); err != nil {
		t.Fatalf("an empty grant must be a no-op, got %v", err)
	}
	if uow.work.saved != 0 {
		t.Error("an empty grant must not open a unit of work")
	}
}
