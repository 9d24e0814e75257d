package events

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/saralhq/admin-backend/internal/core/domain"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))

	var order []string
	dispatcher.Subscribe(domain.EventRoleCreated, func(_ context.Context, event domain.Event) error {
		order = append(order, "first:"+event.EventName())
		return nil
	})
	dispatcher.Subscribe(domain.EventRoleCreated, func(_ context.Context, event domain.Event) error {
		order = append(order, "second:"+event.EventName())
		return nil
	})

	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.RoleCreatedEvent{RoleID: "role-1"},
	})

	if len(order) != 2 {
		t.Fatalf("expected both handlers to run, got %v", order)
	}
	if order[0] != "first:"+domain.EventRoleCreated || order[1] != "second:"+domain.EventRoleCreated {
		t.Errorf("handlers must run in registration order, got %v", order)
	}
}

func TestDispatcherRoutesByName(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))

	var created, deleted int
	dispatcher.Subscribe(domain.EventRoleCreated, func(context.Context, domain.Event) error {
		created++
		return nil
	})
	dispatcher.Subscribe(domain.EventRoleDeleted, func(context.Context, domain.Event) error {
		deleted++
		return nil
	})

	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.RoleCreatedEvent{RoleID: "role-1"},
		domain.RoleCreatedEvent{RoleID: "role-2"},
	})

	if created != 2 {
		t.Errorf("expected two deliveries for the created event, got %d", created)
	}
	if deleted != 0 {
		t.Errorf("the deleted handler must not run, got %d", deleted)
	}
}

func TestDispatcherIsolatesHandlerFailures(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))

	var ran []string
	dispatcher.Subscribe(domain.EventUserRegistered, func(context.Context, domain.Event) error {
		ran = append(ran, "failing")
		return errors.New("smtp unreachable")
	})
	dispatcher.Subscribe(domain.EventUserRegistered, func(context.Context, domain.Event) error {
		ran = append(ran, "healthy")
		return nil
	})

	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.UserRegisteredEvent{UserID: "user-1"},
	})

	if len(ran) != 2 || ran[1] != "healthy" {
		t.Errorf("a failing handler must not block the next one, got %v", ran)
	}
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))

	var survived bool
	dispatcher.Subscribe(domain.EventUserRegistered, func(context.Context, domain.Event) error {
		panic("handler bug")
	})
	dispatcher.Subscribe(domain.EventUserRegistered, func(context.Context, domain.Event) error {
		survived = true
		return nil
	})

	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.UserRegisteredEvent{UserID: "user-1"},
	})

	if !survived {
		t.Error("a panicking handler must not abort the dispatch")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))

	// Dispatching without subscribers must simply do nothing.
	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.FileUploadedEvent{FileID: "file-1"},
	})
}

func TestDispatcherIgnoresNilHandler(t *testing.T) {
	dispatcher := NewDispatcher(zaptest.NewLogger(t))
	dispatcher.Subscribe(domain.EventFileUploaded, nil)

	dispatcher.Dispatch(context.Background(), []domain.Event{
		domain.FileUploadedEvent{FileID: "file-1"},
	})
}
