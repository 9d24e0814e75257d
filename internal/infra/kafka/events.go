package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher bridges committed domain events onto Kafka topics. It
// subscribes to the in-process bus; each event name maps to one topic.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

// Register attaches the publisher to every integration-relevant event name.
func (p *EventPublisher) Register(bus port.EventBus) {
	for _, name := range []string{
		domain.EventUserRegistered,
		domain.EventUserStatusChanged,
		domain.EventUserRolesAssigned,
		domain.EventRoleCreated,
		domain.EventRoleDeleted,
		domain.EventRolePermissionsChanged,
		domain.EventEfaConfigurationCreated,
		domain.EventEfaConfigurationUpdated,
		domain.EventFileUploaded,
		domain.EventFileDeleted,
	} {
		bus.Subscribe(name, p.handle)
	}
}

func (p *EventPublisher) handle(ctx context.Context, event domain.Event) error {
	return p.publish(ctx, event.EventName(), integrationPayload(event))
}

// integrationPayload shapes the outbound representation of an event.
// Secrets carried for in-process subscribers never leave the service.
func integrationPayload(event domain.Event) any {
	switch e := event.(type) {
	case domain.UserRegisteredEvent:
		return struct {
			UserID       string    `json:"user_id"`
			Email        string    `json:"email"`
			FirstName    string    `json:"first_name"`
			RegisteredAt time.Time `json:"registered_at"`
		}{
			UserID:       e.UserID,
			Email:        e.Email,
			FirstName:    e.FirstName,
			RegisteredAt: e.RegisteredAt.UTC(),
		}
	case domain.UserStatusChangedEvent:
		return struct {
			UserID    string    `json:"user_id"`
			OldStatus string    `json:"old_status"`
			NewStatus string    `json:"new_status"`
			ChangedAt time.Time `json:"changed_at"`
		}{
			UserID:    e.UserID,
			OldStatus: string(e.OldStatus),
			NewStatus: string(e.NewStatus),
			ChangedAt: e.ChangedAt.UTC(),
		}
	case domain.UserRolesAssignedEvent:
		return struct {
			UserID     string    `json:"user_id"`
			RoleIDs    []string  `json:"role_ids"`
			AssignedBy string    `json:"assigned_by,omitempty"`
			AssignedAt time.Time `json:"assigned_at"`
		}{
			UserID:     e.UserID,
			RoleIDs:    e.RoleIDs,
			AssignedBy: e.AssignedBy,
			AssignedAt: e.AssignedAt.UTC(),
		}
	case domain.RoleCreatedEvent:
		return struct {
			RoleID    string    `json:"role_id"`
			Name      string    `json:"name"`
			CreatedAt time.Time `json:"created_at"`
		}{
			RoleID:    e.RoleID,
			Name:      e.Name,
			CreatedAt: e.CreatedAt.UTC(),
		}
	case domain.RoleDeletedEvent:
		return struct {
			RoleID    string    `json:"role_id"`
			Name      string    `json:"name"`
			DeletedAt time.Time `json:"deleted_at"`
		}{
			RoleID:    e.RoleID,
			Name:      e.Name,
			DeletedAt: e.DeletedAt.UTC(),
		}
	case domain.RolePermissionsChangedEvent:
		return struct {
			RoleID     string    `json:"role_id"`
			GrantedIDs []string  `json:"granted_ids,omitempty"`
			RevokedIDs []string  `json:"revoked_ids,omitempty"`
			ChangedBy  string    `json:"changed_by,omitempty"`
			ChangedAt  time.Time `json:"changed_at"`
		}{
			RoleID:     e.RoleID,
			GrantedIDs: e.GrantedIDs,
			RevokedIDs: e.RevokedIDs,
			ChangedBy:  e.ChangedBy,
			ChangedAt:  e.ChangedAt.UTC(),
		}
	case domain.EfaConfigurationCreatedEvent:
		return struct {
			ConfigurationID string  `json:"configuration_id"`
			Year            int     `json:"year"`
			EfaRate         float64 `json:"efa_rate"`
		}{
			ConfigurationID: e.ConfigurationID,
			Year:            e.Year,
			EfaRate:         e.EfaRate,
		}
	case domain.EfaConfigurationUpdatedEvent:
		return struct {
			ConfigurationID string  `json:"configuration_id"`
			Year            int     `json:"year"`
			EfaRate         float64 `json:"efa_rate"`
		}{
			ConfigurationID: e.ConfigurationID,
			Year:            e.Year,
			EfaRate:         e.EfaRate,
		}
	case domain.FileUploadedEvent:
		return struct {
			FileID     string    `json:"file_id"`
			FileName   string    `json:"file_name"`
			UploadedBy string    `json:"uploaded_by,omitempty"`
			UploadedAt time.Time `json:"uploaded_at"`
		}{
			FileID:     e.FileID,
			FileName:   e.FileName,
			UploadedBy: e.UploadedBy,
			UploadedAt: e.UploadedAt.UTC(),
		}
	case domain.FileDeletedEvent:
		return struct {
			FileID    string    `json:"file_id"`
			FileName  string    `json:"file_name"`
			DeletedAt time.Time `json:"deleted_at"`
		}{
			FileID:    e.FileID,
			FileName:  e.FileName,
			DeletedAt: e.DeletedAt.UTC(),
		}
	default:
		return event
	}
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, payload any) error {
	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
