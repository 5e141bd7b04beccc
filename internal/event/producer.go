// Package event publishes the domain events of the catalog API to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	pkgkafka "github.com/Vinhhoang-1312/apiskylarbox/pkg/kafka"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

// Kafka topics.
const (
	TopicCatalogEvents = "catalog.events"
	TopicUserEvents    = "user.events"
)

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// User event types.
const (
	TypeUserRegistered         = "user.registered"
	TypePasswordResetRequested = "user.password_reset_requested"
)

// SourceAPI identifies events originating from this service.
const SourceAPI = "skylarbox-api"

// DeletedData is the payload of a <entity>.deleted event.
type DeletedData struct {
	ID   string `json:"id"`
	Soft bool   `json:"soft"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID         string `json:"id"`
	UserName   string `json:"user_name"`
	Email      string `json:"email,omitempty"`
	BusinessID string `json:"business_id"`
}

// PasswordResetRequestedData is the payload for a
// user.password_reset_requested event. The token is the raw reset token the
// notification consumer delivers to the user.
type PasswordResetRequestedData struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Publisher is the event surface the services depend on.
type Publisher interface {
	PublishEntity(ctx context.Context, entity, action, id string, data any) error
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}

// Sender writes one event to a topic. *pkgkafka.Producer implements it.
type Sender interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  Sender
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer.
func NewProducer(kafka Sender, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// EventType returns the "<entity>.<action>" event type.
func EventType(entity, action string) string {
	return entity + "." + action
}

// PublishEntity publishes a catalog entity change keyed by the entity id.
func (p *Producer) PublishEntity(ctx context.Context, entity, action, id string, data any) error {
	return p.publish(ctx, TopicCatalogEvents, EventType(entity, action), id, entity, data,
		slog.String("entity", entity),
		slog.String("id", id),
	)
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:         user.ID,
		UserName:   user.UserName,
		Email:      user.Email,
		BusinessID: user.BusinessID,
	}
	return p.publish(ctx, TopicUserEvents, TypeUserRegistered, user.ID, domain.EntityUser, data,
		slog.String("user_id", user.ID),
	)
}

// PublishPasswordResetRequested publishes a user.password_reset_requested event.
func (p *Producer) PublishPasswordResetRequested(ctx context.Context, data PasswordResetRequestedData) error {
	return p.publish(ctx, TopicUserEvents, TypePasswordResetRequested, data.UserID, domain.EntityUser, data,
		slog.String("user_id", data.UserID),
	)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, id, aggregate string, data any, attrs ...any) error {
	event, err := pkgkafka.NewEvent(eventType, id, aggregate, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithTracerID(logger.TracerIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event", attrs...)
	return nil
}

// Nop discards every event. It is used when no Kafka brokers are configured.
type Nop struct{}

var _ Publisher = Nop{}

func (Nop) PublishEntity(context.Context, string, string, string, any) error { return nil }

func (Nop) PublishUserRegistered(context.Context, *domain.User) error { return nil }
