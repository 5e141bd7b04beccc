// Package notify delivers password reset tokens to users.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httpclient"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

// Notifier kinds accepted by configuration.
const (
	KindLog     = "log"
	KindKafka   = "kafka"
	KindWebhook = "webhook"
)

// PasswordReset is a reset token addressed to one user.
type PasswordReset struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier hands a password reset token to a delivery channel.
type Notifier interface {
	SendPasswordReset(ctx context.Context, msg PasswordReset) error
}

// LogNotifier writes reset requests to the log. The raw token is only
// logged at debug level.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	n.logger.InfoContext(ctx, "password reset token issued",
		slog.String("user_id", msg.UserID),
		slog.String("email", msg.Email),
		slog.Time("expires_at", msg.ExpiresAt),
	)
	n.logger.DebugContext(ctx, "password reset token",
		slog.String("user_id", msg.UserID),
		slog.String("token", msg.Token),
	)
	return nil
}

// resetPublisher is implemented by *event.Producer.
type resetPublisher interface {
	PublishPasswordResetRequested(ctx context.Context, data event.PasswordResetRequestedData) error
}

// KafkaNotifier publishes reset requests for a notification consumer.
type KafkaNotifier struct {
	producer resetPublisher
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(producer resetPublisher) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	return n.producer.PublishPasswordResetRequested(ctx, event.PasswordResetRequestedData{
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		Email:     msg.Email,
		Token:     msg.Token,
		ExpiresAt: msg.ExpiresAt,
	})
}

// webhookPayload is the body POSTed to the webhook.
type webhookPayload struct {
	Type     string        `json:"type"`
	TracerID string        `json:"tracer_id,omitempty"`
	Data     PasswordReset `json:"data"`
}

// WebhookNotifier POSTs reset requests to an HTTP endpoint through a
// circuit breaker.
type WebhookNotifier struct {
	client *httpclient.CircuitBreakerClient
	url    string
}

// NewWebhookNotifier creates a WebhookNotifier for url.
func NewWebhookNotifier(client *httpclient.CircuitBreakerClient, url string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	resp, err := n.client.PostJSON(ctx, n.url, webhookPayload{
		Type:     event.TypePasswordResetRequested,
		TracerID: logger.TracerIDFromContext(ctx),
		Data:     msg,
	})
	if err != nil {
		return fmt.Errorf("post password reset webhook: %w", err)
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return httpclient.ParseResponseError(resp, "password reset webhook")
	}
	httpclient.Drain(resp)
	return nil
}

// ValidKind reports whether kind names a notifier.
func ValidKind(kind string) bool {
	switch strings.ToLower(kind) {
	case KindLog, KindKafka, KindWebhook:
		return true
	}
	return false
}
