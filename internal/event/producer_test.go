package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	pkgkafka "github.com/Vinhhoang-1312/apiskylarbox/pkg/kafka"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishEntity(t *testing.T) {
	sender := new(mockSender)
	p := NewProducer(sender, discardLogger())
	ctx := logger.WithTracerID(context.Background(), "trace-9")

	var sent *pkgkafka.Event
	sender.On("Publish", mock.Anything, TopicCatalogEvents, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	cat := &domain.Category{Model: docstore.Model{ID: "c1"}, Name: "Gifts"}
	require.NoError(t, p.PublishEntity(ctx, domain.EntityCategory, ActionCreated, cat.ID, cat))

	require.NotNil(t, sent)
	assert.Equal(t, "category.created", sent.EventType)
	assert.Equal(t, "c1", sent.AggregateID)
	assert.Equal(t, domain.EntityCategory, sent.AggregateType)
	assert.Equal(t, SourceAPI, sent.Source)
	assert.Equal(t, "trace-9", sent.TracerID)

	var decoded domain.Category
	require.NoError(t, sent.UnmarshalData(&decoded))
	assert.Equal(t, "Gifts", decoded.Name)
	sender.AssertExpectations(t)
}

func TestPublishEntity_WrapsSendError(t *testing.T) {
	sender := new(mockSender)
	p := NewProducer(sender, discardLogger())
	sender.On("Publish", mock.Anything, TopicCatalogEvents, mock.Anything).Return(errors.New("broker down"))

	err := p.PublishEntity(context.Background(), domain.EntityProduct, ActionDeleted, "p1", DeletedData{ID: "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product.deleted")
	assert.Contains(t, err.Error(), "broker down")
}

func TestPublishUserRegistered(t *testing.T) {
	sender := new(mockSender)
	p := NewProducer(sender, discardLogger())

	sender.On("Publish", mock.Anything, TopicUserEvents, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		var d UserRegisteredData
		return e.EventType == TypeUserRegistered && e.UnmarshalData(&d) == nil && d.UserName == "alice"
	})).Return(nil)

	u := &domain.User{Model: docstore.Model{ID: "u1"}, UserName: "alice", Password: "hash"}
	require.NoError(t, p.PublishUserRegistered(context.Background(), u))
	sender.AssertExpectations(t)
}

func TestPublishPasswordResetRequested(t *testing.T) {
	sender := new(mockSender)
	p := NewProducer(sender, discardLogger())
	expires := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	sender.On("Publish", mock.Anything, TopicUserEvents, mock.MatchedBy(func(e *pkgkafka.Event) bool {
		var d PasswordResetRequestedData
		return e.EventType == TypePasswordResetRequested && e.UnmarshalData(&d) == nil &&
			d.Token == "raw" && d.ExpiresAt.Equal(expires) && e.AggregateID == "u1"
	})).Return(nil)

	err := p.PublishPasswordResetRequested(context.Background(), PasswordResetRequestedData{
		UserID: "u1", Email: "a@example.com", Token: "raw", ExpiresAt: expires,
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEntity(context.Background(), "x", ActionCreated, "1", nil))
	assert.NoError(t, p.PublishUserRegistered(context.Background(), &domain.User{}))
}
