package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/notify"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEntity(ctx context.Context, entity, action, id string, data any) error {
	args := m.Called(ctx, entity, action, id, data)
	return args.Error(0)
}

func (m *mockPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// newMockPublisher accepts every event.
func newMockPublisher() *mockPublisher {
	p := new(mockPublisher)
	p.On("PublishEntity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	p.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(nil).Maybe()
	return p
}

// --- Mock Notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendPasswordReset(ctx context.Context, msg notify.PasswordReset) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(v bool) *bool          { return &v }
func strPtr(v string) *string       { return &v }
func intPtr(v int) *int             { return &v }
func int64Ptr(v int64) *int64       { return &v }
func tagsPtr(v ...string) *[]string { return &v }

// requireAppError asserts err is an AppError with the given status.
func requireAppError(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, status, appErr.Status, appErr.Message)
	return appErr
}
