package notification

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"fitplatform/internal/logger"
	"fitplatform/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetLogger(logger.New(io.Discard, "error"))
	os.Exit(m.Run())
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n Create) (*Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, id, userID int) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRecipients struct {
	mock.Mock
}

func (m *MockRecipients) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendNotification(ctx context.Context, to, name, title, message string) error {
	return m.Called(ctx, to, name, title, message).Error(0)
}

func TestService_Send(t *testing.T) {
	t.Run("in-app only", func(t *testing.T) {
		repo, recipients, mailer := new(MockRepository), new(MockRecipients), new(MockMailer)
		svc := NewService(repo, recipients, mailer)

		in := Create{UserID: 3, Title: "Hi", Message: "Welcome"}
		stored := in
		stored.Type = TypeSystem
		repo.On("Create", mock.Anything, stored).Return(&Notification{ID: 1, UserID: 3, Type: TypeSystem}, nil)

		n, err := svc.Send(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, TypeSystem, n.Type)
		recipients.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with email copy", func(t *testing.T) {
		repo, recipients, mailer := new(MockRepository), new(MockRecipients), new(MockMailer)
		svc := NewService(repo, recipients, mailer)

		in := Create{UserID: 3, Title: "Booked", Message: "See you", Type: TypeRegistration, SendEmail: true}
		repo.On("Create", mock.Anything, in).
			Return(&Notification{ID: 2, UserID: 3, Title: "Booked", Message: "See you", SendEmail: true}, nil)
		recipients.On("FindByID", mock.Anything, 3).Return(&user.User{ID: 3, Name: "Ann", Email: "ann@example.com"}, nil)
		mailer.On("SendNotification", mock.Anything, "ann@example.com", "Ann", "Booked", "See you").Return(nil)

		_, err := svc.Send(context.Background(), in)
		require.NoError(t, err)
		mailer.AssertExpectations(t)
	})

	t.Run("email failure does not fail send", func(t *testing.T) {
		repo, recipients, mailer := new(MockRepository), new(MockRecipients), new(MockMailer)
		svc := NewService(repo, recipients, mailer)

		in := Create{UserID: 3, Title: "x", Message: "y", Type: TypeGoal, SendEmail: true}
		repo.On("Create", mock.Anything, in).Return(&Notification{ID: 3, UserID: 3}, nil)
		recipients.On("FindByID", mock.Anything, 3).Return(nil, errors.New("gone"))

		_, err := svc.Send(context.Background(), in)
		require.NoError(t, err)
		mailer.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.Send(context.Background(), Create{UserID: 1, Title: "x", Message: "y"})
		assert.Error(t, err)
	})
}

func TestService_ReadState(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	repo.On("MarkRead", ctx, 10, 3).Return(ErrNotificationNotFound)
	repo.On("MarkAllRead", ctx, 3).Return(int64(4), nil)
	repo.On("CountUnread", ctx, 3).Return(0, nil)

	assert.ErrorIs(t, svc.MarkRead(ctx, 3, 10), ErrNotificationNotFound)

	n, err := svc.MarkAllRead(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	count, err := svc.UnreadCount(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, count)
}
