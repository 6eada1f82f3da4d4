package userservice

import (
	"context"
	"esignserver/internal/models"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserAdder struct {
	mock.Mock
}

func (m *MockUserAdder) AddUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) AdminEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestAddUser_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adder := new(MockUserAdder)
	service := New(slog.Default(), adder, new(MockUserProvider))

	user := models.User{ID: "u1", Login: "alice"}
	adder.On("AddUser", ctx, user).Return(nil)

	err := service.AddUser(ctx, user)
	assert.NoError(t, err)
	adder.AssertExpectations(t)
}

func TestAddUser_UniqueViolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adder := new(MockUserAdder)
	service := New(slog.Default(), adder, new(MockUserProvider))

	adder.On("AddUser", ctx, mock.Anything).Return(&models.UniqueConstraintError{Constraint: "users_login_key"})

	err := service.AddUser(ctx, models.User{Login: "alice"})
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestAddUser_OtherError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adder := new(MockUserAdder)
	service := New(slog.Default(), adder, new(MockUserProvider))

	adder.On("AddUser", ctx, mock.Anything).Return(assert.AnError)

	err := service.AddUser(ctx, models.User{Login: "alice"})
	assert.ErrorIs(t, err, models.ErrFailedToAddUser)
}

func TestUserByLogin_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := new(MockUserProvider)
	service := New(slog.Default(), new(MockUserAdder), provider)

	provider.On("UserByLogin", ctx, "ghost").Return(nil, models.ErrUserNotFound)

	user, err := service.UserByLogin(ctx, "ghost")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestAdminEmails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := new(MockUserProvider)
	service := New(slog.Default(), new(MockUserAdder), provider)

	provider.On("AdminEmails", ctx).Return([]string{"admin@example.com"}, nil)

	emails, err := service.AdminEmails(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com"}, emails)
}
