package middleware

import (
	"context"
	"esignserver/internal/models"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSessionStorer struct {
	mock.Mock
}

func (m *mockSessionStorer) UserByToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Login: "alice"}
	storer := new(mockSessionStorer)
	storer.On("UserByToken", mock.Anything, "tok123").Return(user, nil)

	var got *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = r.Context().Value(models.UserContextKey).(*models.User)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	w := httptest.NewRecorder()

	Auth(discardLogger(), storer)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user, got)
	storer.AssertExpectations(t)
}

func TestAuth_QueryFallback(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	storer := new(mockSessionStorer)
	storer.On("UserByToken", mock.Anything, "qtok").Return(user, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/docs?token=qtok", nil)
	w := httptest.NewRecorder()

	Auth(discardLogger(), storer)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	storer.AssertExpectations(t)
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	storer := new(mockSessionStorer)
	storer.On("UserByToken", mock.Anything, "bad").Return(nil, models.ErrInvalidCredentials)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()

	Auth(discardLogger(), storer)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, nextCalled)
}

func TestAdmin_AllowsAdmins(t *testing.T) {
	t.Parallel()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/emails/failed", nil)
	req = req.WithContext(context.WithValue(req.Context(), models.UserContextKey, &models.User{ID: "u1", IsAdmin: true}))
	w := httptest.NewRecorder()

	Admin(discardLogger())(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, nextCalled)
}

func TestAdmin_RejectsNonAdmins(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/emails/failed", nil)
	req = req.WithContext(context.WithValue(req.Context(), models.UserContextKey, &models.User{ID: "u2"}))
	w := httptest.NewRecorder()

	Admin(discardLogger())(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBearerToken_HeaderWithoutPrefix(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "raw-token")

	assert.Equal(t, "raw-token", bearerToken(req))
}
