package emails

import (
	"context"
	"encoding/json"
	"esignserver/internal/models"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockFailedDeliveryProvider struct {
	mock.Mock
}

func (m *mockFailedDeliveryProvider) ListFailedDeliveries(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailLog), args.Error(1)
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/emails/failed?limit=5", nil)
	w := httptest.NewRecorder()

	recs := []*models.EmailLog{
		{
			ID:        "e1",
			Kind:      "document_uploaded",
			Recipient: "admin@example.com",
			Subject:   "Document uploaded: Contract",
			Status:    models.EmailStatusFailed,
			Error:     "smtp timeout",
			CreatedAt: time.Now(),
		},
	}

	mockProvider := new(mockFailedDeliveryProvider)
	mockProvider.On("ListFailedDeliveries", mock.Anything, 5).Return(recs, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Get(req.Context(), logger, w, req, mockProvider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string][]map[string]any
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Len(t, parsed["data"]["emails"], 1)
	assert.Equal(t, "smtp timeout", parsed["data"]["emails"][0]["error"])
	mockProvider.AssertExpectations(t)
}

func TestGet_NoLimitUsesZero(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/emails/failed", nil)
	w := httptest.NewRecorder()

	mockProvider := new(mockFailedDeliveryProvider)
	mockProvider.On("ListFailedDeliveries", mock.Anything, 0).Return([]*models.EmailLog{}, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Get(req.Context(), logger, w, req, mockProvider)

	assert.Equal(t, http.StatusOK, w.Code)
	mockProvider.AssertExpectations(t)
}

func TestGet_InternalError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/emails/failed", nil)
	w := httptest.NewRecorder()

	mockProvider := new(mockFailedDeliveryProvider)
	mockProvider.On("ListFailedDeliveries", mock.Anything, 0).Return(nil, models.ErrInternal)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Get(req.Context(), logger, w, req, mockProvider)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockProvider.AssertExpectations(t)
}
