package sign

import (
	"context"
	"encoding/json"
	"esignserver/internal/models"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) Sign(ctx context.Context, requester *models.User, docID string, placements []models.SignaturePlacement) (*models.SignedDocument, error) {
	args := m.Called(ctx, requester, docID, placements)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SignedDocument), args.Error(1)
}

func requestWithUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
}

func TestAdd_Success(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	body := `{"signature_id": "s1", "page": 2, "x": 0.5, "y": 0.8}`
	req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(body))
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	signed := &models.SignedDocument{
		ID:          "sd1",
		DocumentID:  "d1",
		SignatureID: "s1",
		Page:        2,
		PosX:        0.5,
		PosY:        0.8,
		CreatedAt:   time.Now(),
	}

	mockSign := new(mockSigner)
	mockSign.On("Sign", mock.Anything, user, "d1", []models.SignaturePlacement{{SignatureID: "s1", Page: 2, X: 0.5, Y: 0.8}}).Return(signed, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Add(req.Context(), logger, w, req, "d1", mockSign)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed map[string]map[string]any
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Equal(t, "sd1", parsed["data"]["id"])
	assert.Equal(t, float64(2), parsed["data"]["page"])
	mockSign.AssertExpectations(t)
}

func TestAdd_SignaturesArrayOverridesFlatFields(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	body := `{"signature_id": "ignored", "signatures": [` +
		`{"signature_id": "s1", "page": 1, "x": 0.2, "y": 0.3},` +
		`{"signature_id": "s2", "page": 2, "x": 0.7, "y": 0.8}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(body))
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	signed := &models.SignedDocument{ID: "sd1", DocumentID: "d1", SignatureID: "s1", Page: 1}

	mockSign := new(mockSigner)
	mockSign.On("Sign", mock.Anything, user, "d1", []models.SignaturePlacement{
		{SignatureID: "s1", Page: 1, X: 0.2, Y: 0.3},
		{SignatureID: "s2", Page: 2, X: 0.7, Y: 0.8},
	}).Return(signed, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, "d1", mockSign)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSign.AssertExpectations(t)
}

func TestAdd_DefaultPlacementFields(t *testing.T) {
	t.Parallel()

	// An empty body is valid JSON absence handled by the service, but the
	// handler itself only forwards the zero values.
	user := &models.User{ID: "u1"}
	req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(`{"signature_id": "s1"}`))
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	signed := &models.SignedDocument{ID: "sd1", DocumentID: "d1", SignatureID: "s1", Page: 5}

	mockSign := new(mockSigner)
	mockSign.On("Sign", mock.Anything, user, "d1", []models.SignaturePlacement{{SignatureID: "s1"}}).Return(signed, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, "d1", mockSign)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSign.AssertExpectations(t)
}

func TestAdd_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		signErr    error
		wantStatus int
	}{
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"document not found", models.ErrDocumentNotFound, http.StatusNotFound},
		{"signature not found", models.ErrSignatureNotFound, http.StatusNotFound},
		{"page out of range", models.ErrPageOutOfRange, http.StatusBadRequest},
		{"invalid position", models.ErrInvalidParams, http.StatusBadRequest},
		{"render failure", models.ErrProcessing, http.StatusUnprocessableEntity},
		{"internal", models.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := &models.User{ID: "u1"}
			body := `{"signature_id": "s1", "page": 1, "x": 0.5, "y": 0.5}`
			req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(body))
			req = requestWithUser(req, user)
			w := httptest.NewRecorder()

			mockSign := new(mockSigner)
			mockSign.On("Sign", mock.Anything, user, "d1", []models.SignaturePlacement{{SignatureID: "s1", Page: 1, X: 0.5, Y: 0.5}}).Return(nil, tt.signErr)

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			Add(req.Context(), logger, w, req, "d1", mockSign)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdd_InvalidJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(`{bad`))
	req = requestWithUser(req, &models.User{ID: "u1"})
	w := httptest.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, "d1", new(mockSigner))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdd_NoUserInContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/docs/d1/sign", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, "d1", new(mockSigner))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
