package docs

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDocumentProvider struct {
	mock.Mock
}

func (m *mockDocumentProvider) ListDocuments(ctx context.Context, requester *models.User) ([]*models.Document, error) {
	args := m.Called(ctx, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *mockDocumentProvider) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error) {
	args := m.Called(ctx, docID, requester)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Document), args.Get(1).(io.ReadCloser), args.Error(2)
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	docs := []*models.Document{
		{ID: "d1", OwnerID: "u1", Title: "First", Format: models.FormatPDF},
		{ID: "d2", OwnerID: "u1", Title: "Second", Format: models.FormatDOCX},
	}

	mockProvider := new(mockDocumentProvider)
	mockProvider.On("ListDocuments", mock.Anything, user).Return(docs, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Get(req.Context(), logger, w, req, mockProvider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string][]map[string]any
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Len(t, parsed["data"]["docs"], 2)
	assert.Equal(t, "d1", parsed["data"]["docs"][0]["id"])
	mockProvider.AssertExpectations(t)
}

func TestGet_NoUserInContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	w := httptest.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Get(req.Context(), logger, w, req, new(mockDocumentProvider))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetByID_StreamsFile(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	req := httptest.NewRequest(http.MethodGet, "/api/docs/d1", nil)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	doc := &models.Document{ID: "d1", OwnerID: "u1", FileName: "contract.pdf", Format: models.FormatPDF}
	file := io.NopCloser(strings.NewReader("%PDF file body"))

	mockProvider := new(mockDocumentProvider)
	mockProvider.On("DocumentByID", mock.Anything, "d1", user).Return(doc, file, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	GetByID(req.Context(), logger, w, req, "d1", mockProvider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "contract.pdf")

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF file body", string(body))
	mockProvider.AssertExpectations(t)
}

func TestGetByID_Forbidden(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u2"}
	req := httptest.NewRequest(http.MethodGet, "/api/docs/d1", nil)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	mockProvider := new(mockDocumentProvider)
	mockProvider.On("DocumentByID", mock.Anything, "d1", user).Return(nil, nil, models.ErrForbidden)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	GetByID(req.Context(), logger, w, req, "d1", mockProvider)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockProvider.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	req := httptest.NewRequest(http.MethodGet, "/api/docs/missing", nil)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	mockProvider := new(mockDocumentProvider)
	mockProvider.On("DocumentByID", mock.Anything, "missing", user).Return(nil, nil, models.ErrDocumentNotFound)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	GetByID(req.Context(), logger, w, req, "missing", mockProvider)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockProvider.AssertExpectations(t)
}
