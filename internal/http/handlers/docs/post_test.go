package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"esignserver/internal/models"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDocumentUploader struct {
	mock.Mock
}

func (m *mockDocumentUploader) UploadDocument(ctx context.Context, requester *models.User, title string, fileName string, content io.Reader) (*models.Document, error) {
	args := m.Called(ctx, requester, title, fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func multipartUpload(t *testing.T, fileName string, title string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", fileName)
	assert.NoError(t, err)
	_, err = fw.Write(content)
	assert.NoError(t, err)

	if title != "" {
		assert.NoError(t, mw.WriteField("title", title))
	}

	assert.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func requestWithUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
}

func TestUpload_Success(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	body, contentType := multipartUpload(t, "contract.pdf", "Contract", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/api/docs", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	doc := &models.Document{
		ID:        "d1",
		OwnerID:   "u1",
		Title:     "Contract",
		FileName:  "contract.pdf",
		Format:    models.FormatPDF,
		PageCount: 3,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}

	mockUploader := new(mockDocumentUploader)
	mockUploader.On("UploadDocument", mock.Anything, user, "Contract", "contract.pdf", mock.Anything).Return(doc, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Upload(req.Context(), logger, w, req, mockUploader)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed map[string]map[string]any
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Equal(t, "d1", parsed["data"]["id"])
	assert.Equal(t, float64(3), parsed["data"]["page_count"])
	mockUploader.AssertExpectations(t)
}

func TestUpload_NoUserInContext(t *testing.T) {
	t.Parallel()

	body, contentType := multipartUpload(t, "contract.pdf", "", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/api/docs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Upload(req.Context(), logger, w, req, new(mockDocumentUploader))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpload_MissingFilePart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	assert.NoError(t, mw.WriteField("title", "No file"))
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/docs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = requestWithUser(req, &models.User{ID: "u1"})
	w := httptest.NewRecorder()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Upload(req.Context(), logger, w, req, new(mockDocumentUploader))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	body, contentType := multipartUpload(t, "notes.txt", "", []byte("hello"))

	req := httptest.NewRequest(http.MethodPost, "/api/docs", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	mockUploader := new(mockDocumentUploader)
	mockUploader.On("UploadDocument", mock.Anything, user, "", "notes.txt", mock.Anything).Return(nil, models.ErrUnsupportedFormat)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Upload(req.Context(), logger, w, req, mockUploader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUploader.AssertExpectations(t)
}

func TestUpload_ProcessingFailure(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	body, contentType := multipartUpload(t, "broken.pdf", "", []byte("junk"))

	req := httptest.NewRequest(http.MethodPost, "/api/docs", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithUser(req, user)
	w := httptest.NewRecorder()

	mockUploader := new(mockDocumentUploader)
	mockUploader.On("UploadDocument", mock.Anything, user, "", "broken.pdf", mock.Anything).Return(nil, models.ErrProcessing)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Upload(req.Context(), logger, w, req, mockUploader)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockUploader.AssertExpectations(t)
}
