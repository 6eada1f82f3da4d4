package signatureservice

import (
	"bytes"
	"context"
	"encoding/base64"
	"esignserver/internal/models"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSignatureRepository struct {
	mock.Mock
}

func (m *MockSignatureRepository) CreateSignature(ctx context.Context, sig *models.Signature) error {
	args := m.Called(ctx, sig)
	return args.Error(0)
}

func (m *MockSignatureRepository) SignatureByID(ctx context.Context, id string) (*models.Signature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Signature), args.Error(1)
}

func (m *MockSignatureRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Signature, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Signature), args.Error(1)
}

func (m *MockSignatureRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(rel string, reader io.Reader) error {
	args := m.Called(rel, reader)
	return args.Error(0)
}

func (m *MockFileStorage) Open(rel string) (io.ReadCloser, error) {
	args := m.Called(rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) Remove(rel string) error {
	args := m.Called(rel)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SignatureCreated(user *models.User, sig *models.Signature) {
	m.Called(user, sig)
}

var testPNG = append([]byte{0x89, 'P', 'N', 'G'}, []byte("fake image body")...)

func newTestService() (*SignatureService, *MockSignatureRepository, *MockFileStorage, *MockNotifier) {
	repo := new(MockSignatureRepository)
	storage := new(MockFileStorage)
	notifier := new(MockNotifier)

	return New(slog.Default(), repo, storage, notifier), repo, storage, notifier
}

func TestCreateDrawn_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, storage, notifier := newTestService()

	requester := &models.User{ID: "u1"}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG)

	storage.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateSignature", ctx, mock.MatchedBy(func(sig *models.Signature) bool {
		return sig.OwnerID == "u1" && sig.Kind == models.SignatureDrawn
	})).Return(nil)
	notifier.On("SignatureCreated", requester, mock.Anything).Return()

	sig, err := service.CreateDrawn(ctx, requester, dataURL)
	assert.NoError(t, err)
	assert.Equal(t, models.SignatureDrawn, sig.Kind)
	assert.Contains(t, sig.Path, ".png")
	repo.AssertExpectations(t)
}

func TestCreateDrawn_MalformedDataURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _, _ := newTestService()

	sig, err := service.CreateDrawn(ctx, &models.User{ID: "u1"}, "data:image/png;base64")
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestCreateDrawn_NotAnImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _, _ := newTestService()

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("just text"))

	sig, err := service.CreateDrawn(ctx, &models.User{ID: "u1"}, dataURL)
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestCreateUploaded_JPEG(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, storage, notifier := newTestService()

	requester := &models.User{ID: "u1"}
	jpeg := append([]byte{0xFF, 0xD8, 0xFF}, []byte("jpeg body")...)

	storage.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateSignature", ctx, mock.Anything).Return(nil)
	notifier.On("SignatureCreated", requester, mock.Anything).Return()

	sig, err := service.CreateUploaded(ctx, requester, bytes.NewReader(jpeg))
	assert.NoError(t, err)
	assert.Equal(t, models.SignatureUploaded, sig.Kind)
	assert.Contains(t, sig.Path, ".jpg")
}

func TestCreateUploaded_TooLarge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, _, _ := newTestService()

	big := bytes.NewReader(make([]byte, maxImageSize+1))

	sig, err := service.CreateUploaded(ctx, &models.User{ID: "u1"}, big)
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestCreate_MetadataFailureRemovesImage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, storage, _ := newTestService()

	storage.On("Save", mock.Anything, mock.Anything).Return(nil)
	storage.On("Remove", mock.Anything).Return(nil)
	repo.On("CreateSignature", ctx, mock.Anything).Return(assert.AnError)

	sig, err := service.CreateUploaded(ctx, &models.User{ID: "u1"}, bytes.NewReader(testPNG))
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, models.ErrInternal)
	storage.AssertCalled(t, "Remove", mock.Anything)
}

func TestSignatureByID_ForbiddenForStranger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, _, _ := newTestService()

	repo.On("SignatureByID", ctx, "s1").Return(&models.Signature{ID: "s1", OwnerID: "u1"}, nil)

	sig, err := service.SignatureByID(ctx, "s1", &models.User{ID: "u2"})
	assert.Nil(t, sig)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteSignature_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, repo, _, _ := newTestService()

	repo.On("SignatureByID", ctx, "missing").Return(nil, models.ErrSignatureNotFound)

	err := service.DeleteSignature(ctx, "missing", &models.User{ID: "u1"})
	assert.ErrorIs(t, err, models.ErrSignatureNotFound)
}

func TestDecodeDataURL_PlainBase64Accepted(t *testing.T) {
	t.Parallel()

	raw, err := decodeDataURL(base64.StdEncoding.EncodeToString(testPNG))
	assert.NoError(t, err)
	assert.Equal(t, testPNG, raw)
}
