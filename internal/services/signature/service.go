package signatureservice

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"esignserver/internal/models"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "signatureService/"

// Signature images larger than this are rejected up front.
const maxImageSize = 5 << 20

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

type SignatureService struct {
	log         *slog.Logger
	sigRepo     SignatureRepository
	fileStorage FileStorage
	notifier    Notifier
}

func New(
	log *slog.Logger,
	sigRepo SignatureRepository,
	fileStorage FileStorage,
	notifier Notifier,
) *SignatureService {
	return &SignatureService{
		log:         log,
		sigRepo:     sigRepo,
		fileStorage: fileStorage,
		notifier:    notifier,
	}
}

// CreateDrawn accepts a browser canvas export as a base64 data URL and stores
// the decoded image as a new signature.
func (ss *SignatureService) CreateDrawn(ctx context.Context, requester *models.User, dataURL string) (*models.Signature, error) {
	op := pkg + "CreateDrawn"

	log := ss.log.With(slog.String("op", op))

	log.Debug("attempting to create drawn signature", slog.String("user_id", requester.ID))

	raw, err := decodeDataURL(dataURL)
	if err != nil {
		log.Warn("invalid signature data url", slog.String("error", err.Error()))
		return nil, models.ErrInvalidParams
	}

	return ss.create(ctx, requester, models.SignatureDrawn, raw, log)
}

// CreateUploaded stores an uploaded PNG or JPEG image as a new signature.
func (ss *SignatureService) CreateUploaded(ctx context.Context, requester *models.User, content io.Reader) (*models.Signature, error) {
	op := pkg + "CreateUploaded"

	log := ss.log.With(slog.String("op", op))

	log.Debug("attempting to create uploaded signature", slog.String("user_id", requester.ID))

	raw, err := io.ReadAll(io.LimitReader(content, maxImageSize+1))
	if err != nil {
		log.Error("failed to read signature image", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if len(raw) > maxImageSize {
		log.Warn("signature image too large")
		return nil, models.ErrInvalidParams
	}

	return ss.create(ctx, requester, models.SignatureUploaded, raw, log)
}

func (ss *SignatureService) create(ctx context.Context, requester *models.User, kind string, raw []byte, log *slog.Logger) (*models.Signature, error) {
	op := pkg + "create"

	ext, ok := imageExt(raw)
	if !ok {
		log.Warn("signature image is not png or jpeg")
		return nil, models.ErrInvalidParams
	}

	sig := &models.Signature{
		ID:        uuid.NewV4().String(),
		OwnerID:   requester.ID,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	sig.Path = fmt.Sprintf("signatures/%s.%s", sig.ID, ext)

	if err := ss.fileStorage.Save(sig.Path, bytes.NewReader(raw)); err != nil {
		log.Error("failed to save signature image", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ss.sigRepo.CreateSignature(ctx, sig); err != nil {
		log.Error("failed to save signature metadata", slog.String("error", err.Error()))
		_ = ss.fileStorage.Remove(sig.Path)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ss.notifier.SignatureCreated(requester, sig)

	log.Debug("signature created successfully", slog.String("sig_id", sig.ID))

	return sig, nil
}

func (ss *SignatureService) SignatureByID(ctx context.Context, sigID string, requester *models.User) (*models.Signature, error) {
	op := pkg + "SignatureByID"

	log := ss.log.With(slog.String("op", op))

	sig, err := ss.sigRepo.SignatureByID(ctx, sigID)
	if err != nil {
		if errors.Is(err, models.ErrSignatureNotFound) {
			log.Warn("signature not found", slog.String("sig_id", sigID))
			return nil, models.ErrSignatureNotFound
		}
		log.Error("failed to get signature by id", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if sig.OwnerID != requester.ID && !requester.IsAdmin {
		log.Warn("user doesn't have access for signature", slog.String("sig_id", sigID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	return sig, nil
}

func (ss *SignatureService) ListSignatures(ctx context.Context, requester *models.User) ([]*models.Signature, error) {
	op := pkg + "ListSignatures"

	log := ss.log.With(slog.String("op", op))

	sigs, err := ss.sigRepo.ListByOwner(ctx, requester.ID)
	if err != nil {
		log.Error("failed to list signatures", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return sigs, nil
}

func (ss *SignatureService) DeleteSignature(ctx context.Context, sigID string, requester *models.User) error {
	op := pkg + "DeleteSignature"

	log := ss.log.With(slog.String("op", op))

	sig, err := ss.SignatureByID(ctx, sigID, requester)
	if err != nil {
		return err
	}

	if err := ss.sigRepo.Delete(ctx, sigID); err != nil {
		if errors.Is(err, models.ErrSignatureNotFound) {
			return models.ErrSignatureNotFound
		}
		log.Error("failed to delete signature metadata", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ss.fileStorage.Remove(sig.Path); err != nil {
		log.Warn("failed to delete signature image", slog.String("error", err.Error()))
	}

	log.Debug("signature deleted successfully", slog.String("sig_id", sigID))

	return nil
}

func decodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL

	if strings.HasPrefix(dataURL, "data:") {
		idx := strings.Index(dataURL, ",")
		if idx < 0 {
			return nil, errors.New("malformed data url")
		}
		if !strings.HasSuffix(dataURL[:idx], ";base64") {
			return nil, errors.New("data url is not base64 encoded")
		}
		payload = dataURL[idx+1:]
	}

	if len(payload) == 0 {
		return nil, errors.New("empty image payload")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}

	if len(raw) > maxImageSize {
		return nil, errors.New("image payload too large")
	}

	return raw, nil
}

func imageExt(raw []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(raw, pngMagic):
		return "png", true
	case bytes.HasPrefix(raw, jpegMagic):
		return "jpg", true
	default:
		return "", false
	}
}
