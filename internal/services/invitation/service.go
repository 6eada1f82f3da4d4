package invitationservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"esignserver/internal/models"
	"esignserver/internal/validator"
	"fmt"
	"log/slog"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "invitationService/"

const tokenBytes = 16

type InvitationService struct {
	log         *slog.Logger
	invRepo     InvitationRepository
	docProvider DocumentProvider
	notifier    Notifier
	ttl         time.Duration
	baseURL     string
}

func New(
	log *slog.Logger,
	invRepo InvitationRepository,
	docProvider DocumentProvider,
	notifier Notifier,
	ttl time.Duration,
	baseURL string,
) *InvitationService {
	return &InvitationService{
		log:         log,
		invRepo:     invRepo,
		docProvider: docProvider,
		notifier:    notifier,
		ttl:         ttl,
		baseURL:     baseURL,
	}
}

// CreateInvitation issues a single-use signing link for a document and mails
// it to the recipient. Admin only.
func (is *InvitationService) CreateInvitation(ctx context.Context, requester *models.User, docID string, email string, name string) (*models.DocumentInvitation, error) {
	op := pkg + "CreateInvitation"

	log := is.log.With(slog.String("op", op))

	log.Debug("attempting to create invitation", slog.String("doc_id", docID))

	if !requester.IsAdmin {
		log.Warn("non-admin attempted to create invitation", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	if !validator.IsValidEmail(email) {
		log.Warn("invalid recipient email")
		return nil, models.ErrInvalidParams
	}

	doc, err := is.docProvider.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	token, err := newToken()
	if err != nil {
		log.Error("failed to generate token", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	now := time.Now()

	inv := &models.DocumentInvitation{
		ID:             uuid.NewV4().String(),
		DocumentID:     doc.ID,
		RecipientEmail: email,
		RecipientName:  name,
		Token:          token,
		CreatedBy:      requester.ID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(is.ttl),
	}

	if err := is.invRepo.CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to save invitation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	is.notifier.InvitationCreated(inv, doc, is.SignURL(inv.Token))

	log.Debug("invitation created successfully", slog.String("inv_id", inv.ID))

	return inv, nil
}

// RedeemInvitation consumes a token and returns the document it unlocks.
// Tokens are single use: a second redemption fails with ErrInvitationUsed
// even when the two requests race.
func (is *InvitationService) RedeemInvitation(ctx context.Context, token string) (*models.DocumentInvitation, *models.Document, error) {
	op := pkg + "RedeemInvitation"

	log := is.log.With(slog.String("op", op))

	log.Debug("attempting to redeem invitation")

	inv, err := is.invRepo.Redeem(ctx, token, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvitationNotFound),
			errors.Is(err, models.ErrInvitationExpired),
			errors.Is(err, models.ErrInvitationUsed):
			log.Warn("invitation rejected", slog.String("error", err.Error()))
			return nil, nil, err
		default:
			log.Error("failed to redeem invitation", slog.String("error", err.Error()))
			return nil, nil, models.ErrInternal
		}
	}

	doc, err := is.docProvider.DocumentByID(ctx, inv.DocumentID)
	if err != nil {
		log.Error("failed to get invited document", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	log.Debug("invitation redeemed successfully", slog.String("inv_id", inv.ID))

	return inv, doc, nil
}

func (is *InvitationService) ListInvitations(ctx context.Context, requester *models.User, docID string) ([]*models.DocumentInvitation, error) {
	op := pkg + "ListInvitations"

	log := is.log.With(slog.String("op", op))

	if !requester.IsAdmin {
		log.Warn("non-admin attempted to list invitations", slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	invs, err := is.invRepo.ListByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list invitations", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return invs, nil
}

// SignURL builds the link a recipient follows to open the signing page.
func (is *InvitationService) SignURL(token string) string {
	return fmt.Sprintf("%s/api/invitations/%s", strings.TrimRight(is.baseURL, "/"), token)
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
