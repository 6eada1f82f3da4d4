package signingservice

import (
	"context"
	"errors"
	"esignserver/internal/engine"
	"esignserver/internal/models"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "signingService/"

type SigningService struct {
	log         *slog.Logger
	docProvider DocumentProvider
	sigProvider SignatureProvider
	signedRepo  SignedDocRepository
	renderer    Renderer
	fileStorage FileStorage
	notifier    Notifier
}

func New(
	log *slog.Logger,
	docProvider DocumentProvider,
	sigProvider SignatureProvider,
	signedRepo SignedDocRepository,
	renderer Renderer,
	fileStorage FileStorage,
	notifier Notifier,
) *SigningService {
	return &SigningService{
		log:         log,
		docProvider: docProvider,
		sigProvider: sigProvider,
		signedRepo:  signedRepo,
		renderer:    renderer,
		fileStorage: fileStorage,
		notifier:    notifier,
	}
}

// Sign renders the requested signatures onto the document in one pass and
// records the result as a new signed copy. Every placement lands in the same
// artifact; the record keeps the first placement's coordinates. A page of
// zero or less means the last page. X and Y are fractions of the page size
// measured from the top-left corner.
func (ss *SigningService) Sign(ctx context.Context, requester *models.User, docID string, placements []models.SignaturePlacement) (*models.SignedDocument, error) {
	op := pkg + "Sign"

	log := ss.log.With(slog.String("op", op))

	if len(placements) == 0 {
		log.Warn("no placements in sign request", slog.String("doc_id", docID))
		return nil, models.ErrInvalidParams
	}

	log.Debug("attempting to sign document",
		slog.String("doc_id", docID),
		slog.Int("placements", len(placements)),
		slog.String("user_id", requester.ID))

	doc, err := ss.docProvider.DocumentMeta(ctx, docID, requester)
	if err != nil {
		return nil, err
	}

	sigs := make(map[string]*models.Signature, len(placements))
	renderPls := make([]engine.SignaturePlacement, 0, len(placements))

	for i, pl := range placements {
		sig, ok := sigs[pl.SignatureID]
		if !ok {
			sig, err = ss.sigProvider.SignatureByID(ctx, pl.SignatureID, requester)
			if err != nil {
				return nil, err
			}
			sigs[pl.SignatureID] = sig
		}

		if pl.Page <= 0 {
			pl.Page = doc.PageCount
			placements[i].Page = pl.Page
		}

		absSig, err := ss.fileStorage.Abs(sig.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		renderPls = append(renderPls, engine.SignaturePlacement{
			ImagePath: absSig,
			Placement: engine.Placement{Page: pl.Page, X: pl.X, Y: pl.Y},
		})
	}

	first := placements[0]

	signed := &models.SignedDocument{
		ID:          uuid.NewV4().String(),
		DocumentID:  doc.ID,
		SignatureID: first.SignatureID,
		Page:        first.Page,
		PosX:        first.X,
		PosY:        first.Y,
		CreatedAt:   time.Now(),
	}
	signed.Path = fmt.Sprintf("signed/%s.%s", signed.ID, doc.Format)

	absDoc, err := ss.fileStorage.Abs(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	absOut, err := ss.fileStorage.Abs(signed.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	// The renderer works on OS paths, the record keeps the storage-relative one.
	renderDoc := *doc
	renderDoc.Path = absDoc

	if err := ss.renderer.Render(ctx, &renderDoc, renderPls, absOut); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid signature position")
			return nil, models.ErrInvalidParams
		case errors.Is(err, models.ErrPageOutOfRange):
			log.Warn("page out of range", slog.Int("page_count", doc.PageCount))
			return nil, models.ErrPageOutOfRange
		case errors.Is(err, models.ErrProcessing):
			log.Error("failed to render signed document", slog.String("error", err.Error()))
			return nil, models.ErrProcessing
		default:
			log.Error("failed to render signed document", slog.String("error", err.Error()))
			return nil, models.ErrInternal
		}
	}

	if err := ss.signedRepo.CreateSignedDocument(ctx, signed); err != nil {
		log.Error("failed to save signed document metadata", slog.String("error", err.Error()))
		_ = ss.fileStorage.Remove(signed.Path)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ss.docProvider.MarkSigned(ctx, doc.ID); err != nil {
		log.Error("failed to mark document as signed", slog.String("error", err.Error()))
	}

	ss.notifier.DocumentSigned(requester, doc, signed)

	log.Debug("document signed successfully",
		slog.String("signed_id", signed.ID),
		slog.String("doc_id", doc.ID))

	return signed, nil
}

// SignedDocumentByID returns a signed copy with its content. Access follows
// the source document: its owner and admins may download.
func (ss *SigningService) SignedDocumentByID(ctx context.Context, signedID string, requester *models.User) (*models.SignedDocument, *models.Document, io.ReadCloser, error) {
	op := pkg + "SignedDocumentByID"

	log := ss.log.With(slog.String("op", op))

	signed, err := ss.signedRepo.SignedDocumentByID(ctx, signedID)
	if err != nil {
		if errors.Is(err, models.ErrSignedDocNotFound) {
			log.Warn("signed document not found", slog.String("signed_id", signedID))
			return nil, nil, nil, models.ErrSignedDocNotFound
		}
		log.Error("failed to get signed document", slog.String("error", err.Error()))
		return nil, nil, nil, models.ErrInternal
	}

	doc, err := ss.docProvider.DocumentMeta(ctx, signed.DocumentID, requester)
	if err != nil {
		return nil, nil, nil, err
	}

	file, err := ss.fileStorage.Open(signed.Path)
	if err != nil {
		log.Error("failed to load signed document from storage", slog.String("error", err.Error()))
		return nil, nil, nil, models.ErrInternal
	}

	return signed, doc, file, nil
}

func (ss *SigningService) ListSignedDocuments(ctx context.Context, docID string, requester *models.User) ([]*models.SignedDocument, error) {
	op := pkg + "ListSignedDocuments"

	log := ss.log.With(slog.String("op", op))

	if _, err := ss.docProvider.DocumentMeta(ctx, docID, requester); err != nil {
		return nil, err
	}

	signed, err := ss.signedRepo.ListByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list signed documents", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return signed, nil
}
