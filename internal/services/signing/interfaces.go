package signingservice

import (
	"context"
	"esignserver/internal/engine"
	"esignserver/internal/models"
	"io"
)

type DocumentProvider interface {
	DocumentMeta(ctx context.Context, docID string, requester *models.User) (*models.Document, error)
	MarkSigned(ctx context.Context, docID string) error
}

type SignatureProvider interface {
	SignatureByID(ctx context.Context, sigID string, requester *models.User) (*models.Signature, error)
}

type SignedDocRepository interface {
	CreateSignedDocument(ctx context.Context, sd *models.SignedDocument) error
	SignedDocumentByID(ctx context.Context, id string) (*models.SignedDocument, error)
	ListByDocument(ctx context.Context, documentID string) ([]*models.SignedDocument, error)
}

type Renderer interface {
	Render(ctx context.Context, doc *models.Document, placements []engine.SignaturePlacement, outPath string) error
}

type FileStorage interface {
	Open(rel string) (io.ReadCloser, error)
	Remove(rel string) error
	Abs(rel string) (string, error)
}

type Notifier interface {
	DocumentSigned(user *models.User, doc *models.Document, signed *models.SignedDocument)
}
