package sign

import (
	"context"
	"esignserver/internal/models"
	"io"
)

const pkg = "signHandler/"

type Signer interface {
	Sign(ctx context.Context, requester *models.User, docID string, placements []models.SignaturePlacement) (*models.SignedDocument, error)
}

type SignedDocProvider interface {
	SignedDocumentByID(ctx context.Context, signedID string, requester *models.User) (*models.SignedDocument, *models.Document, io.ReadCloser, error)
	ListSignedDocuments(ctx context.Context, docID string, requester *models.User) ([]*models.SignedDocument, error)
}
