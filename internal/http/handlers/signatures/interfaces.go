package signatures

import (
	"context"
	"esignserver/internal/models"
	"io"
)

const pkg = "signaturesHandler/"

type SignatureCreator interface {
	CreateDrawn(ctx context.Context, requester *models.User, dataURL string) (*models.Signature, error)
	CreateUploaded(ctx context.Context, requester *models.User, content io.Reader) (*models.Signature, error)
}

type SignatureProvider interface {
	ListSignatures(ctx context.Context, requester *models.User) ([]*models.Signature, error)
}

type SignatureDeleter interface {
	DeleteSignature(ctx context.Context, sigID string, requester *models.User) error
}
