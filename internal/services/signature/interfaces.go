package signatureservice

import (
	"context"
	"esignserver/internal/models"
	"io"
)

type SignatureRepository interface {
	CreateSignature(ctx context.Context, sig *models.Signature) error
	SignatureByID(ctx context.Context, id string) (*models.Signature, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Signature, error)
	Delete(ctx context.Context, id string) error
}

type FileStorage interface {
	Save(rel string, reader io.Reader) error
	Open(rel string) (io.ReadCloser, error)
	Remove(rel string) error
}

type Notifier interface {
	SignatureCreated(user *models.User, sig *models.Signature)
}
