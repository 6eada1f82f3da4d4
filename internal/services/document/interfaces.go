package documentservice

import (
	"context"
	"esignserver/internal/engine"
	"esignserver/internal/models"
	"io"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
	SetStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type FileStorage interface {
	Save(rel string, reader io.Reader) error
	Open(rel string) (io.ReadCloser, error)
	Remove(rel string) error
	Abs(rel string) (string, error)
}

type Prober interface {
	Probe(path string) (*engine.Info, error)
}

type Notifier interface {
	DocumentUploaded(user *models.User, doc *models.Document)
}
