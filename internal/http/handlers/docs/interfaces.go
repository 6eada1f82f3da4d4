package docs

import (
	"context"
	"esignserver/internal/models"
	"io"
)

const pkg = "docsHandler/"

type DocumentUploader interface {
	UploadDocument(ctx context.Context, requester *models.User, title string, fileName string, content io.Reader) (*models.Document, error)
}

type DocumentProvider interface {
	ListDocuments(ctx context.Context, requester *models.User) ([]*models.Document, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
}

type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
}
