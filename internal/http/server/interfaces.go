package server

import (
	"context"
	"esignserver/internal/models"
	"io"
)

type AuthService interface {
	Register(ctx context.Context, login string, email string, password string, token string, isAdmin bool) (string, error)
	Login(ctx context.Context, login string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type DocumentService interface {
	UploadDocument(ctx context.Context, requester *models.User, title string, fileName string, content io.Reader) (*models.Document, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
	ListDocuments(ctx context.Context, requester *models.User) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
}

type SignatureService interface {
	CreateDrawn(ctx context.Context, requester *models.User, dataURL string) (*models.Signature, error)
	CreateUploaded(ctx context.Context, requester *models.User, content io.Reader) (*models.Signature, error)
	ListSignatures(ctx context.Context, requester *models.User) ([]*models.Signature, error)
	DeleteSignature(ctx context.Context, sigID string, requester *models.User) error
}

type SigningService interface {
	Sign(ctx context.Context, requester *models.User, docID string, placements []models.SignaturePlacement) (*models.SignedDocument, error)
	SignedDocumentByID(ctx context.Context, signedID string, requester *models.User) (*models.SignedDocument, *models.Document, io.ReadCloser, error)
	ListSignedDocuments(ctx context.Context, docID string, requester *models.User) ([]*models.SignedDocument, error)
}

type InvitationService interface {
	CreateInvitation(ctx context.Context, requester *models.User, docID string, email string, name string) (*models.DocumentInvitation, error)
	ListInvitations(ctx context.Context, requester *models.User, docID string) ([]*models.DocumentInvitation, error)
	RedeemInvitation(ctx context.Context, token string) (*models.DocumentInvitation, *models.Document, error)
}

type NotificationService interface {
	ListFailedDeliveries(ctx context.Context, limit int) ([]*models.EmailLog, error)
}

type SessionStorer interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
