package invitationservice

import (
	"context"
	"esignserver/internal/models"
	"time"
)

type InvitationRepository interface {
	CreateInvitation(ctx context.Context, inv *models.DocumentInvitation) error
	ListByDocument(ctx context.Context, documentID string) ([]*models.DocumentInvitation, error)
	Redeem(ctx context.Context, token string, now time.Time) (*models.DocumentInvitation, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}

type Notifier interface {
	InvitationCreated(inv *models.DocumentInvitation, doc *models.Document, signURL string)
}
