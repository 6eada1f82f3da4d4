package invitations

import (
	"context"
	"esignserver/internal/models"
)

const pkg = "invitationsHandler/"

type InvitationCreator interface {
	CreateInvitation(ctx context.Context, requester *models.User, docID string, email string, name string) (*models.DocumentInvitation, error)
}

type InvitationProvider interface {
	ListInvitations(ctx context.Context, requester *models.User, docID string) ([]*models.DocumentInvitation, error)
}

type InvitationRedeemer interface {
	RedeemInvitation(ctx context.Context, token string) (*models.DocumentInvitation, *models.Document, error)
}
