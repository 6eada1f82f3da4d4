package dto

import "time"

type CreateInvitationRequest struct {
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
}

type InvitationResponse struct {
	ID             string    `json:"id"`
	DocumentID     string    `json:"document_id"`
	RecipientEmail string    `json:"recipient_email"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
}
