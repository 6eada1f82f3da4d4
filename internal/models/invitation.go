package models

import "time"

// DocumentInvitation binds a document to a recipient email through a
// single-use, time-limited token.
type DocumentInvitation struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"document_id"`
	RecipientEmail string     `json:"recipient_email"`
	RecipientName  string     `json:"recipient_name"`
	Token          string     `json:"token"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	Consumed       bool       `json:"consumed"`
	ConsumedAt     *time.Time `json:"consumed_at,omitempty"`
}

func (i *DocumentInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
