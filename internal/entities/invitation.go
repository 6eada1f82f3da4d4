package entities

import (
	"database/sql"
	"time"
)

type DocumentInvitation struct {
	ID             string       `db:"id"`
	DocumentID     string       `db:"document_id"`
	RecipientEmail string       `db:"recipient_email"`
	RecipientName  string       `db:"recipient_name"`
	Token          string       `db:"token"`
	CreatedBy      string       `db:"created_by"`
	CreatedAt      time.Time    `db:"created_at"`
	ExpiresAt      time.Time    `db:"expires_at"`
	Consumed       bool         `db:"consumed"`
	ConsumedAt     sql.NullTime `db:"consumed_at"`
}
