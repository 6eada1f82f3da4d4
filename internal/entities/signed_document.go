package entities

import "time"

type SignedDocument struct {
	ID          string    `db:"id"`
	DocumentID  string    `db:"document_id"`
	SignatureID string    `db:"signature_id"`
	Page        int       `db:"page"`
	PosX        float64   `db:"pos_x"`
	PosY        float64   `db:"pos_y"`
	Path        string    `db:"path"`
	CreatedAt   time.Time `db:"created_at"`
}
