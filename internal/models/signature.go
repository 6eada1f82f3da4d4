package models

import "time"

const (
	SignatureDrawn    = "drawn"
	SignatureUploaded = "uploaded"
)

type Signature struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
