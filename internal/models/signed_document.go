package models

import "time"

// SignaturePlacement requests one signature at one position. X and Y are
// fractions of the page size measured from the top-left corner; a page of
// zero or less means the document's last page.
type SignaturePlacement struct {
	SignatureID string
	Page        int
	X           float64
	Y           float64
}

// SignedDocument is a derived artifact: a source document with one or more
// signatures composited onto its pages in a single signing action. The record
// keeps the first placement's coordinates. It is never mutated after creation.
type SignedDocument struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	SignatureID string    `json:"signature_id"`
	Page        int       `json:"page"`
	PosX        float64   `json:"pos_x"`
	PosY        float64   `json:"pos_y"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}
