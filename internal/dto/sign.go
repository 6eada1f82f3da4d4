package dto

import "time"

type SignaturePlacementRequest struct {
	SignatureID string  `json:"signature_id"`
	Page        int     `json:"page"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// SignRequest carries either a single placement in the flat fields or a
// batch in Signatures. When Signatures is present the flat fields are
// ignored.
type SignRequest struct {
	SignatureID string                      `json:"signature_id"`
	Page        int                         `json:"page"`
	X           float64                     `json:"x"`
	Y           float64                     `json:"y"`
	Signatures  []SignaturePlacementRequest `json:"signatures"`
}

type SignedDocumentResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	SignatureID string    `json:"signature_id"`
	Page        int       `json:"page"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	CreatedAt   time.Time `json:"created"`
}
