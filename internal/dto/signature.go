package dto

import "time"

// CreateSignatureRequest carries either a drawn signature (base64 data URL
// in Data) or an uploaded image file; Kind selects which.
type CreateSignatureRequest struct {
	Kind string `json:"kind"`
	Data string `json:"data,omitempty"`
}

type SignatureResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created"`
}
