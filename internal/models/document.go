package models

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

const (
	StatusPending = "pending"
	StatusSigned  = "signed"
)

type Document struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Title     string         `json:"title"`
	FileName  string         `json:"file_name"`
	Format    DocumentFormat `json:"format"`
	Path      string         `json:"path"`
	PageCount int            `json:"page_count"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// FormatFromFilename maps a file name to a supported document format.
// Only .pdf and .docx uploads are accepted.
func FormatFromFilename(name string) (DocumentFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f DocumentFormat) Mime() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
