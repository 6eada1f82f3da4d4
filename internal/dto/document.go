package dto

import (
	"mime/multipart"
	"time"
)

type UploadDocumentRequest struct {
	Title string
	File  multipart.File
}

type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	PageCount int       `json:"page_count"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created"`
}
