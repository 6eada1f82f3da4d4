package entities

import "time"

type Document struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Title     string    `db:"title"`
	FileName  string    `db:"file_name"`
	Format    string    `db:"format"`
	Path      string    `db:"path"`
	PageCount int       `db:"page_count"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
