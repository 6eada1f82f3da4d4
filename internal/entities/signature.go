package entities

import "time"

type Signature struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Kind      string    `db:"kind"`
	Path      string    `db:"path"`
	CreatedAt time.Time `db:"created_at"`
}
