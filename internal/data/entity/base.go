package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is for soft-deletable rows (events, users). BaseNoDelete drops the
// tombstone for rows that are never hidden, and BaseSimple is for
// append-mostly rows that are never updated in place (tickets, sessions,
// group members).
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
