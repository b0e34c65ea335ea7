package entity

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Base
	HostID          uuid.UUID `db:"host_id"`
	Title           string    `db:"title"`
	Description     *string   `db:"description"`
	Location        *string   `db:"location"`
	Price           float64   `db:"price"`
	Currency        string    `db:"currency"`
	MaxCapacity     *int      `db:"max_capacity"` // nil = unlimited
	CurrentBookings int       `db:"current_bookings"`
	IsPublished     bool      `db:"is_published"`
	IsCancelled     bool      `db:"is_cancelled"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
}

// HasEnded reports whether the event is already over at the given instant.
func (e *Event) HasEnded(now time.Time) bool {
	return e.EndDate.Before(now)
}

// Bookable reports whether new bookings may be taken for the event.
func (e *Event) Bookable(now time.Time) bool {
	return e.IsPublished && !e.IsCancelled && !e.HasEnded(now)
}
