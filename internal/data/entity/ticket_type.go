package entity

import "github.com/google/uuid"

type TicketType struct {
	BaseNoDelete
	EventID           uuid.UUID `db:"event_id"`
	Name              string    `db:"name"`
	Price             float64   `db:"price"`
	QuantityAvailable int       `db:"quantity_available"`
	QuantitySold      int       `db:"quantity_sold"`
}

// Remaining returns how many units are still sellable.
func (t *TicketType) Remaining() int {
	remaining := t.QuantityAvailable - t.QuantitySold
	if remaining < 0 {
		return 0
	}
	return remaining
}
