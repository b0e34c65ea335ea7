package entity

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusValid     TicketStatus = "valid"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusExpired   TicketStatus = "expired"
)

// Ticket is one redeemable unit of a booking. QRCode is minted once at
// creation and never changes; the only permitted state transition after
// creation is valid -> used (check-in) or valid -> cancelled/expired.
type Ticket struct {
	BaseSimple
	BookingID    uuid.UUID    `db:"booking_id"`
	UserID       uuid.UUID    `db:"user_id"`
	EventID      uuid.UUID    `db:"event_id"`
	TicketTypeID *uuid.UUID   `db:"ticket_type_id"`
	QRCode       string       `db:"qr_code"`
	Status       TicketStatus `db:"status"`
	CheckedInAt  *time.Time   `db:"checked_in_at"`
	CheckedInBy  *uuid.UUID   `db:"checked_in_by"`
}
