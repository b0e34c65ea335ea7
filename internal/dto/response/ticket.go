package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type TicketResponse struct {
	ID          string              `json:"id"`
	BookingID   string              `json:"booking_id"`
	EventID     string              `json:"event_id"`
	EventTitle  string              `json:"event_title,omitempty"`
	EventStart  *time.Time          `json:"event_start,omitempty"`
	EventEnd    *time.Time          `json:"event_end,omitempty"`
	QRCode      string              `json:"qr_code"`
	Status      entity.TicketStatus `json:"status"`
	CheckedInAt *time.Time          `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ValidationResponse is the door-check outcome. Valid=false with a Message
// is an expected result, not an error; the message tells staff exactly why
// the ticket was rejected.
type ValidationResponse struct {
	Valid   bool            `json:"valid"`
	Message string          `json:"message"`
	Ticket  *TicketResponse `json:"ticket,omitempty"`
}

func TicketToResponse(ticket *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID.String(),
		BookingID:   ticket.BookingID.String(),
		EventID:     ticket.EventID.String(),
		QRCode:      ticket.QRCode,
		Status:      ticket.Status,
		CheckedInAt: ticket.CheckedInAt,
		CreatedAt:   ticket.CreatedAt,
	}
}
