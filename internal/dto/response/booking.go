package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	EventID       string               `json:"event_id"`
	TicketTypeID  *string              `json:"ticket_type_id,omitempty"`
	EventTitle    string               `json:"event_title,omitempty"`
	EventStart    *time.Time           `json:"event_start,omitempty"`
	EventEnd      *time.Time           `json:"event_end,omitempty"`
	Quantity      int                  `json:"quantity"`
	TotalAmount   float64              `json:"total_amount"`
	Currency      string               `json:"currency"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	Tickets       []TicketResponse     `json:"tickets,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            booking.ID.String(),
		UserID:        booking.UserID.String(),
		EventID:       booking.EventID.String(),
		Quantity:      booking.Quantity,
		TotalAmount:   booking.TotalAmount,
		Currency:      booking.Currency,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		CreatedAt:     booking.CreatedAt,
	}

	if booking.TicketTypeID != nil {
		id := booking.TicketTypeID.String()
		resp.TicketTypeID = &id
	}

	return resp
}
