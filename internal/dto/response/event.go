package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type EventResponse struct {
	ID              string    `json:"id"`
	HostID          string    `json:"host_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	MaxCapacity     *int      `json:"max_capacity,omitempty"`
	CurrentBookings int       `json:"current_bookings"`
	IsPublished     bool      `json:"is_published"`
	IsCancelled     bool      `json:"is_cancelled"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type TicketTypeResponse struct {
	ID                string  `json:"id"`
	EventID           string  `json:"event_id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	QuantityAvailable int     `json:"quantity_available"`
	QuantitySold      int     `json:"quantity_sold"`
	Remaining         int     `json:"remaining"`
}

// AvailabilityResponse answers "how many units remain". Remaining is nil
// when the event has no capacity limit.
type AvailabilityResponse struct {
	EventID      string  `json:"event_id"`
	TicketTypeID *string `json:"ticket_type_id,omitempty"`
	Unlimited    bool    `json:"unlimited"`
	Remaining    *int    `json:"remaining,omitempty"`
}

func EventToResponse(event *entity.Event) EventResponse {
	return EventResponse{
		ID:              event.ID.String(),
		HostID:          event.HostID.String(),
		Title:           event.Title,
		Description:     event.Description,
		Location:        event.Location,
		Price:           event.Price,
		Currency:        event.Currency,
		MaxCapacity:     event.MaxCapacity,
		CurrentBookings: event.CurrentBookings,
		IsPublished:     event.IsPublished,
		IsCancelled:     event.IsCancelled,
		StartDate:       event.StartDate,
		EndDate:         event.EndDate,
		CreatedAt:       event.CreatedAt,
	}
}

func TicketTypeToResponse(ticketType *entity.TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID:                ticketType.ID.String(),
		EventID:           ticketType.EventID.String(),
		Name:              ticketType.Name,
		Price:             ticketType.Price,
		QuantityAvailable: ticketType.QuantityAvailable,
		QuantitySold:      ticketType.QuantitySold,
		Remaining:         ticketType.Remaining(),
	}
}
