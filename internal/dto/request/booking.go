package request

type CreateBookingRequest struct {
	EventID      string  `json:"event_id" validate:"required,uuid4"`
	TicketTypeID *string `json:"ticket_type_id,omitempty" validate:"omitempty,uuid4"`
	Quantity     int     `json:"quantity" validate:"required,min=1"`
	// IdempotencyKey makes client retries safe: a repeated key returns the
	// booking created the first time instead of debiting inventory again.
	IdempotencyKey *string `json:"idempotency_key,omitempty" validate:"omitempty,min=8,max=100"`
}
