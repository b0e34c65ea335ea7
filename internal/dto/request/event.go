package request

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Price       float64 `json:"price" validate:"min=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	MaxCapacity *int    `json:"max_capacity,omitempty" validate:"omitempty,min=1"`
	StartDate   string  `json:"start_date" validate:"required"` // RFC 3339
	EndDate     string  `json:"end_date" validate:"required"`   // RFC 3339
}

type CreateTicketTypeRequest struct {
	Name              string  `json:"name" validate:"required,min=1,max=100"`
	Price             float64 `json:"price" validate:"min=0"`
	QuantityAvailable int     `json:"quantity_available" validate:"required,min=1"`
}
