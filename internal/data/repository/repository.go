package repository

import (
	"event-ticketing/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	Event      EventRepository
	TicketType TicketTypeRepository
	Booking    BookingRepository
	Ticket     TicketRepository
	Group      GroupRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		Event:      NewEventRepository(db, log),
		TicketType: NewTicketTypeRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		Ticket:     NewTicketRepository(db, log),
		Group:      NewGroupRepository(db, log),
	}
}
