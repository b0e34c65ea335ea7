package usecase

import (
	"event-ticketing/internal/data/repository"
	"event-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// Service aggregates every business service for injection into handlers.
type Service struct {
	Auth    AuthService
	Event   EventService
	Booking BookingService
	Ticket  TicketService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	payments := NewAutoConfirmProcessor()

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Event:   NewEventService(repo, log),
		Booking: NewBookingService(repo, payments, config, log),
		Ticket:  NewTicketService(repo, log),
	}
}
