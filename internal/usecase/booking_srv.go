package usecase

import (
	"context"
	"fmt"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/dto/response"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking turns a purchase intent into a confirmed booking plus
	// one redeemable ticket per unit, all-or-nothing.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID string, bookingID string, asAdmin bool) error
}

type bookingService struct {
	repo        *repository.Repository
	payments    PaymentProcessor
	maxPerOrder int
	log         *zap.Logger
}

func NewBookingService(repo *repository.Repository, payments PaymentProcessor, config *utils.Config, log *zap.Logger) BookingService {
	maxPerOrder := config.Booking.MaxPerOrder
	if maxPerOrder < 1 {
		maxPerOrder = 10
	}

	return &bookingService{
		repo:        repo,
		payments:    payments,
		maxPerOrder: maxPerOrder,
		log:         log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	if req.Quantity < 1 || req.Quantity > s.maxPerOrder {
		return nil, fmt.Errorf("%w: got %d, allowed 1-%d", entity.ErrInvalidQuantity, req.Quantity, s.maxPerOrder)
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", entity.ErrValidation, userID)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", entity.ErrValidation, req.EventID)
	}

	// Replay of an already-processed request returns the original booking
	// without touching inventory.
	if req.IdempotencyKey != nil {
		existing, err := s.repo.Booking.FindByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("check idempotency key: %w", err)
		}
		if existing != nil {
			s.log.Info("Booking request replayed, returning existing booking",
				zap.String("booking_id", existing.ID.String()),
			)
			return s.buildBookingResponse(ctx, existing, nil), nil
		}
	}

	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return nil, entity.ErrEventNotFound
	}

	now := time.Now()
	if !event.Bookable(now) {
		return nil, entity.ErrEventUnavailable
	}

	// Pre-check the ticket type so mismatches fail before any write. The
	// price used for total_amount is re-read inside the transaction.
	var ticketTypeID *uuid.UUID
	unitPrice := event.Price
	if req.TicketTypeID != nil {
		id, err := uuid.Parse(*req.TicketTypeID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ticket type ID %s", entity.ErrValidation, *req.TicketTypeID)
		}

		ticketType, err := s.repo.TicketType.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load ticket type: %w", err)
		}
		if ticketType == nil {
			return nil, entity.ErrTicketTypeNotFound
		}
		if ticketType.EventID != event.ID {
			return nil, entity.ErrTicketTypeMismatch
		}

		ticketTypeID = &id
		unitPrice = ticketType.Price
	}

	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:         userUUID,
		EventID:        event.ID,
		TicketTypeID:   ticketTypeID,
		Quantity:       req.Quantity,
		TotalAmount:    unitPrice * float64(req.Quantity),
		Currency:       event.Currency,
		IdempotencyKey: req.IdempotencyKey,
	}

	status, paymentStatus, err := s.payments.Process(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("process payment: %w", err)
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus

	tickets := make([]*entity.Ticket, req.Quantity)
	for i := range tickets {
		tickets[i] = &entity.Ticket{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:    booking.ID,
			UserID:       userUUID,
			EventID:      event.ID,
			TicketTypeID: ticketTypeID,
			QRCode:       utils.GenerateTicketCode(event.ID, booking.ID),
			Status:       entity.TicketStatusValid,
		}
	}

	if err := s.repo.Booking.CreateWithTickets(ctx, booking, tickets); err != nil {
		s.log.Warn("Booking not created",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("event_id", req.EventID),
			zap.Int("quantity", req.Quantity),
		)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
		zap.String("event_id", event.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	// Best effort: a failed enrollment never unwinds a committed booking.
	s.enrollInEventGroup(ctx, event.ID, userUUID)

	return s.buildBookingResponse(ctx, booking, tickets), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", entity.ErrValidation, userID)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		tickets, _ := s.repo.Ticket.FindByBookingID(ctx, booking.ID)
		bookingResponses[i] = *s.buildBookingResponse(ctx, booking, tickets)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", entity.ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, entity.ErrBookingNotFound
	}

	tickets, _ := s.repo.Ticket.FindByBookingID(ctx, booking.ID)
	return s.buildBookingResponse(ctx, booking, tickets), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID string, bookingID string, asAdmin bool) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", entity.ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return entity.ErrBookingNotFound
	}

	if !asAdmin && booking.UserID.String() != userID {
		return entity.ErrBookingNotOwned
	}

	if _, err := s.repo.Booking.CancelWithTickets(ctx, id); err != nil {
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("cancelled_by", userID),
		zap.Bool("as_admin", asAdmin),
	)

	return nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) enrollInEventGroup(ctx context.Context, eventID, userID uuid.UUID) {
	group, err := s.repo.Group.FindByEventID(ctx, eventID)
	if err != nil {
		s.log.Warn("Group lookup failed, member not enrolled",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return
	}
	if group == nil {
		s.log.Warn("Event has no group, member not enrolled",
			zap.String("event_id", eventID.String()),
		)
		return
	}

	member := &entity.GroupMember{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		GroupID: group.ID,
		UserID:  userID,
		Role:    entity.GroupRoleMember,
	}

	if err := s.repo.Group.EnrollMember(ctx, member); err != nil {
		s.log.Warn("Group enrollment failed, booking unaffected",
			zap.Error(err),
			zap.String("group_id", group.ID.String()),
			zap.String("user_id", userID.String()),
		)
	}
}

func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) *response.BookingResponse {
	resp := response.BookingToResponse(booking)

	if event, _ := s.repo.Event.FindByID(ctx, booking.EventID); event != nil {
		resp.EventTitle = event.Title
		resp.EventStart = &event.StartDate
		resp.EventEnd = &event.EndDate
	}

	if tickets == nil {
		tickets, _ = s.repo.Ticket.FindByBookingID(ctx, booking.ID)
	}
	resp.Tickets = make([]response.TicketResponse, len(tickets))
	for i, ticket := range tickets {
		resp.Tickets[i] = response.TicketToResponse(ticket)
	}

	return &resp
}
