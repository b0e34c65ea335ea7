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

type TicketService interface {
	// ValidateTicket is the door check. A rejected ticket is a normal
	// outcome carried in the response, not an error; errors mean the check
	// itself could not be performed.
	ValidateTicket(ctx context.Context, staffID string, req *request.ValidateTicketRequest) (*response.ValidationResponse, error)
	GetUserTickets(ctx context.Context, userID string, statusBucket string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error)
	GetTicketByID(ctx context.Context, userID string, ticketID string) (*response.TicketResponse, error)
}

type ticketService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, log *zap.Logger) TicketService {
	return &ticketService{
		repo: repo,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) ValidateTicket(ctx context.Context, staffID string, req *request.ValidateTicketRequest) (*response.ValidationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	staffUUID, err := uuid.Parse(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid staff ID %s", entity.ErrValidation, staffID)
	}

	// Structural check first: garbage scans never reach storage.
	if !utils.IsWellFormedTicketCode(req.Code) {
		return reject("Malformed ticket code"), nil
	}

	ticket, err := s.repo.Ticket.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("look up ticket: %w", err)
	}
	if ticket == nil {
		// Deliberately generic: don't reveal whether near-miss codes exist.
		return reject("Ticket not found"), nil
	}

	switch ticket.Status {
	case entity.TicketStatusUsed:
		return s.rejectUsed(ticket), nil
	case entity.TicketStatusCancelled:
		return rejectTicket(ticket, "Ticket was cancelled"), nil
	case entity.TicketStatusExpired:
		return rejectTicket(ticket, "Ticket has expired"), nil
	}

	event, err := s.repo.Event.FindByID(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event for ticket: %w", err)
	}

	if event != nil && event.HasEnded(time.Now()) {
		// A valid ticket for a finished event is stale data; correct it at
		// sight so the next scan short-circuits.
		if _, err := s.repo.Ticket.MarkExpired(ctx, ticket.ID); err != nil {
			s.log.Warn("Failed to expire stale ticket",
				zap.Error(err),
				zap.String("ticket_id", ticket.ID.String()),
			)
		} else {
			ticket.Status = entity.TicketStatusExpired
		}
		return rejectTicket(ticket, "Event has ended, ticket expired"), nil
	}

	now := time.Now()
	won, err := s.repo.Ticket.CheckIn(ctx, ticket.ID, staffUUID, now)
	if err != nil {
		return nil, fmt.Errorf("check in ticket: %w", err)
	}

	if !won {
		// Another scanner got there between our read and the update.
		fresh, err := s.repo.Ticket.FindByID(ctx, ticket.ID)
		if err != nil || fresh == nil {
			return reject("Ticket already used"), nil
		}
		return s.rejectUsed(fresh), nil
	}

	ticket.Status = entity.TicketStatusUsed
	ticket.CheckedInAt = &now
	ticket.CheckedInBy = &staffUUID

	s.log.Info("Ticket checked in",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("event_id", ticket.EventID.String()),
		zap.String("staff_id", staffID),
	)

	resp := s.ticketWithEvent(ctx, ticket)
	return &response.ValidationResponse{
		Valid:   true,
		Message: "Ticket valid, checked in",
		Ticket:  &resp,
	}, nil
}

func (s *ticketService) GetUserTickets(ctx context.Context, userID string, statusBucket string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", entity.ErrValidation, userID)
	}

	statuses, err := bucketStatuses(statusBucket)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repo.Ticket.FindByUserID(ctx, userUUID, statuses, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user tickets",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user tickets: %w", err)
	}

	total, err := s.repo.Ticket.CountByUserID(ctx, userUUID, statuses)
	if err != nil {
		s.log.Error("Failed to count user tickets", zap.Error(err))
		return nil, fmt.Errorf("count user tickets: %w", err)
	}

	ticketResponses := make([]response.TicketResponse, len(tickets))
	for i, ticket := range tickets {
		ticketResponses[i] = s.ticketWithEvent(ctx, ticket)
	}

	return response.NewPaginatedResponse(ticketResponses, req.Page, req.PerPage, total), nil
}

func (s *ticketService) GetTicketByID(ctx context.Context, userID string, ticketID string) (*response.TicketResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ticket ID %s", entity.ErrValidation, ticketID)
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, entity.ErrTicketNotFound
	}

	if ticket.UserID.String() != userID {
		return nil, entity.ErrTicketNotOwned
	}

	resp := s.ticketWithEvent(ctx, ticket)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *ticketService) rejectUsed(ticket *entity.Ticket) *response.ValidationResponse {
	message := "Ticket already used"
	if ticket.CheckedInAt != nil {
		message = fmt.Sprintf("Ticket already used, checked in at %s",
			ticket.CheckedInAt.Format(time.RFC3339))
	}
	return rejectTicket(ticket, message)
}

func (s *ticketService) ticketWithEvent(ctx context.Context, ticket *entity.Ticket) response.TicketResponse {
	resp := response.TicketToResponse(ticket)
	if event, _ := s.repo.Event.FindByID(ctx, ticket.EventID); event != nil {
		resp.EventTitle = event.Title
		resp.EventStart = &event.StartDate
		resp.EventEnd = &event.EndDate
	}
	return resp
}

func reject(message string) *response.ValidationResponse {
	return &response.ValidationResponse{Valid: false, Message: message}
}

func rejectTicket(ticket *entity.Ticket, message string) *response.ValidationResponse {
	resp := response.TicketToResponse(ticket)
	return &response.ValidationResponse{Valid: false, Message: message, Ticket: &resp}
}

// bucketStatuses maps the display buckets to ticket statuses. An empty
// bucket means no filter.
func bucketStatuses(bucket string) ([]entity.TicketStatus, error) {
	switch bucket {
	case "":
		return nil, nil
	case "valid":
		return []entity.TicketStatus{entity.TicketStatusValid}, nil
	case "used":
		return []entity.TicketStatus{entity.TicketStatusUsed}, nil
	case "inactive":
		return []entity.TicketStatus{entity.TicketStatusCancelled, entity.TicketStatusExpired}, nil
	default:
		return nil, fmt.Errorf("%w: unknown status bucket %q", entity.ErrValidation, bucket)
	}
}
