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

type EventService interface {
	CreateEvent(ctx context.Context, hostID string, req *request.CreateEventRequest) (*response.EventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	ListEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error)
	PublishEvent(ctx context.Context, hostID string, eventID string) error
	CancelEvent(ctx context.Context, hostID string, eventID string) error
	DeleteEvent(ctx context.Context, hostID string, eventID string) error
	AddTicketType(ctx context.Context, hostID string, eventID string, req *request.CreateTicketTypeRequest) (*response.TicketTypeResponse, error)
	GetTicketTypes(ctx context.Context, eventID string) ([]response.TicketTypeResponse, error)
	GetAvailability(ctx context.Context, eventID string, ticketTypeID string) (*response.AvailabilityResponse, error)
}

type eventService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, hostID string, req *request.CreateEventRequest) (*response.EventResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	hostUUID, err := uuid.Parse(hostID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid host ID %s", entity.ErrValidation, hostID)
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be RFC 3339", entity.ErrValidation)
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be RFC 3339", entity.ErrValidation)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", entity.ErrValidation)
	}

	now := time.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:      hostUUID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Currency:    req.Currency,
		MaxCapacity: req.MaxCapacity,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.log.Error("Failed to create event", zap.Error(err))
		return nil, fmt.Errorf("create event: %w", err)
	}

	// Every event gets a chat group; attendees are enrolled when their
	// booking confirms.
	group := &entity.Group{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID: event.ID,
		Name:    event.Title,
	}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.log.Warn("Failed to create event group",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
	} else if err := s.repo.Group.EnrollMember(ctx, &entity.GroupMember{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		GroupID: group.ID,
		UserID:  hostUUID,
		Role:    entity.GroupRoleHost,
	}); err != nil {
		s.log.Warn("Failed to enroll host in event group", zap.Error(err))
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("host_id", hostID),
	)

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := response.EventToResponse(event)
	return &resp, nil
}

func (s *eventService) ListEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	events, err := s.repo.Event.FindPublished(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list events", zap.Error(err))
		return nil, fmt.Errorf("list events: %w", err)
	}

	total, err := s.repo.Event.CountPublished(ctx)
	if err != nil {
		s.log.Error("Failed to count events", zap.Error(err))
		return nil, fmt.Errorf("count events: %w", err)
	}

	eventResponses := make([]response.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = response.EventToResponse(event)
	}

	return response.NewPaginatedResponse(eventResponses, req.Page, req.PerPage, total), nil
}

func (s *eventService) PublishEvent(ctx context.Context, hostID string, eventID string) error {
	event, err := s.findHostedEvent(ctx, hostID, eventID)
	if err != nil {
		return err
	}

	if event.IsCancelled {
		return fmt.Errorf("%w: cancelled events cannot be published", entity.ErrEventUnavailable)
	}

	if err := s.repo.Event.SetPublished(ctx, event.ID, true); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	s.log.Info("Event published", zap.String("event_id", eventID))
	return nil
}

func (s *eventService) CancelEvent(ctx context.Context, hostID string, eventID string) error {
	event, err := s.findHostedEvent(ctx, hostID, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.Event.SetCancelled(ctx, event.ID); err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}

	s.log.Info("Event cancelled", zap.String("event_id", eventID))
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, hostID string, eventID string) error {
	event, err := s.findHostedEvent(ctx, hostID, eventID)
	if err != nil {
		return err
	}

	// Events with bookings hold money and tickets; they can only be
	// cancelled, never deleted.
	count, err := s.repo.Booking.CountByEventID(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count event bookings: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d bookings exist", entity.ErrEventHasBookings, count)
	}

	if err := s.repo.Event.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.log.Info("Event deleted", zap.String("event_id", eventID))
	return nil
}

func (s *eventService) AddTicketType(ctx context.Context, hostID string, eventID string, req *request.CreateTicketTypeRequest) (*response.TicketTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	event, err := s.findHostedEvent(ctx, hostID, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticketType := &entity.TicketType{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:           event.ID,
		Name:              req.Name,
		Price:             req.Price,
		QuantityAvailable: req.QuantityAvailable,
	}

	if err := s.repo.TicketType.Create(ctx, ticketType); err != nil {
		s.log.Error("Failed to create ticket type", zap.Error(err))
		return nil, fmt.Errorf("create ticket type: %w", err)
	}

	resp := response.TicketTypeToResponse(ticketType)
	return &resp, nil
}

func (s *eventService) GetTicketTypes(ctx context.Context, eventID string) ([]response.TicketTypeResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ticketTypes, err := s.repo.TicketType.FindByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get ticket types: %w", err)
	}

	responses := make([]response.TicketTypeResponse, len(ticketTypes))
	for i, ticketType := range ticketTypes {
		responses[i] = response.TicketTypeToResponse(ticketType)
	}
	return responses, nil
}

func (s *eventService) GetAvailability(ctx context.Context, eventID string, ticketTypeID string) (*response.AvailabilityResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &response.AvailabilityResponse{EventID: event.ID.String()}

	if ticketTypeID != "" {
		typeUUID, err := uuid.Parse(ticketTypeID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ticket type ID %s", entity.ErrValidation, ticketTypeID)
		}
		ticketType, err := s.repo.TicketType.FindByID(ctx, typeUUID)
		if err != nil {
			return nil, fmt.Errorf("get ticket type: %w", err)
		}
		if ticketType == nil || ticketType.EventID != event.ID {
			return nil, entity.ErrTicketTypeNotFound
		}
		remaining := ticketType.Remaining()
		id := ticketType.ID.String()
		resp.TicketTypeID = &id
		resp.Remaining = &remaining
		return resp, nil
	}

	if event.MaxCapacity == nil {
		resp.Unlimited = true
		return resp, nil
	}

	remaining := *event.MaxCapacity - event.CurrentBookings
	if remaining < 0 {
		remaining = 0
	}
	resp.Remaining = &remaining
	return resp, nil
}

// ==================== HELPER METHODS ====================

func (s *eventService) findEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", entity.ErrValidation, eventID)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, entity.ErrEventNotFound
	}
	return event, nil
}

// findHostedEvent loads the event and checks the caller hosts it. Host-only
// mutations go through here.
func (s *eventService) findHostedEvent(ctx context.Context, hostID string, eventID string) (*entity.Event, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID.String() != hostID {
		return nil, entity.ErrNotEventHost
	}
	return event, nil
}
