package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// ListEvents handles GET /api/events (public)
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEvent handles GET /api/events/{id} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// GetAvailability handles GET /api/events/{id}/availability (public)
func (h *EventHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	ticketTypeID := r.URL.Query().Get("ticket_type_id")

	availability, err := h.service.GetAvailability(r.Context(), eventID, ticketTypeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// GetTicketTypes handles GET /api/events/{id}/ticket-types (public)
func (h *EventHandler) GetTicketTypes(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	ticketTypes, err := h.service.GetTicketTypes(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket types")
		return
	}

	utils.ResponseSuccess(w, "success", ticketTypes)
}

// ==================== HOST METHODS ====================

// CreateEvent handles POST /api/events (protected)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// PublishEvent handles PUT /api/events/{id}/publish (protected, host only)
func (h *EventHandler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	h.hostAction(w, r, "publish event", h.service.PublishEvent)
}

// CancelEvent handles PUT /api/events/{id}/cancel (protected, host only)
func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	h.hostAction(w, r, "cancel event", h.service.CancelEvent)
}

// DeleteEvent handles DELETE /api/events/{id} (protected, host only)
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.hostAction(w, r, "delete event", h.service.DeleteEvent)
}

// AddTicketType handles POST /api/events/{id}/ticket-types (protected, host only)
func (h *EventHandler) AddTicketType(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.CreateTicketTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	ticketType, err := h.service.AddTicketType(r.Context(), userID.String(), eventID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add ticket type")
		return
	}

	utils.ResponseCreated(w, "success", ticketType)
}

func (h *EventHandler) hostAction(w http.ResponseWriter, r *http.Request, operation string, action func(ctx context.Context, hostID, eventID string) error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := action(r.Context(), userID.String(), eventID); err != nil {
		handleServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
