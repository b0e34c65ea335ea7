package adaptor

import (
	"encoding/json"
	"net/http"

	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// GetUserTickets handles GET /api/user/tickets (protected)
func (h *TicketHandler) GetUserTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	statusBucket := r.URL.Query().Get("status")

	tickets, err := h.service.GetUserTickets(r.Context(), userID.String(), statusBucket, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get user tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// GetTicketByID handles GET /api/tickets/{id} (protected)
func (h *TicketHandler) GetTicketByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		utils.ResponseBadRequest(w, "Ticket ID is required", nil)
		return
	}

	ticket, err := h.service.GetTicketByID(r.Context(), userID.String(), ticketID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket by ID")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// ValidateTicket handles POST /api/tickets/validate (protected)
//
// A rejection (used, expired, malformed) is carried inside a 200 body;
// staff scanners read the valid flag and message, not the status code.
func (h *TicketHandler) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ValidateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.ValidateTicket(r.Context(), staffID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "validate ticket")
		return
	}

	utils.ResponseSuccess(w, result.Message, result)
}
