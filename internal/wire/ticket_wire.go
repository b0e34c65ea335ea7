package wire

import (
	"event-ticketing/internal/adaptor"
	"event-ticketing/internal/data/repository"
	"event-ticketing/pkg/middleware"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTicket(
	r chi.Router,
	ticketHandler *adaptor.TicketHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/user/tickets - View own tickets, filterable by status
		r.Get("/api/user/tickets", ticketHandler.GetUserTickets)

		// GET /api/tickets/{id} - Single ticket details (owner only)
		r.Get("/api/tickets/{id}", ticketHandler.GetTicketByID)

		// POST /api/tickets/validate - Door check-in by scanned code
		r.Post("/api/tickets/validate", ticketHandler.ValidateTicket)
	})
}
