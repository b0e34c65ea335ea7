package wire

import (
	"event-ticketing/internal/adaptor"
	"event-ticketing/internal/data/repository"
	"event-ticketing/pkg/middleware"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/events - Browse published events
	r.Get("/api/events", eventHandler.ListEvents)

	// GET /api/events/{id} - Event details
	r.Get("/api/events/{id}", eventHandler.GetEvent)

	// GET /api/events/{id}/availability - Remaining capacity
	r.Get("/api/events/{id}/availability", eventHandler.GetAvailability)

	// GET /api/events/{id}/ticket-types - Ticket tiers for an event
	r.Get("/api/events/{id}/ticket-types", eventHandler.GetTicketTypes)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/events - Create event (caller becomes host)
		r.Post("/api/events", eventHandler.CreateEvent)

		// PUT /api/events/{id}/publish - Open the event for booking
		r.Put("/api/events/{id}/publish", eventHandler.PublishEvent)

		// PUT /api/events/{id}/cancel - Cancel the event
		r.Put("/api/events/{id}/cancel", eventHandler.CancelEvent)

		// DELETE /api/events/{id} - Delete event (only without bookings)
		r.Delete("/api/events/{id}", eventHandler.DeleteEvent)

		// POST /api/events/{id}/ticket-types - Add a ticket tier
		r.Post("/api/events/{id}/ticket-types", eventHandler.AddTicketType)
	})
}
