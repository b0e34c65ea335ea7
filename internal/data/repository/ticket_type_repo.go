package repository

import (
	"context"
	"fmt"

	"event-ticketing/internal/data/entity"
	"event-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TicketTypeRepository interface {
	Create(ctx context.Context, ticketType *entity.TicketType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketType, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error)

	ReserveQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	ReleaseQuantity(ctx context.Context, id uuid.UUID, quantity int) error
}

type ticketTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketTypeRepository(db database.PgxIface, log *zap.Logger) TicketTypeRepository {
	return &ticketTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket_type")),
	}
}

func (r *ticketTypeRepository) Create(ctx context.Context, ticketType *entity.TicketType) error {
	query := `
		INSERT INTO ticket_types (id, event_id, name, price, quantity_available,
		                          quantity_sold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		ticketType.ID,
		ticketType.EventID,
		ticketType.Name,
		ticketType.Price,
		ticketType.QuantityAvailable,
		ticketType.QuantitySold,
		ticketType.CreatedAt,
		ticketType.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket type",
			zap.Error(err),
			zap.String("event_id", ticketType.EventID.String()),
			zap.String("name", ticketType.Name),
		)
		return fmt.Errorf("create ticket type %s: %w", ticketType.Name, err)
	}

	return nil
}

func (r *ticketTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
	return findTicketType(ctx, r.db, id)
}

func findTicketType(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, quantity_available, quantity_sold,
		       created_at, updated_at
		FROM ticket_types
		WHERE id = $1
	`

	var ticketType entity.TicketType
	err := q.QueryRow(ctx, query, id).Scan(
		&ticketType.ID,
		&ticketType.EventID,
		&ticketType.Name,
		&ticketType.Price,
		&ticketType.QuantityAvailable,
		&ticketType.QuantitySold,
		&ticketType.CreatedAt,
		&ticketType.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket type %s: %w", id.String(), err)
	}

	return &ticketType, nil
}

func (r *ticketTypeRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, quantity_available, quantity_sold,
		       created_at, updated_at
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find ticket types by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find ticket types for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var ticketTypes []*entity.TicketType
	for rows.Next() {
		var ticketType entity.TicketType
		err := rows.Scan(
			&ticketType.ID,
			&ticketType.EventID,
			&ticketType.Name,
			&ticketType.Price,
			&ticketType.QuantityAvailable,
			&ticketType.QuantitySold,
			&ticketType.CreatedAt,
			&ticketType.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket type row", zap.Error(err))
			return nil, fmt.Errorf("%w: scan ticket type row: %v", entity.ErrMalformedResponse, err)
		}
		ticketTypes = append(ticketTypes, &ticketType)
	}

	return ticketTypes, nil
}

func (r *ticketTypeRepository) ReserveQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return reserveTicketTypeQuantity(ctx, r.db, id, quantity)
}

func (r *ticketTypeRepository) ReleaseQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return releaseTicketTypeQuantity(ctx, r.db, r.log, id, quantity)
}

// Same single-statement check-and-debit as the event ledger, applied to a
// ticket type's own allocation.
func reserveTicketTypeQuantity(ctx context.Context, q database.Querier, id uuid.UUID, quantity int) error {
	query := `
		UPDATE ticket_types
		SET quantity_sold = quantity_sold + $2, updated_at = NOW()
		WHERE id = $1 AND quantity_sold + $2 <= quantity_available
	`

	result, err := q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("reserve %d units of ticket type %s: %w", quantity, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInsufficientInventory
	}

	return nil
}

func releaseTicketTypeQuantity(ctx context.Context, q database.Querier, log *zap.Logger, id uuid.UUID, quantity int) error {
	query := `
		UPDATE ticket_types
		SET quantity_sold = quantity_sold - $2, updated_at = NOW()
		WHERE id = $1 AND quantity_sold >= $2
	`

	result, err := q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("release %d units of ticket type %s: %w", quantity, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		clamp := `UPDATE ticket_types SET quantity_sold = 0, updated_at = NOW() WHERE id = $1`
		if _, err := q.Exec(ctx, clamp, id); err != nil {
			return fmt.Errorf("clamp inventory of ticket type %s: %w", id.String(), err)
		}
		log.Warn("Ticket type release would go negative, clamped to zero",
			zap.String("ticket_type_id", id.String()),
			zap.Int("quantity", quantity),
		)
	}

	return nil
}
