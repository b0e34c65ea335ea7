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

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error)
	CountPublished(ctx context.Context) (int64, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	SetCancelled(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Inventory ledger operations. Both are single conditional statements;
	// the caller learns the outcome from the return value, never from a
	// count read earlier.
	ReserveCapacity(ctx context.Context, id uuid.UUID, quantity int) error
	ReleaseCapacity(ctx context.Context, id uuid.UUID, quantity int) error
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventColumns = `id, host_id, title, description, location, price, currency,
	       max_capacity, current_bookings, is_published, is_cancelled,
	       start_date, end_date, created_at, updated_at, deleted_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, host_id, title, description, location, price, currency,
		                    max_capacity, current_bookings, is_published, is_cancelled,
		                    start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.HostID,
		event.Title,
		event.Description,
		event.Location,
		event.Price,
		event.Currency,
		event.MaxCapacity,
		event.CurrentBookings,
		event.IsPublished,
		event.IsCancelled,
		event.StartDate,
		event.EndDate,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
			zap.String("title", event.Title),
		)
		return fmt.Errorf("create event %s: %w", event.ID.String(), err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return findEvent(ctx, r.db, id)
}

// findEvent is shared with the transactional booking path so the event can
// be loaded inside the same transaction that debits it.
func findEvent(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`

	var event entity.Event
	err := q.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.HostID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.Price,
		&event.Currency,
		&event.MaxCapacity,
		&event.CurrentBookings,
		&event.IsPublished,
		&event.IsCancelled,
		&event.StartDate,
		&event.EndDate,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventRepository) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE is_published = true AND is_cancelled = false AND deleted_at IS NULL
		ORDER BY start_date
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list published events",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list published events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.HostID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.Price,
			&event.Currency,
			&event.MaxCapacity,
			&event.CurrentBookings,
			&event.IsPublished,
			&event.IsCancelled,
			&event.StartDate,
			&event.EndDate,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.DeletedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("%w: scan event row: %v", entity.ErrMalformedResponse, err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *eventRepository) CountPublished(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM events
		WHERE is_published = true AND is_cancelled = false AND deleted_at IS NULL
	`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count published events", zap.Error(err))
		return 0, fmt.Errorf("count published events: %w", err)
	}

	return count, nil
}

func (r *eventRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	query := `UPDATE events SET is_published = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, published)
	if err != nil {
		r.log.Error("Failed to update event publication",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("publish event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) SetCancelled(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE events SET is_cancelled = true, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to cancel event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("cancel event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE events SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("delete event %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrEventNotFound
	}

	r.log.Info("Event deleted", zap.String("event_id", id.String()))
	return nil
}

func (r *eventRepository) ReserveCapacity(ctx context.Context, id uuid.UUID, quantity int) error {
	return reserveEventCapacity(ctx, r.db, id, quantity)
}

func (r *eventRepository) ReleaseCapacity(ctx context.Context, id uuid.UUID, quantity int) error {
	return releaseEventCapacity(ctx, r.db, r.log, id, quantity)
}

// reserveEventCapacity debits the event's running booking count. The check
// and the debit are one statement, so two buyers racing for the last units
// cannot both win: whoever the row visits second sees the guard fail.
func reserveEventCapacity(ctx context.Context, q database.Querier, id uuid.UUID, quantity int) error {
	query := `
		UPDATE events
		SET current_bookings = current_bookings + $2, updated_at = NOW()
		WHERE id = $1
		  AND deleted_at IS NULL
		  AND is_cancelled = false
		  AND (max_capacity IS NULL OR current_bookings + $2 <= max_capacity)
	`

	result, err := q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("reserve %d units of event %s: %w", quantity, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInsufficientInventory
	}

	return nil
}

// releaseEventCapacity credits units back on cancellation. The decrement is
// guarded so the count can never go negative; a failed guard means the
// ledger was already off, which is clamped and reported, not hidden.
func releaseEventCapacity(ctx context.Context, q database.Querier, log *zap.Logger, id uuid.UUID, quantity int) error {
	query := `
		UPDATE events
		SET current_bookings = current_bookings - $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND current_bookings >= $2
	`

	result, err := q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("release %d units of event %s: %w", quantity, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		clamp := `UPDATE events SET current_bookings = 0, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
		if _, err := q.Exec(ctx, clamp, id); err != nil {
			return fmt.Errorf("clamp inventory of event %s: %w", id.String(), err)
		}
		log.Warn("Inventory release would go negative, clamped to zero",
			zap.String("event_id", id.String()),
			zap.Int("quantity", quantity),
		)
	}

	return nil
}
