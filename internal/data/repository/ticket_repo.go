package repository

import (
	"context"
	"fmt"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindByCode(ctx context.Context, code string) (*entity.Ticket, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus, limit, offset int) ([]*entity.Ticket, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus) (int64, error)

	// CheckIn is the valid->used transition. The status guard is part of
	// the UPDATE itself; when two staff scan the same ticket at once,
	// exactly one call sees a row affected and wins.
	CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID, at time.Time) (bool, error)

	// MarkExpired flips a still-valid ticket to expired (scanned after the
	// event ended). Returns false when the ticket was no longer valid.
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, booking_id, user_id, event_id, ticket_type_id, qr_code,
	       status, checked_in_at, checked_in_by, created_at`

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, err
	}

	return ticket, nil
}

func (r *ticketRepository) FindByCode(ctx context.Context, code string) (*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE qr_code = $1
	`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, code))
	if err != nil {
		r.log.Error("Failed to find ticket by code", zap.Error(err))
		return nil, err
	}

	return ticket, nil
}

func (r *ticketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find tickets by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find tickets of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (r *ticketRepository) FindByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus, limit, offset int) ([]*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		  AND ($2::text[] IS NULL OR status = ANY($2))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, statusStrings(statuses), limit, offset)
	if err != nil {
		r.log.Error("Failed to find tickets by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find tickets of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (r *ticketRepository) CountByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE user_id = $1
		  AND ($2::text[] IS NULL OR status = ANY($2))
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, statusStrings(statuses)).Scan(&count); err != nil {
		r.log.Error("Failed to count tickets by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count tickets of user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *ticketRepository) CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE tickets
		SET status = 'used', checked_in_at = $2, checked_in_by = $3
		WHERE id = $1 AND status = 'valid'
	`

	result, err := r.db.Exec(ctx, query, id, at, staffID)
	if err != nil {
		r.log.Error("Failed to check in ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("staff_id", staffID.String()),
		)
		return false, fmt.Errorf("check in ticket %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *ticketRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE tickets
		SET status = 'expired'
		WHERE id = $1 AND status = 'valid'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to expire ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return false, fmt.Errorf("expire ticket %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.TicketTypeID,
		&ticket.QRCode,
		&ticket.Status,
		&ticket.CheckedInAt,
		&ticket.CheckedInBy,
		&ticket.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan ticket row: %v", entity.ErrMalformedResponse, err)
	}

	return &ticket, nil
}

func collectTickets(rows pgx.Rows) ([]*entity.Ticket, error) {
	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func statusStrings(statuses []entity.TicketStatus) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
