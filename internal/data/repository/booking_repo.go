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

type BookingRepository interface {
	// CreateWithTickets persists the booking, its tickets and the inventory
	// debit as one transaction. The unit price is re-read inside the
	// transaction and total_amount recomputed from it, so nothing the
	// caller computed from an earlier read is trusted. On any failure the
	// whole unit of work rolls back.
	CreateWithTickets(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error

	// CancelWithTickets is the inverse: booking to cancelled/refunded, its
	// still-valid tickets to cancelled, inventory credited back.
	CancelWithTickets(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByEventID(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, event_id, ticket_type_id, quantity, total_amount,
	       currency, status, payment_status, idempotency_key, created_at, updated_at`

func (r *bookingRepository) CreateWithTickets(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Authoritative price, read inside the transaction.
	var unitPrice float64
	if booking.TicketTypeID != nil {
		ticketType, err := findTicketType(ctx, tx, *booking.TicketTypeID)
		if err != nil {
			return err
		}
		if ticketType == nil {
			return entity.ErrTicketTypeNotFound
		}
		if ticketType.EventID != booking.EventID {
			return entity.ErrTicketTypeMismatch
		}
		unitPrice = ticketType.Price
	} else {
		event, err := findEvent(ctx, tx, booking.EventID)
		if err != nil {
			return err
		}
		if event == nil {
			return entity.ErrEventNotFound
		}
		unitPrice = event.Price
	}
	booking.TotalAmount = unitPrice * float64(booking.Quantity)

	// Debit: per-type allocation first when one applies, then the event's
	// running total. Both are conditional check-and-debit statements.
	if booking.TicketTypeID != nil {
		if err := reserveTicketTypeQuantity(ctx, tx, *booking.TicketTypeID, booking.Quantity); err != nil {
			return err
		}
	}
	if err := reserveEventCapacity(ctx, tx, booking.EventID, booking.Quantity); err != nil {
		return err
	}

	insertBooking := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = tx.Exec(ctx, insertBooking,
		booking.ID,
		booking.UserID,
		booking.EventID,
		booking.TicketTypeID,
		booking.Quantity,
		booking.TotalAmount,
		booking.Currency,
		booking.Status,
		booking.PaymentStatus,
		booking.IdempotencyKey,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("insert booking %s: %w", booking.ID.String(), err)
	}

	insertTicket := `
		INSERT INTO tickets (id, booking_id, user_id, event_id, ticket_type_id,
		                     qr_code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, ticket := range tickets {
		_, err := tx.Exec(ctx, insertTicket,
			ticket.ID,
			ticket.BookingID,
			ticket.UserID,
			ticket.EventID,
			ticket.TicketTypeID,
			ticket.QRCode,
			ticket.Status,
			ticket.CreatedAt,
		)
		if err != nil {
			// Rolls back the booking, every ticket so far and the debit.
			r.log.Error("Failed to insert ticket",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("qr_code", ticket.QRCode),
			)
			return fmt.Errorf("insert ticket for booking %s: %w", booking.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) CancelWithTickets(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	booking, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, entity.ErrBookingNotFound
	}
	if !booking.Cancellable() {
		return nil, entity.ErrBookingFinal
	}

	booking.Status = entity.BookingStatusCancelled
	booking.PaymentStatus = entity.PaymentStatusRefunded
	booking.UpdatedAt = time.Now()

	update := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, booking.ID, booking.Status, booking.PaymentStatus, booking.UpdatedAt); err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	cancelTickets := `
		UPDATE tickets
		SET status = 'cancelled'
		WHERE booking_id = $1 AND status = 'valid'
	`
	if _, err := tx.Exec(ctx, cancelTickets, booking.ID); err != nil {
		return nil, fmt.Errorf("cancel tickets of booking %s: %w", id.String(), err)
	}

	if booking.TicketTypeID != nil {
		if err := releaseTicketTypeQuantity(ctx, tx, r.log, *booking.TicketTypeID, booking.Quantity); err != nil {
			return nil, err
		}
	}
	if err := releaseEventCapacity(ctx, tx, r.log, booking.EventID, booking.Quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel of booking %s: %w", id.String(), err)
	}

	r.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.Int("quantity", booking.Quantity),
	)

	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, err
	}

	return booking, nil
}

func (r *bookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE idempotency_key = $1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, key))
	if err != nil {
		r.log.Error("Failed to find booking by idempotency key", zap.Error(err))
		return nil, err
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE event_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count bookings by event ID %s: %w", eventID.String(), err)
	}

	return count, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.TicketTypeID,
		&booking.Quantity,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.IdempotencyKey,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking row: %v", entity.ErrMalformedResponse, err)
	}

	return &booking, nil
}
