package usecase

import (
	"context"

	"event-ticketing/internal/data/entity"
)

// PaymentProcessor decides the payment outcome of a booking before it is
// persisted. The orchestrator only consumes the returned statuses, so a
// real gateway (pending -> authorized -> captured/failed) can replace the
// auto-confirm policy without touching booking logic.
type PaymentProcessor interface {
	Process(ctx context.Context, booking *entity.Booking) (entity.BookingStatus, entity.PaymentStatus, error)
}

// autoConfirmProcessor marks every booking confirmed and paid at creation.
// Current policy: no real payment gateway.
type autoConfirmProcessor struct{}

func NewAutoConfirmProcessor() PaymentProcessor {
	return autoConfirmProcessor{}
}

func (autoConfirmProcessor) Process(ctx context.Context, booking *entity.Booking) (entity.BookingStatus, entity.PaymentStatus, error) {
	return entity.BookingStatusConfirmed, entity.PaymentStatusCompleted, nil
}
