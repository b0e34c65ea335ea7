package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/dto/request"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedEvent(id uuid.UUID, price float64, capacity int) *entity.Event {
	event := &entity.Event{
		HostID:          uuid.New(),
		Title:           "Go Conference",
		Price:           price,
		Currency:        "USD",
		CurrentBookings: 0,
		IsPublished:     true,
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(30 * time.Hour),
	}
	event.ID = id
	if capacity > 0 {
		event.MaxCapacity = &capacity
	}
	return event
}

func TestBookingService_CreateBooking(t *testing.T) {
	userID := uuid.New().String()
	eventID := uuid.New()

	tests := []struct {
		name       string
		req        *request.CreateBookingRequest
		setupMocks func(*mocks)
		wantErr    error
	}{
		{
			name: "quantity above per-order maximum",
			req:  &request.CreateBookingRequest{EventID: eventID.String(), Quantity: 11},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					return publishedEvent(eventID, 100, 0), nil
				}
			},
			wantErr: entity.ErrInvalidQuantity,
		},
		{
			name: "event not found",
			req:  &request.CreateBookingRequest{EventID: eventID.String(), Quantity: 1},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					return nil, nil
				}
			},
			wantErr: entity.ErrEventNotFound,
		},
		{
			name: "unpublished event is not bookable",
			req:  &request.CreateBookingRequest{EventID: eventID.String(), Quantity: 1},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					event := publishedEvent(eventID, 100, 0)
					event.IsPublished = false
					return event, nil
				}
			},
			wantErr: entity.ErrEventUnavailable,
		},
		{
			name: "cancelled event is not bookable",
			req:  &request.CreateBookingRequest{EventID: eventID.String(), Quantity: 1},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					event := publishedEvent(eventID, 100, 0)
					event.IsCancelled = true
					return event, nil
				}
			},
			wantErr: entity.ErrEventUnavailable,
		},
		{
			name: "ended event is not bookable",
			req:  &request.CreateBookingRequest{EventID: eventID.String(), Quantity: 1},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					event := publishedEvent(eventID, 100, 0)
					event.StartDate = time.Now().Add(-48 * time.Hour)
					event.EndDate = time.Now().Add(-24 * time.Hour)
					return event, nil
				}
			},
			wantErr: entity.ErrEventUnavailable,
		},
		{
			name: "ticket type belonging to another event",
			req: &request.CreateBookingRequest{
				EventID:      eventID.String(),
				TicketTypeID: strPtr(uuid.New().String()),
				Quantity:     1,
			},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					return publishedEvent(eventID, 100, 0), nil
				}
				m.TicketType.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
					tt := &entity.TicketType{EventID: uuid.New(), Name: "VIP", Price: 500}
					tt.ID = id
					return tt, nil
				}
			},
			wantErr: entity.ErrTicketTypeMismatch,
		},
		{
			name: "ticket type not found",
			req: &request.CreateBookingRequest{
				EventID:      eventID.String(),
				TicketTypeID: strPtr(uuid.New().String()),
				Quantity:     1,
			},
			setupMocks: func(m *mocks) {
				m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
					return publishedEvent(eventID, 100, 0), nil
				}
				m.TicketType.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
					return nil, nil
				}
			},
			wantErr: entity.ErrTicketTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, m := newMockRepository()
			tt.setupMocks(m)

			svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

			_, err := svc.CreateBooking(context.Background(), userID, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	eventID := uuid.New()
	typeID := uuid.New()
	userID := uuid.New().String()

	repo, m := newMockRepository()
	m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
		return publishedEvent(eventID, 100, 500), nil
	}
	m.TicketType.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
		tt := &entity.TicketType{EventID: eventID, Name: "VIP", Price: 500, QuantityAvailable: 50}
		tt.ID = typeID
		return tt, nil
	}

	var createdBooking *entity.Booking
	var createdTickets []*entity.Ticket
	m.Booking.CreateWithTicketsFunc = func(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
		createdBooking = booking
		createdTickets = tickets
		return nil
	}

	groupID := uuid.New()
	var enrolled *entity.GroupMember
	m.Group.FindByEventIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
		group := &entity.Group{EventID: eventID, Name: "Go Conference"}
		group.ID = groupID
		return group, nil
	}
	m.Group.EnrollMemberFunc = func(ctx context.Context, member *entity.GroupMember) error {
		enrolled = member
		return nil
	}

	svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

	resp, err := svc.CreateBooking(context.Background(), userID, &request.CreateBookingRequest{
		EventID:      eventID.String(),
		TicketTypeID: strPtr(typeID.String()),
		Quantity:     3,
	})
	require.NoError(t, err)
	require.NotNil(t, createdBooking)

	// Tier price applies, not the event base price.
	assert.Equal(t, 1500.0, createdBooking.TotalAmount)
	assert.Equal(t, entity.BookingStatusConfirmed, createdBooking.Status)
	assert.Equal(t, entity.PaymentStatusCompleted, createdBooking.PaymentStatus)

	require.Len(t, createdTickets, 3)
	codes := make(map[string]bool)
	for _, ticket := range createdTickets {
		assert.Equal(t, entity.TicketStatusValid, ticket.Status)
		assert.Equal(t, createdBooking.ID, ticket.BookingID)
		assert.True(t, utils.IsWellFormedTicketCode(ticket.QRCode), "code %q", ticket.QRCode)
		codes[ticket.QRCode] = true
	}
	assert.Len(t, codes, 3, "ticket codes must be unique")

	require.NotNil(t, enrolled)
	assert.Equal(t, groupID, enrolled.GroupID)
	assert.Equal(t, entity.GroupRoleMember, enrolled.Role)

	assert.Equal(t, "Go Conference", resp.EventTitle)
	assert.Len(t, resp.Tickets, 3)
}

func TestBookingService_CreateBooking_InsufficientInventory(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New().String()

	repo, m := newMockRepository()
	m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
		return publishedEvent(eventID, 100, 2), nil
	}
	m.Booking.CreateWithTicketsFunc = func(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
		return entity.ErrInsufficientInventory
	}

	enrollCalled := false
	m.Group.EnrollMemberFunc = func(ctx context.Context, member *entity.GroupMember) error {
		enrollCalled = true
		return nil
	}

	svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

	_, err := svc.CreateBooking(context.Background(), userID, &request.CreateBookingRequest{
		EventID:  eventID.String(),
		Quantity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInsufficientInventory)
	assert.False(t, enrollCalled, "a failed booking must not enroll the user")
}

func TestBookingService_CreateBooking_EnrollmentFailureNonFatal(t *testing.T) {
	eventID := uuid.New()

	repo, m := newMockRepository()
	m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
		return publishedEvent(eventID, 100, 0), nil
	}
	m.Group.FindByEventIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
		group := &entity.Group{EventID: eventID, Name: "Go Conference"}
		group.ID = uuid.New()
		return group, nil
	}
	m.Group.EnrollMemberFunc = func(ctx context.Context, member *entity.GroupMember) error {
		return assert.AnError
	}

	svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

	resp, err := svc.CreateBooking(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		EventID:  eventID.String(),
		Quantity: 1,
	})
	require.NoError(t, err, "group enrollment is best effort")
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
}

func TestBookingService_CreateBooking_IdempotentReplay(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	key := "replay-key-0001"

	existing := &entity.Booking{
		UserID:        userID,
		EventID:       eventID,
		Quantity:      2,
		TotalAmount:   200,
		Currency:      "USD",
		Status:        entity.BookingStatusConfirmed,
		PaymentStatus: entity.PaymentStatusCompleted,
	}
	existing.ID = uuid.New()

	repo, m := newMockRepository()
	m.Booking.FindByIdempotencyKeyFunc = func(ctx context.Context, k string) (*entity.Booking, error) {
		if k == key {
			return existing, nil
		}
		return nil, nil
	}

	createCalled := false
	m.Booking.CreateWithTicketsFunc = func(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
		createCalled = true
		return nil
	}

	svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

	resp, err := svc.CreateBooking(context.Background(), userID.String(), &request.CreateBookingRequest{
		EventID:        eventID.String(),
		Quantity:       2,
		IdempotencyKey: &key,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.False(t, createCalled, "replay must not debit inventory again")
}

// Simulates the conditional-update inventory debit under concurrency: with
// capacity 10 and 2 seats per order, exactly 5 of 20 racing requests may win.
func TestBookingService_CreateBooking_ConcurrentCapacity(t *testing.T) {
	eventID := uuid.New()
	const capacity = 10
	const quantity = 2
	const attempts = 20

	repo, m := newMockRepository()
	m.Event.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
		return publishedEvent(eventID, 100, capacity), nil
	}

	var mu sync.Mutex
	booked := 0
	m.Booking.CreateWithTicketsFunc = func(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
		mu.Lock()
		defer mu.Unlock()
		if booked+booking.Quantity > capacity {
			return entity.ErrInsufficientInventory
		}
		booked += booking.Quantity
		return nil
	}

	svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
				EventID:  eventID.String(),
				Quantity: quantity,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, entity.ErrInsufficientInventory)
		}
	}
	assert.Equal(t, capacity/quantity, succeeded)
	assert.Equal(t, capacity, booked, "inventory must never oversell")
}

func TestBookingService_CancelBooking(t *testing.T) {
	ownerID := uuid.New()
	bookingID := uuid.New()

	booking := &entity.Booking{
		UserID:   ownerID,
		EventID:  uuid.New(),
		Quantity: 1,
		Status:   entity.BookingStatusConfirmed,
	}
	booking.ID = bookingID

	t.Run("owner can cancel", func(t *testing.T) {
		repo, m := newMockRepository()
		m.Booking.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		}
		cancelled := false
		m.Booking.CancelWithTicketsFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			cancelled = true
			return booking, nil
		}

		svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())
		err := svc.CancelBooking(context.Background(), ownerID.String(), bookingID.String(), false)
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		repo, m := newMockRepository()
		m.Booking.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		}

		svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())
		err := svc.CancelBooking(context.Background(), uuid.New().String(), bookingID.String(), false)
		assert.ErrorIs(t, err, entity.ErrBookingNotOwned)
	})

	t.Run("admin can cancel any booking", func(t *testing.T) {
		repo, m := newMockRepository()
		m.Booking.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		}
		cancelled := false
		m.Booking.CancelWithTicketsFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			cancelled = true
			return booking, nil
		}

		svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())
		err := svc.CancelBooking(context.Background(), uuid.New().String(), bookingID.String(), true)
		require.NoError(t, err)
		assert.True(t, cancelled)
	})

	t.Run("already final", func(t *testing.T) {
		repo, m := newMockRepository()
		m.Booking.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		}
		m.Booking.CancelWithTicketsFunc = func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return nil, entity.ErrBookingFinal
		}

		svc := NewBookingService(repo, NewAutoConfirmProcessor(), testConfig(), testLogger())
		err := svc.CancelBooking(context.Background(), ownerID.String(), bookingID.String(), false)
		assert.ErrorIs(t, err, entity.ErrBookingFinal)
	})
}

func strPtr(s string) *string {
	return &s
}
