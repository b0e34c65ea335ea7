package usecase

import (
	"context"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/data/repository"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Func-field mocks for the repository interfaces. Unset fields fall back
// to empty results so each test only wires what it exercises.

type MockEventRepository struct {
	CreateFunc          func(ctx context.Context, event *entity.Event) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindPublishedFunc   func(ctx context.Context, limit, offset int) ([]*entity.Event, error)
	CountPublishedFunc  func(ctx context.Context) (int64, error)
	SetPublishedFunc    func(ctx context.Context, id uuid.UUID, published bool) error
	SetCancelledFunc    func(ctx context.Context, id uuid.UUID) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	ReserveCapacityFunc func(ctx context.Context, id uuid.UUID, quantity int) error
	ReleaseCapacityFunc func(ctx context.Context, id uuid.UUID, quantity int) error
}

func (m *MockEventRepository) Create(ctx context.Context, event *entity.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEventRepository) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	if m.FindPublishedFunc != nil {
		return m.FindPublishedFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockEventRepository) CountPublished(ctx context.Context) (int64, error) {
	if m.CountPublishedFunc != nil {
		return m.CountPublishedFunc(ctx)
	}
	return 0, nil
}

func (m *MockEventRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	if m.SetPublishedFunc != nil {
		return m.SetPublishedFunc(ctx, id, published)
	}
	return nil
}

func (m *MockEventRepository) SetCancelled(ctx context.Context, id uuid.UUID) error {
	if m.SetCancelledFunc != nil {
		return m.SetCancelledFunc(ctx, id)
	}
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEventRepository) ReserveCapacity(ctx context.Context, id uuid.UUID, quantity int) error {
	if m.ReserveCapacityFunc != nil {
		return m.ReserveCapacityFunc(ctx, id, quantity)
	}
	return nil
}

func (m *MockEventRepository) ReleaseCapacity(ctx context.Context, id uuid.UUID, quantity int) error {
	if m.ReleaseCapacityFunc != nil {
		return m.ReleaseCapacityFunc(ctx, id, quantity)
	}
	return nil
}

type MockTicketTypeRepository struct {
	CreateFunc          func(ctx context.Context, ticketType *entity.TicketType) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.TicketType, error)
	FindByEventIDFunc   func(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error)
	ReserveQuantityFunc func(ctx context.Context, id uuid.UUID, quantity int) error
	ReleaseQuantityFunc func(ctx context.Context, id uuid.UUID, quantity int) error
}

func (m *MockTicketTypeRepository) Create(ctx context.Context, ticketType *entity.TicketType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticketType)
	}
	return nil
}

func (m *MockTicketTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTicketTypeRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error) {
	if m.FindByEventIDFunc != nil {
		return m.FindByEventIDFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockTicketTypeRepository) ReserveQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if m.ReserveQuantityFunc != nil {
		return m.ReserveQuantityFunc(ctx, id, quantity)
	}
	return nil
}

func (m *MockTicketTypeRepository) ReleaseQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if m.ReleaseQuantityFunc != nil {
		return m.ReleaseQuantityFunc(ctx, id, quantity)
	}
	return nil
}

type MockBookingRepository struct {
	CreateWithTicketsFunc    func(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error
	CancelWithTicketsFunc    func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIdempotencyKeyFunc func(ctx context.Context, key string) (*entity.Booking, error)
	FindByUserIDFunc         func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserIDFunc        func(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByEventIDFunc       func(ctx context.Context, eventID uuid.UUID) (int64, error)
}

func (m *MockBookingRepository) CreateWithTickets(ctx context.Context, booking *entity.Booking, tickets []*entity.Ticket) error {
	if m.CreateWithTicketsFunc != nil {
		return m.CreateWithTicketsFunc(ctx, booking, tickets)
	}
	return nil
}

func (m *MockBookingRepository) CancelWithTickets(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.CancelWithTicketsFunc != nil {
		return m.CancelWithTicketsFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Booking, error) {
	if m.FindByIdempotencyKeyFunc != nil {
		return m.FindByIdempotencyKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockBookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountByUserIDFunc != nil {
		return m.CountByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockBookingRepository) CountByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if m.CountByEventIDFunc != nil {
		return m.CountByEventIDFunc(ctx, eventID)
	}
	return 0, nil
}

type MockTicketRepository struct {
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindByCodeFunc      func(ctx context.Context, code string) (*entity.Ticket, error)
	FindByBookingIDFunc func(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error)
	FindByUserIDFunc    func(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus, limit, offset int) ([]*entity.Ticket, error)
	CountByUserIDFunc   func(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus) (int64, error)
	CheckInFunc         func(ctx context.Context, id uuid.UUID, staffID uuid.UUID, at time.Time) (bool, error)
	MarkExpiredFunc     func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTicketRepository) FindByCode(ctx context.Context, code string) (*entity.Ticket, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockTicketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	if m.FindByBookingIDFunc != nil {
		return m.FindByBookingIDFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *MockTicketRepository) FindByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus, limit, offset int) ([]*entity.Ticket, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID, statuses, limit, offset)
	}
	return nil, nil
}

func (m *MockTicketRepository) CountByUserID(ctx context.Context, userID uuid.UUID, statuses []entity.TicketStatus) (int64, error) {
	if m.CountByUserIDFunc != nil {
		return m.CountByUserIDFunc(ctx, userID, statuses)
	}
	return 0, nil
}

func (m *MockTicketRepository) CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID, at time.Time) (bool, error) {
	if m.CheckInFunc != nil {
		return m.CheckInFunc(ctx, id, staffID, at)
	}
	return true, nil
}

func (m *MockTicketRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkExpiredFunc != nil {
		return m.MarkExpiredFunc(ctx, id)
	}
	return true, nil
}

type MockGroupRepository struct {
	CreateFunc        func(ctx context.Context, group *entity.Group) error
	FindByEventIDFunc func(ctx context.Context, eventID uuid.UUID) (*entity.Group, error)
	EnrollMemberFunc  func(ctx context.Context, member *entity.GroupMember) error
	CountMembersFunc  func(ctx context.Context, groupID uuid.UUID) (int64, error)
}

func (m *MockGroupRepository) Create(ctx context.Context, group *entity.Group) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, group)
	}
	return nil
}

func (m *MockGroupRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) (*entity.Group, error) {
	if m.FindByEventIDFunc != nil {
		return m.FindByEventIDFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockGroupRepository) EnrollMember(ctx context.Context, member *entity.GroupMember) error {
	if m.EnrollMemberFunc != nil {
		return m.EnrollMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockGroupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	if m.CountMembersFunc != nil {
		return m.CountMembersFunc(ctx, groupID)
	}
	return 0, nil
}

type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *entity.Session) error
	FindValidSessionFunc func(ctx context.Context, token string) (*entity.Session, error)
	RevokeFunc           func(ctx context.Context, token string) error
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if m.FindValidSessionFunc != nil {
		return m.FindValidSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *MockSessionRepository) Revoke(ctx context.Context, token string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, token)
	}
	return nil
}

// newMockRepository bundles fresh mocks into the aggregate services take.
func newMockRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		User:       &MockUserRepository{},
		Session:    &MockSessionRepository{},
		Event:      &MockEventRepository{},
		TicketType: &MockTicketTypeRepository{},
		Booking:    &MockBookingRepository{},
		Ticket:     &MockTicketRepository{},
		Group:      &MockGroupRepository{},
	}

	repo := &repository.Repository{
		User:       m.User,
		Session:    m.Session,
		Event:      m.Event,
		TicketType: m.TicketType,
		Booking:    m.Booking,
		Ticket:     m.Ticket,
		Group:      m.Group,
	}
	return repo, m
}

type mocks struct {
	User       *MockUserRepository
	Session    *MockSessionRepository
	Event      *MockEventRepository
	TicketType *MockTicketTypeRepository
	Booking    *MockBookingRepository
	Ticket     *MockTicketRepository
	Group      *MockGroupRepository
}

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{MaxPerOrder: 10},
		Session: utils.SessionConfig{ExpiryHours: 24},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
