package usecase

import (
	"context"
	"testing"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/dto/request"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	repo, m := newMockRepository()

	var created *entity.User
	m.User.CreateFunc = func(ctx context.Context, user *entity.User) error {
		created = user
		return nil
	}

	svc := NewAuthService(repo, testConfig(), testLogger())

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "gopher",
		Email:    "Gopher@Example.Com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "gopher@example.com", created.Email)
	assert.Equal(t, entity.RoleCustomer, created.Role, "role defaults to customer")
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("correct-horse", created.PasswordHash))

	assert.Empty(t, resp.Token, "registration does not log the user in")
}

func TestAuthService_Register_Taken(t *testing.T) {
	repo, m := newMockRepository()
	m.User.FindByUsernameFunc = func(ctx context.Context, username string) (*entity.User, error) {
		return &entity.User{Username: username}, nil
	}

	svc := NewAuthService(repo, testConfig(), testLogger())

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "gopher",
		Email:    "gopher@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)

	account := &entity.User{
		Username:     "gopher",
		Email:        "gopher@example.com",
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}
	account.ID = uuid.New()

	newService := func() (*MockSessionRepository, AuthService) {
		repo, m := newMockRepository()
		m.User.FindByUsernameFunc = func(ctx context.Context, username string) (*entity.User, error) {
			if username == "gopher" {
				return account, nil
			}
			return nil, nil
		}
		m.User.FindByEmailFunc = func(ctx context.Context, email string) (*entity.User, error) {
			if email == "gopher@example.com" {
				return account, nil
			}
			return nil, nil
		}
		return m.Session, NewAuthService(repo, testConfig(), testLogger())
	}

	t.Run("by username", func(t *testing.T) {
		_, svc := newService()
		resp, err := svc.Login(context.Background(), &request.LoginRequest{
			Username: "gopher",
			Password: "correct-horse",
		}, "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("by email", func(t *testing.T) {
		sessions, svc := newService()
		var session *entity.Session
		sessions.CreateFunc = func(ctx context.Context, s *entity.Session) error {
			session = s
			return nil
		}

		resp, err := svc.Login(context.Background(), &request.LoginRequest{
			Username: "Gopher@Example.Com",
			Password: "correct-horse",
		}, "test-agent", "127.0.0.1")
		require.NoError(t, err)

		require.NotNil(t, session)
		assert.Equal(t, account.ID, session.UserID)
		assert.Equal(t, session.Token.String(), resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, svc := newService()
		_, err := svc.Login(context.Background(), &request.LoginRequest{
			Username: "gopher",
			Password: "wrong",
		}, "", "")
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, svc := newService()
		_, err := svc.Login(context.Background(), &request.LoginRequest{
			Username: "nobody",
			Password: "correct-horse",
		}, "", "")
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})
}
