package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}
