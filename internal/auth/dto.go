package auth

import (
	"github.com/shopfront-labs/shopfront-backend/internal/users"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Address   string `json:"address"`
}

// LoginRequest carries credentials plus the challenge response when the
// visual challenge gate is enabled.
type LoginRequest struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ChallengeID     string `json:"challenge_id,omitempty"`
	ChallengeAnswer string `json:"challenge_answer,omitempty"`
}

// LoginResponse returns the token pair and the authenticated profile.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest rotates a session using the expired access token's identity.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutResponse reports how many pending cart lines were discarded.
type LogoutResponse struct {
	RemovedCartLines int64 `json:"removed_cart_lines"`
}
