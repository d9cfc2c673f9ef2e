package auth

import (
	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/user"
)

// Every response carries Error instead of failing the request-reply call, so
// that callers can tell domain failures from transport failures.

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	User  *user.User      `json:"user,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token pair and the authenticated user.
type LoginResponse struct {
	User   *user.User      `json:"user,omitempty"`
	Tokens *user.TokenPair `json:"tokens,omitempty"`
	Error  *apperror.Error `json:"error,omitempty"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	Tokens *user.TokenPair `json:"tokens,omitempty"`
	Error  *apperror.Error `json:"error,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool            `json:"valid"`
	Claims *user.Claims    `json:"claims,omitempty"`
	Error  *apperror.Error `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID uint `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User  *user.User      `json:"user,omitempty"`
	Error *apperror.Error `json:"error,omitempty"`
}
