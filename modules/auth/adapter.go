package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the authentication operations other modules use.
// Domain failures are returned as *apperror.Error.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)
	Login(ctx context.Context, req LoginRequest) (*user.User, *user.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
	GetUser(ctx context.Context, userID uint) (*user.User, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates an account via the register service.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	var resp RegisterResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"register",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.User, nil
}

// Login authenticates via the login service.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (*user.User, *user.TokenPair, error) {
	var resp LoginResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, nil, fmt.Errorf("login request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, nil, resp.Error
	}
	return resp.User, resp.Tokens, nil
}

// Refresh exchanges a refresh token via the refresh-token service.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp RefreshResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("refresh-token request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Tokens, nil
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}
	if !resp.Valid {
		if resp.Error != nil {
			return nil, resp.Error
		}
		return nil, apperror.Unauthenticated("Invalid token")
	}
	return resp.Claims, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID uint) (*user.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.User, nil
}
