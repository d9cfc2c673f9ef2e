package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/user"
)

// AuthService handles authentication business logic.
type AuthService struct {
	repo   user.Repository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo user.Repository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new account with the user role.
func (s *AuthService) Register(ctx context.Context, reg user.Registration) (*user.User, error) {
	if verr := user.ValidateRegistration(&reg); verr != nil {
		return nil, verr
	}

	taken, err := s.repo.UsernameExists(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("Username already exists")
	}

	taken, err = s.repo.EmailExists(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("Email already exists")
	}

	passwordHash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: passwordHash,
		Role:         user.RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, user.ErrDuplicate) {
			return nil, apperror.Conflict("Username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, creds user.Credentials) (*user.User, *user.TokenPair, error) {
	if verr := user.ValidateCredentials(&creds); verr != nil {
		return nil, nil, verr
	}

	u, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, apperror.InvalidCredentials()
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(creds.Password, u.PasswordHash) {
		return nil, nil, apperror.InvalidCredentials()
	}

	tokens, err := s.generateTokenPair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// RefreshTokens exchanges a refresh token for a new pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*user.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, unauthenticated(err)
	}

	// The role may have changed since the refresh token was issued.
	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.Unauthenticated("User no longer exists")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.generateTokenPair(u)
}

// ValidateToken resolves an access token to the identity it asserts. It does
// not check that the user still exists.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("Token is required")
	}

	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, unauthenticated(err)
	}

	return &user.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates the configured admin account unless the username is
// already taken. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) (bool, error) {
	if !admin.Enabled() {
		return false, nil
	}

	exists, err := s.repo.UsernameExists(ctx, admin.Username)
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		return false, nil
	}

	passwordHash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	u := &user.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: passwordHash,
		Role:         user.RoleAdmin,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}

func (s *AuthService) generateTokenPair(u *user.User) (*user.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &user.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}

func unauthenticated(err error) *apperror.Error {
	if errors.Is(err, ErrExpiredToken) {
		return apperror.Unauthenticated("Token has expired")
	}
	return apperror.Unauthenticated("Invalid token")
}
