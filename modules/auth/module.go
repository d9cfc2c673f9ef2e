package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker-api/config"
	"github.com/example/task-tracker-api/database"
	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/example/task-tracker-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// AuthModule owns the credential store and issues session tokens.
type AuthModule struct {
	cfg     *config.Config
	hasher  *PasswordHasher
	db      *gorm.DB
	pool    *pgxpool.Pool
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(cfg *config.Config) *AuthModule {
	return &AuthModule{
		cfg:    cfg,
		hasher: NewPasswordHasher(),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the user store and seeds the admin account.
func (m *AuthModule) Start(ctx context.Context) error {
	repo, err := m.openRepository(ctx)
	if err != nil {
		return err
	}

	m.service = NewAuthService(repo, m.hasher, NewJWTManager(m.cfg.JWT))

	created, err := m.service.EnsureAdmin(ctx, m.cfg.Admin)
	if err != nil {
		return err
	}
	if created {
		log.Printf("[auth] Seeded admin user %q", m.cfg.Admin.Username)
	}

	log.Printf("[auth] Module started (driver: %s)", m.cfg.Database.Driver)
	return nil
}

func (m *AuthModule) openRepository(ctx context.Context) (user.Repository, error) {
	switch m.cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPool(ctx, m.cfg.Database.URL, UserSchema)
		if err != nil {
			return nil, err
		}
		m.pool = pool
		return NewPostgresUserRepository(pool), nil
	default:
		db, err := database.OpenGorm(m.cfg.Database, &user.User{})
		if err != nil {
			return nil, err
		}
		m.db = db
		return NewUserRepository(db), nil
	}
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if err := database.CloseGorm(m.db); err != nil {
		log.Printf("[auth] Error closing database: %v", err)
	}
	if m.pool != nil {
		m.pool.Close()
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	var err error
	if m.pool != nil {
		err = m.pool.Ping(ctx)
	} else {
		err = database.PingGorm(ctx, m.db)
	}
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Database.Driver,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	u, err := m.service.Register(ctx, user.Registration{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return RegisterResponse{Error: toAppError(err)}, nil
	}
	log.Printf("[auth] Registered user %d (%s)", u.ID, u.Username)
	return RegisterResponse{User: u}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	u, tokens, err := m.service.Login(ctx, user.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return LoginResponse{Error: toAppError(err)}, nil
	}
	return LoginResponse{User: u, Tokens: tokens}, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return RefreshResponse{Error: toAppError(err)}, nil
	}
	return RefreshResponse{Tokens: tokens}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{Valid: false, Error: toAppError(err)}, nil
	}
	return ValidateTokenResponse{Valid: true, Claims: claims}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{Error: toAppError(err)}, nil
	}
	return GetUserResponse{User: u}, nil
}

// toAppError hides unclassified errors behind a generic internal error.
func toAppError(err error) *apperror.Error {
	if appErr := apperror.As(err); appErr != nil {
		return appErr
	}
	log.Printf("[auth] Internal error: %v", err)
	return apperror.Internal()
}
