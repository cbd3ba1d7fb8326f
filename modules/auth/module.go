package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/furniture-store-api/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// Config holds the settings the auth module needs at startup.
type Config struct {
	JWT          JWTConfig
	BcryptCost   int
	QueryTimeout time.Duration
}

// AuthModule provides authentication services.
type AuthModule struct {
	db      *gorm.DB
	config  Config
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule on top of the shared database handle.
func NewModule(db *gorm.DB, config Config) *AuthModule {
	return &AuthModule{
		db:     db,
		config: config,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.db == nil {
		return store.ErrNotInitialized
	}
	if err := m.config.JWT.Validate(); err != nil {
		return fmt.Errorf("invalid jwt configuration: %w", err)
	}

	repo := NewUserRepository(m.db, m.config.QueryTimeout)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	hasher := NewPasswordHasherWithCost(m.config.BcryptCost)
	jwtManager := NewJWTManager(m.config.JWT)

	m.service = NewAuthService(repo, hasher, jwtManager)

	log.Printf("[auth] Module started (token lifetime: %s)", m.config.JWT.TokenLifetime)
	return nil
}

// Stop shuts down the module. The database handle is owned by main.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if err := store.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"signup",
		json.Unmarshal,
		json.Marshal,
		m.handleSignup,
	); err != nil {
		return fmt.Errorf("failed to register signup service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"signin",
		json.Unmarshal,
		json.Marshal,
		m.handleSignin,
	); err != nil {
		return fmt.Errorf("failed to register signin service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	log.Printf("[auth] Registered services: signup, signin, validate-token")
	return nil
}

// handleSignup handles account creation.
func (m *AuthModule) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	session, err := m.service.Signup(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return SignupResponse{}, err
	}

	return SignupResponse{
		ID:        session.User.ID,
		Email:     session.User.Email,
		Username:  session.User.Username,
		CreatedAt: session.User.CreatedAt,
		Token:     session.Token,
	}, nil
}

// handleSignin handles user signin.
func (m *AuthModule) handleSignin(ctx context.Context, req SigninRequest, _ *mono.Msg) (SigninResponse, error) {
	session, err := m.service.Signin(ctx, req.Email, req.Password)
	if err != nil {
		return SigninResponse{}, err
	}

	return SigninResponse{
		ID:       session.User.ID,
		Email:    session.User.Email,
		Username: session.User.Username,
		Token:    session.Token,
	}, nil
}

// handleValidateToken handles token validation.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{
			Valid: false,
			Error: tokenErrorReason(err),
		}, nil // Return response, not error, for validation failures
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
	}, nil
}

// tokenErrorReason flattens a verification failure to one of the token sentinels' messages.
func tokenErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return ErrMissingToken.Error()
	case errors.Is(err, ErrExpiredToken):
		return ErrExpiredToken.Error()
	default:
		return ErrInvalidToken.Error()
	}
}

// tokenErrorFromReason is the inverse of tokenErrorReason.
func tokenErrorFromReason(reason string) error {
	switch reason {
	case ErrMissingToken.Error():
		return ErrMissingToken
	case ErrExpiredToken.Error():
		return ErrExpiredToken
	default:
		return ErrInvalidToken
	}
}
