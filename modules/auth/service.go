package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domain "github.com/example/furniture-store-api/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrMissingFields is returned when signup input is incomplete.
	ErrMissingFields = errors.New("all fields are required")
	// ErrEmailTaken is returned when the email belongs to another account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrUsernameTaken is returned when the username belongs to another account.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidCredentials is returned when signin credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the account directory used by AuthService.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
}

// Session is an account together with the token issued for it.
type Session struct {
	User  *domain.User
	Token string
}

// AuthService handles authentication business logic.
type AuthService struct {
	users     UserStore
	hasher    *PasswordHasher
	jwt       *JWTManager
	dummyHash string // verified against when the email is unknown
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Printf("[auth] Warning: failed to prepare dummy password hash: %v", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		jwt:       jwt,
		dummyHash: dummyHash,
	}
}

// Signup creates a new account and issues its first session token.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (*Session, error) {
	if email == "" || username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	// Fast path for a precise message; the unique index is the real guard.
	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.newSession(user)
}

// Signin authenticates a user by email and password.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// ValidateToken verifies a session token and returns its identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
	}, nil
}

func (s *AuthService) newSession(user *domain.User) (*Session, error) {
	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
