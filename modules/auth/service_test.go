package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/example/furniture-store-api/domain/user"
	"golang.org/x/crypto/bcrypt"
)

func setupTestService(t *testing.T) (*AuthService, *UserRepository, *JWTManager) {
	t.Helper()

	repo := setupTestRepository(t)
	manager := NewJWTManager(testJWTConfig())
	return NewAuthService(repo, NewPasswordHasherWithCost(bcrypt.MinCost), manager), repo, manager
}

// racingStore simulates a concurrent signup that wins between the pre-check and the insert.
type racingStore struct {
	*UserRepository
}

func (s racingStore) FindByEmailOrUsername(context.Context, string, string) (*domain.User, error) {
	return nil, ErrUserNotFound
}

func TestAuthService_Signup(t *testing.T) {
	svc, repo, manager := setupTestService(t)
	ctx := context.Background()

	session, err := svc.Signup(ctx, "ada@example.com", "ada", "correct horse")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if session.User.ID == "" || session.User.CreatedAt.IsZero() {
		t.Errorf("Signup() user = %+v, want id and creation time", session.User)
	}
	if session.User.PasswordHash == "correct horse" || !strings.HasPrefix(session.User.PasswordHash, "$2") {
		t.Errorf("Signup() stored %q, want a bcrypt hash", session.User.PasswordHash)
	}

	claims, err := manager.ValidateToken(session.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Errorf("token UserID = %v, want %v", claims.UserID, session.User.ID)
	}

	stored, err := repo.FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if stored.ID != session.User.ID {
		t.Errorf("stored ID = %v, want %v", stored.ID, session.User.ID)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _, _ := setupTestService(t)

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{"missing email", "", "ada", "pw", ErrMissingFields},
		{"missing username", "ada@example.com", "", "pw", ErrMissingFields},
		{"missing password", "ada@example.com", "ada", "", ErrMissingFields},
		{"password over 72 bytes", "ada@example.com", "ada", strings.Repeat("p", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.email, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_Signup_Duplicates(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "ada@example.com", "ada", "pw"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		username string
		wantErr  error
	}{
		{"email already used", "ada@example.com", "someone-else", ErrEmailTaken},
		{"username already used", "other@example.com", "ada", ErrUsernameTaken},
		{"both already used", "ada@example.com", "ada", ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.email, tt.username, "pw")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_Signup_RaceReportsConflict(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "ada@example.com", "ada", "pw"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	racing := NewAuthService(racingStore{repo}, svc.hasher, svc.jwt)
	_, err := racing.Signup(ctx, "ada2@example.com", "ada", "pw")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthService_Signin(t *testing.T) {
	svc, _, manager := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "ada@example.com", "ada", "correct horse")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	session, err := svc.Signin(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Signin() error = %v", err)
	}
	if session.User.ID != created.User.ID {
		t.Errorf("Signin() user = %v, want %v", session.User.ID, created.User.ID)
	}

	claims, err := manager.ValidateToken(session.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != created.User.ID {
		t.Errorf("token UserID = %v, want %v", claims.UserID, created.User.ID)
	}
}

func TestAuthService_Signin_InvalidCredentials(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "ada@example.com", "ada", "correct horse"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "battery staple"},
		{"unknown email", "bob@example.com", "correct horse"},
		{"empty password", "ada@example.com", ""},
		{"empty email", "", "correct horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signin(ctx, tt.email, tt.password)
			if err != ErrInvalidCredentials {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc, _, manager := setupTestService(t)
	ctx := context.Background()

	token, err := manager.GenerateToken("user-789")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-789" {
		t.Errorf("claims.UserID = %v, want user-789", claims.UserID)
	}

	if _, err := svc.ValidateToken(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
	if _, err := svc.ValidateToken(ctx, "junk"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenErrorReason_RoundTrip(t *testing.T) {
	for _, err := range []error{ErrMissingToken, ErrInvalidToken, ErrExpiredToken} {
		if got := tokenErrorFromReason(tokenErrorReason(err)); got != err {
			t.Errorf("round trip of %v = %v", err, got)
		}
	}

	if got := tokenErrorFromReason("something else"); got != ErrInvalidToken {
		t.Errorf("unknown reason = %v, want ErrInvalidToken", got)
	}
}

func TestAuthService_Signin_UnknownEmailComparesDummyHash(t *testing.T) {
	svc, _, _ := setupTestService(t)

	cost, err := bcrypt.Cost([]byte(svc.dummyHash))
	if err != nil {
		t.Fatalf("dummy hash is not a bcrypt hash: %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("dummy hash cost = %d, want %d", cost, bcrypt.MinCost)
	}

	// Even a password matching the dummy hash must not authenticate.
	hash, err := svc.hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	svc.dummyHash = hash

	_, err = svc.Signin(context.Background(), "nobody@example.com", "secret123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Signin() error = %v, want %v", err, ErrInvalidCredentials)
	}
}
