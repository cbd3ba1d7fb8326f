package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/furniture-store-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Signup creates an account through the signup service.
// Service errors are returned as-is so callers can classify them.
func (a *AuthAdapter) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	var resp SignupResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"signup",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signin authenticates through the signin service.
func (a *AuthAdapter) Signin(ctx context.Context, req SigninRequest) (*SigninResponse, error) {
	var resp SigninResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"signin",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken validates a session token and returns claims.
// Verification failures come back as ErrMissingToken, ErrInvalidToken or ErrExpiredToken.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
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
		return nil, tokenErrorFromReason(resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
	}, nil
}
