package api

import (
	"time"

	"github.com/example/furniture-store-api/domain/product"
)

// SignupRequest represents a signup request body.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninRequest represents a signin request body.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupUser is the public view of a freshly created account.
type SignupUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignupResponse represents a successful signup.
type SignupResponse struct {
	Message string     `json:"message"`
	User    SignupUser `json:"user"`
	Token   string     `json:"token"`
}

// SigninUser is the public view of an authenticated account.
type SigninUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SigninResponse represents a successful signin.
type SigninResponse struct {
	Message string     `json:"message"`
	User    SigninUser `json:"user"`
	Token   string     `json:"token"`
}

// ProtectedResponse is returned by the protected route.
type ProtectedResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Products []product.Product `json:"products"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
