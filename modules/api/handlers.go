package api

import (
	"errors"
	"log"
	"strings"

	"github.com/example/furniture-store-api/domain/product"
	domain "github.com/example/furniture-store-api/domain/user"
	"github.com/example/furniture-store-api/modules/auth"
	"github.com/example/furniture-store-api/modules/catalog"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth    auth.AuthPort
	catalog catalog.CatalogPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, catalogPort catalog.CatalogPort) *Handlers {
	return &Handlers{
		auth:    authPort,
		catalog: catalogPort,
	}
}

// Root answers the plain-text greeting.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.SendString("Hello World!")
}

// Health reports that the HTTP layer is up.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"module": "api",
	})
}

// ListProducts returns every product. failureMessage differs per route.
func (h *Handlers) ListProducts(failureMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := h.catalog.ListProducts(c.UserContext())
		if err != nil {
			return internalError(c, "list products", err, failureMessage)
		}
		return c.JSON(products)
	}
}

// ProductsByCategory returns the products of one category.
func (h *Handlers) ProductsByCategory(c *fiber.Ctx) error {
	products, err := h.catalog.ListByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return internalError(c, "list category", err, "Server error")
	}
	return c.JSON(products)
}

// GetProduct returns a single product by id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	p, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Product not found",
			})
		}
		return internalError(c, "get product", err, "Failed to fetch product")
	}
	return c.JSON(p)
}

// Search finds products by name. A missing query yields no products.
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.JSON(SearchResponse{Products: []product.Product{}})
	}

	products, err := h.catalog.Search(c.UserContext(), query)
	if err != nil {
		return internalError(c, "search products", err, "Failed to search products")
	}
	return c.JSON(SearchResponse{Products: products})
}

// Signup creates an account and returns it with a session token.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return badRequest(c, "All fields are required")
	}

	resp, err := h.auth.Signup(c.UserContext(), auth.SignupRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return h.handleSignupError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(SignupResponse{
		Message: "User created successfully",
		User: SignupUser{
			ID:        resp.ID,
			Email:     resp.Email,
			Username:  resp.Username,
			CreatedAt: resp.CreatedAt,
		},
		Token: resp.Token,
	})
}

// Signin authenticates an account and returns a session token.
func (h *Handlers) Signin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return invalidCredentials(c)
	}

	resp, err := h.auth.Signin(c.UserContext(), auth.SigninRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if strings.Contains(err.Error(), auth.ErrInvalidCredentials.Error()) {
			return invalidCredentials(c)
		}
		return internalError(c, "signin", err, "Server error during signin")
	}

	return c.Status(fiber.StatusOK).JSON(SigninResponse{
		Message: "Login successful",
		User: SigninUser{
			ID:       resp.ID,
			Email:    resp.Email,
			Username: resp.Username,
		},
		Token: resp.Token,
	})
}

// Protected echoes the identity attached by the auth middleware.
func (h *Handlers) Protected(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "Invalid or expired token",
		})
	}

	return c.JSON(ProtectedResponse{
		Message: "You have accessed a protected route",
		UserID:  claims.UserID,
	})
}

// handleSignupError maps signup failures to responses.
// Errors arrive as text from the service container, so they are matched by message.
func (h *Handlers) handleSignupError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, auth.ErrMissingFields.Error()):
		return badRequest(c, "All fields are required")
	case strings.Contains(errStr, auth.ErrPasswordTooLong.Error()):
		return badRequest(c, "Password must be at most 72 characters")
	case strings.Contains(errStr, auth.ErrEmailTaken.Error()):
		return conflict(c, "Email already in use")
	case strings.Contains(errStr, auth.ErrUsernameTaken.Error()):
		return conflict(c, "Username already taken")
	case strings.Contains(errStr, auth.ErrAccountExists.Error()):
		return conflict(c, "Email or username already in use")
	default:
		return internalError(c, "signup", err, "Server error during signup")
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

func conflict(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: message})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid credentials"})
}

// internalError logs the real cause and answers with a generic message.
func internalError(c *fiber.Ctx, op string, err error, message string) error {
	log.Printf("[api] %s failed: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: message})
}
