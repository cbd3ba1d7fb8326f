package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/furniture-store-api/modules/auth"
	"github.com/example/furniture-store-api/modules/catalog"
	"github.com/example/furniture-store-api/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app            *fiber.App
	port           int
	authAdapter    auth.AuthPort
	catalogAdapter catalog.CatalogPort
	rateLimit      *ratelimit.Module
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on port.
func NewModule(port int) *APIModule {
	return &APIModule{port: port}
}

// SetRateLimitModule enables per-IP limiting of the auth routes.
func (m *APIModule) SetRateLimitModule(rl *ratelimit.Module) {
	m.rateLimit = rl
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "catalog"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "catalog":
		m.catalogAdapter = catalog.NewCatalogAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.catalogAdapter == nil {
		return fmt.Errorf("catalog dependency not set")
	}

	var limiter fiber.Handler
	if m.rateLimit != nil {
		limiter = m.rateLimit.GetMiddleware().IPRateLimit()
	}

	m.app = newApp(NewHandlers(m.authAdapter, m.catalogAdapter), m.authAdapter, limiter)

	addr := fmt.Sprintf(":%d", m.port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":       m.port,
			"rate_limit": m.rateLimit != nil,
		},
	}
}

// newApp builds the Fiber application with middleware and routes.
// rateLimit may be nil.
func newApp(handlers *Handlers, authPort auth.AuthPort, rateLimit fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		UnescapePath:          true, // path params such as :category arrive decoded
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	registerRoutes(app, handlers, authPort, rateLimit)
	return app
}

// registerRoutes configures all API routes.
func registerRoutes(app *fiber.App, handlers *Handlers, authPort auth.AuthPort, rateLimit fiber.Handler) {
	app.Get("/", handlers.Root)
	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	// Catalog
	api.Get("/products", handlers.ListProducts("Failed to fetch products"))
	api.Get("/all-products", handlers.ListProducts("Failed to fetch all products"))
	api.Get("/category/:category", handlers.ProductsByCategory)
	api.Get("/product/:id", handlers.GetProduct)
	api.Get("/search", handlers.Search)

	// Auth
	api.Post("/signup", limited(rateLimit, handlers.Signup)...)
	api.Post("/signin", limited(rateLimit, handlers.Signin)...)

	api.Get("/protected", AuthMiddleware(authPort), handlers.Protected)
}

func limited(rateLimit fiber.Handler, h fiber.Handler) []fiber.Handler {
	if rateLimit == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{rateLimit, h}
}

// customErrorHandler handles Fiber errors such as unknown routes.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("[api] Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
