package ratelimit

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis client backing the limiter.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	redisAddr  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a rate limiting module. The middleware is usable right away;
// Start only verifies that Redis answers.
func NewModule(redisAddr string, config Config) *Module {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	return &Module{
		client:     client,
		middleware: NewMiddleware(NewSlidingWindowLimiter(client, config)),
		redisAddr:  redisAddr,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start checks the Redis connection.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Printf("[ratelimit] Connected to Redis at %s", m.redisAddr)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		log.Printf("[ratelimit] Error closing Redis connection: %v", err)
	}
	log.Println("[ratelimit] Module stopped")
	return nil
}

// Health reports whether Redis is reachable.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis": m.redisAddr,
		},
	}
}

// GetMiddleware returns the rate limiting middleware.
func (m *Module) GetMiddleware() *Middleware {
	return m.middleware
}
