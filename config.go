package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/furniture-store-api/modules/auth"
	"github.com/example/furniture-store-api/modules/ratelimit"
	"github.com/example/furniture-store-api/store"
)

// Config holds the process configuration, read from the environment.
type Config struct {
	HTTPPort     int
	Store        store.Config
	QueryTimeout time.Duration
	Auth         auth.Config
	RedisAddr    string
	RateLimit    ratelimit.Config
}

// loadConfig reads configuration from environment variables.
// A missing JWT_SECRET is an error.
func loadConfig() (Config, error) {
	queryTimeout := getEnvDuration("QUERY_TIMEOUT", auth.DefaultQueryTimeout)

	jwtConfig := auth.DefaultJWTConfig()
	jwtConfig.SecretKey = os.Getenv("JWT_SECRET")
	jwtConfig.Issuer = getEnv("JWT_ISSUER", jwtConfig.Issuer)

	rateLimit := ratelimit.DefaultConfig()
	rateLimit.RequestsPerWindow = getEnvInt("RATE_LIMIT_REQUESTS", rateLimit.RequestsPerWindow)
	rateLimit.WindowSize = getEnvDuration("RATE_LIMIT_WINDOW", rateLimit.WindowSize)

	cfg := Config{
		HTTPPort: getEnvInt("HTTP_PORT", 3000),
		Store: store.Config{
			Path:  getEnv("DB_PATH", "furniture_store.db"),
			Debug: getEnvBool("DB_DEBUG", false),
		},
		QueryTimeout: queryTimeout,
		Auth: auth.Config{
			JWT:          jwtConfig,
			BcryptCost:   getEnvInt("BCRYPT_COST", auth.DefaultBcryptCost),
			QueryTimeout: queryTimeout,
		},
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RateLimit: rateLimit,
	}

	if err := cfg.Auth.JWT.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
