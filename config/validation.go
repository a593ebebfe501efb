package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirement is a single check applied to a loaded configuration
type requirement struct {
	field string
	msg   string
	ok    func(*Config) bool
}

var (
	knownDriver = requirement{"STORE_DRIVER", "must be one of postgres, sqlite, mongo, memory", func(c *Config) bool {
		switch c.StoreDriver {
		case StorePostgres, StoreSQLite, StoreMongo, StoreMemory:
			return true
		}
		return false
	}}
	positiveRateLimit = requirement{"SCALE_RATE_LIMIT", "must be positive", func(c *Config) bool {
		return c.ScaleRateLimit > 0
	}}
	hasJWTSecret = requirement{"JWT_SECRET", "is required", func(c *Config) bool {
		return c.JWTSecret != ""
	}}
	hasLLMKey = requirement{"LLM_API_KEY", "is required", func(c *Config) bool {
		return c.LLMAPIKey != ""
	}}
	persistentStore = requirement{"STORE_DRIVER", "memory store is not allowed", func(c *Config) bool {
		return c.StoreDriver != StoreMemory
	}}
	hasDBPassword = requirement{"DB_PASSWORD", "is required for the postgres store", func(c *Config) bool {
		return c.StoreDriver != StorePostgres || c.DBPassword != ""
	}}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Development: {knownDriver, positiveRateLimit},
		Test:        {knownDriver, positiveRateLimit},
		CI:          {knownDriver, positiveRateLimit, hasJWTSecret},
		Production:  {knownDriver, positiveRateLimit, hasJWTSecret, hasLLMKey, persistentStore, hasDBPassword},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string
	for _, req := range requirements[cfg.Environment] {
		if !req.ok(cfg) {
			errors = append(errors, ValidationError{Field: req.field, Message: req.msg}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
