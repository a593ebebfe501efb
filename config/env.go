package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch strings.ToLower(os.Getenv("ENV")) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction returns true for the production environment
func (e Environment) IsProduction() bool {
	return e == Production
}

func (e Environment) String() string {
	return string(e)
}
