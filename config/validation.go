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

// minProductionSecretLen is the shortest JWT secret accepted outside development.
const minProductionSecretLen = 32

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres driver")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for the sqlite driver")
		}
		if cfg.Environment.IsProduction() {
			add("DB_DRIVER", "sqlite is not allowed in production")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	} else if cfg.Environment == Production || cfg.Environment == CI {
		if len(cfg.JWTSecret) < minProductionSecretLen {
			add("JWT_SECRET", fmt.Sprintf("must be at least %d characters", minProductionSecretLen))
		}
	}

	if cfg.Environment.IsProduction() {
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			add("DB_SSL_MODE", "must not be disabled in production")
		}
	}

	if cfg.SessionTTL <= 0 {
		add("SESSION_TTL", "must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
