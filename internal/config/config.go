// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Cookies. SessionSecret signs the login/flash session cookie,
	// CSRFSecret keys the registration-form CSRF token. SecureCookies
	// must be true behind TLS.
	SessionSecret string
	CSRFSecret    string
	SecureCookies bool

	// Server timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Login and registration attempts allowed per client per minute.
	AuthAttemptsPerMinute int

	// Honor X-Forwarded-For/X-Real-IP when resolving the client address.
	// Leave false unless a trusted reverse proxy fronts the server.
	TrustProxyHeaders bool

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kopilka.db"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		CSRFSecret:    getEnv("CSRF_SECRET", ""),
		SecureCookies: getEnvBool("SECURE_COOKIES", false),

		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getEnvDuration("IDLE_TIMEOUT", 60*time.Second),

		AuthAttemptsPerMinute: getEnvInt("AUTH_ATTEMPTS_PER_MINUTE", 20),
		TrustProxyHeaders:     getEnvBool("TRUST_PROXY_HEADERS", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid field at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	}

	if len(c.SessionSecret) < 32 {
		errs = append(errs, "SESSION_SECRET must be at least 32 bytes")
	}
	if len(c.CSRFSecret) < 32 {
		errs = append(errs, "CSRF_SECRET must be at least 32 bytes")
	}

	if c.ReadTimeout < time.Second || c.WriteTimeout < time.Second {
		errs = append(errs, "read/write timeouts must be at least 1 second")
	}

	if c.AuthAttemptsPerMinute < 1 {
		errs = append(errs, "AUTH_ATTEMPTS_PER_MINUTE must be at least 1")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
