// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Auth scheme names accepted for LEADFLOW_AUTH_MODE.
const (
	AuthModeSession = "session"
	AuthModeToken   = "token"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"LEADFLOW_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LEADFLOW_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LEADFLOW_ENV" envDefault:"development"`
	LogLevel   string `env:"LEADFLOW_LOG_LEVEL" envDefault:"info"`

	// Storage configuration. A non-empty DatabaseURL selects Postgres;
	// otherwise the embedded SQLite file at DBPath is used.
	DatabaseURL string `env:"LEADFLOW_DATABASE_URL"`
	DBPath      string `env:"LEADFLOW_DB_PATH" envDefault:"./data/leadflow.db"`

	// Admin authentication
	AdminUser     string        `env:"LEADFLOW_ADMIN_USER" envDefault:"admin"`
	AdminPassHash string        `env:"LEADFLOW_ADMIN_PASS_HASH"` // argon2id hash; admin disabled when empty
	SessionSecret string        `env:"LEADFLOW_SESSION_SECRET,required"`
	AuthMode      string        `env:"LEADFLOW_AUTH_MODE" envDefault:"session"` // session or token
	TokenTTL      time.Duration `env:"LEADFLOW_TOKEN_TTL" envDefault:"12h"`

	// Turnstile configuration
	TurnstileSecret string `env:"LEADFLOW_TURNSTILE_SECRET"` // captcha disabled when empty

	// Email notification configuration
	EmailProvider  string `env:"LEADFLOW_EMAIL_PROVIDER" envDefault:"smtp"` // smtp or sendgrid
	SMTPHost       string `env:"LEADFLOW_SMTP_HOST"`
	SMTPPort       int    `env:"LEADFLOW_SMTP_PORT" envDefault:"587"`
	SMTPUser       string `env:"LEADFLOW_SMTP_USER"`
	SMTPPass       string `env:"LEADFLOW_SMTP_PASS"`
	SendGridAPIKey string `env:"LEADFLOW_SENDGRID_API_KEY"`
	EmailFrom      string `env:"LEADFLOW_EMAIL_FROM"`
	EmailTo        string `env:"LEADFLOW_EMAIL_TO"`

	// Rate limiting for the public intake endpoint
	LeadRateBudget int           `env:"LEADFLOW_LEAD_RATE_BUDGET" envDefault:"20"`
	LeadRateWindow time.Duration `env:"LEADFLOW_LEAD_RATE_WINDOW" envDefault:"15m"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UsePostgres returns true if a networked Postgres backend is configured.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// UseSessionAuth returns true when admin auth uses server-side sessions
// rather than signed bearer tokens.
func (c Config) UseSessionAuth() bool {
	return c.AuthMode == AuthModeSession
}

// MinSessionSecretLength is the minimum required length for the session secret,
// which also signs bearer tokens in token mode.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("LEADFLOW_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("LEADFLOW_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("LEADFLOW_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.AuthMode != AuthModeSession && cfg.AuthMode != AuthModeToken {
		return nil, fmt.Errorf("LEADFLOW_AUTH_MODE must be %q or %q, got %q",
			AuthModeSession, AuthModeToken, cfg.AuthMode)
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("LEADFLOW_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	if cfg.LeadRateBudget <= 0 || cfg.LeadRateWindow <= 0 {
		return nil, fmt.Errorf("lead rate limit must be positive, got %d per %s",
			cfg.LeadRateBudget, cfg.LeadRateWindow)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
