// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/leadflow/internal/auth"
	"github.com/olegiv/leadflow/internal/captcha"
	"github.com/olegiv/leadflow/internal/config"
	"github.com/olegiv/leadflow/internal/handler"
	"github.com/olegiv/leadflow/internal/intake"
	"github.com/olegiv/leadflow/internal/mailer"
	"github.com/olegiv/leadflow/internal/middleware"
	"github.com/olegiv/leadflow/internal/session"
	"github.com/olegiv/leadflow/internal/store"
	"github.com/olegiv/leadflow/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func versionInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

// Login attempts get a tighter budget than lead submissions.
const (
	loginRateBudget = 10
	loginRateWindow = 15 * time.Minute
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.String("hash", "", "Print the argon2id hash of the given password and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "leadflow - lead capture service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_SESSION_SECRET    Signing/session key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_DATABASE_URL      Postgres URL; SQLite is used when unset\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_DB_PATH           SQLite database path (default: ./data/leadflow.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_ADMIN_USER        Admin username (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_ADMIN_PASS_HASH   Admin password hash; generate with -hash\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_AUTH_MODE         Admin auth scheme: session|token (default: session)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_TURNSTILE_SECRET  Turnstile secret; captcha is off when unset\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LEADFLOW_ENV               Environment: development|production (default: development)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(versionInfo())
		os.Exit(0)
	}

	// Handle -hash flag: operator convenience for LEADFLOW_ADMIN_PASS_HASH
	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(hash)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Open storage backend
	var (
		st     store.Store
		driver string
	)
	if cfg.UsePostgres() {
		slog.Info("initializing database", "backend", "postgres")
		st, err = store.OpenPostgres(cfg.DatabaseURL)
		driver = "postgres"
	} else {
		// Ensure data directory exists
		if mkErr := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); mkErr != nil {
			return fmt.Errorf("creating data directory: %w", mkErr)
		}
		slog.Info("initializing database", "backend", "sqlite", "path", cfg.DBPath)
		st, err = store.OpenSQLite(cfg.DBPath)
		driver = "sqlite"
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	// Run migrations
	slog.Info("running database migrations")
	if err := st.Migrate(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Admin credentials and gate
	creds := auth.Credentials{
		Username:     cfg.AdminUser,
		PasswordHash: cfg.AdminPassHash,
	}
	if !creds.Configured() {
		slog.Warn("admin credentials not configured; admin endpoints will reject logins")
	}

	var gate auth.Gate
	var sessionManager *scs.SessionManager
	if cfg.UseSessionAuth() {
		sessionManager = session.New(st.DB(), driver, cfg.TokenTTL, cfg.IsDevelopment())
		gate = auth.NewSessionGate(sessionManager)
		slog.Info("admin auth mode", "mode", "session")
	} else {
		gate = auth.NewTokenGate([]byte(cfg.SessionSecret), cfg.TokenTTL)
		slog.Info("admin auth mode", "mode", "token", "ttl", cfg.TokenTTL)
	}

	// Captcha and email notification
	verifier := captcha.New(cfg.TurnstileSecret)
	if !verifier.Enabled() {
		slog.Warn("captcha verification disabled; submissions are accepted without a challenge")
	}

	ml := mailer.New(mailer.Options{
		Provider:       cfg.EmailProvider,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUser:       cfg.SMTPUser,
		SMTPPass:       cfg.SMTPPass,
		SendGridAPIKey: cfg.SendGridAPIKey,
		From:           cfg.EmailFrom,
		To:             cfg.EmailTo,
	})
	if !ml.Configured() {
		slog.Warn("email notifications not configured; leads are stored without notifying")
	}

	// Handlers
	pipeline := intake.New(st, verifier, ml)
	leadHandler := handler.NewLeadHandler(pipeline)
	leadsHandler := handler.NewLeadsHandler(st)
	authHandler := handler.NewAuthHandler(creds, gate)
	healthHandler := handler.NewHealthHandler(versionInfo())

	// Rate limiters
	leadLimiter := middleware.NewRateLimiter(cfg.LeadRateBudget, cfg.LeadRateWindow)
	loginLimiter := middleware.NewRateLimiter(loginRateBudget, loginRateWindow)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.UseSessionAuth() {
		r.Use(sessionManager.LoadAndSave)
	}

	r.Route("/api", func(r chi.Router) {
		r.With(leadLimiter.Middleware()).Post("/lead", leadHandler.Submit)
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(gate))
			r.Get("/leads", leadsHandler.List)
			r.Get("/leads/export", leadsHandler.Export)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimiter.Middleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second, // Mitigates slowloris attacks
		MaxHeaderBytes:    1 << 20,          // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
