package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Ashutosh-Mohanty/wowb/docs"
	"github.com/Ashutosh-Mohanty/wowb/internal/account"
	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/config"
	"github.com/Ashutosh-Mohanty/wowb/internal/db"
	"github.com/Ashutosh-Mohanty/wowb/internal/draft"
	"github.com/Ashutosh-Mohanty/wowb/internal/ledger"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/member"
	"github.com/Ashutosh-Mohanty/wowb/internal/notify"
	"github.com/Ashutosh-Mohanty/wowb/internal/server"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
	"github.com/redis/go-redis/v9"
)

// @title WOWB Gym Management API
// @version 1.0
// @description Multi-tenant gym membership and billing API.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting WOWB application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}

	mailer := notify.New(rdb, notify.Config{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
	})
	go mailer.Start(ctx)
	logger.Info("Email worker started")

	drafter := draft.New(nil)
	if cfg.GeminiAPIKey != "" {
		gen, err := draft.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini unavailable, using template drafts", "error", err)
		} else {
			drafter = draft.New(gen)
			logger.Info("Gemini drafting enabled", "model", cfg.GeminiModel)
		}
	}

	sessions := session.NewRedisStore(rdb, auth.AccessTokenTTL)

	ledgerRepo := ledger.NewRepository(database)
	ledgerService := ledger.NewService(ledgerRepo, cfg.Location)

	tenantService := tenant.NewService(tenant.NewRepository(database), mailer)

	memberService := member.NewService(
		member.NewRepository(database, ledgerRepo),
		tenantService,
		ledgerService,
		drafter,
	)

	accountService := account.NewService(
		tenantService,
		memberService,
		sessions,
		account.AdminCredentials{Username: cfg.SuperAdminUser, Password: cfg.SuperAdminPassword},
		cfg.JWTSecret,
	)

	srv := server.New(cfg, sessions, server.Handlers{
		Account: account.NewHandler(accountService),
		Tenant:  tenant.NewHandler(tenantService),
		Member:  member.NewHandler(memberService),
		Ledger:  ledger.NewHandler(ledgerService),
	}, mailer)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
