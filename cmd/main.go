// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NaiduBugata/MahoAccom/internal/auth"
	"github.com/NaiduBugata/MahoAccom/internal/config"
	"github.com/NaiduBugata/MahoAccom/internal/database"
	"github.com/NaiduBugata/MahoAccom/internal/directory"
	"github.com/NaiduBugata/MahoAccom/internal/handler"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/NaiduBugata/MahoAccom/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// ── 1. Connect to PostgreSQL and ensure the schema ────────────────────
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	participantRepo := repository.NewParticipantRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	limiter := auth.NewRateLimiter(cfg.LoginRateWindow, cfg.LoginRateMax)
	dir := directory.New(cfg.DirectoryURL, cfg.DirectoryTimeout)

	participantSvc := service.NewParticipantService(participantRepo, roomRepo)
	roomSvc := service.NewRoomService(roomRepo)
	authSvc := service.NewAuthService(userRepo, tokens)
	exportSvc := service.NewExportService(participantRepo, roomRepo)

	// ── 3. Build the router ───────────────────────────────────────────────
	router := handler.Routes(
		handler.NewAuthHandler(authSvc, limiter),
		handler.NewParticipantHandler(participantSvc, dir),
		handler.NewRoomHandler(roomSvc, participantSvc),
		handler.NewExportHandler(exportSvc),
		handler.NewAuthenticator(tokens, authSvc),
		cfg.CORSOrigins,
	)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
