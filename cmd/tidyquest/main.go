package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbonnaire/tidyquest/internal/database"
	"github.com/cbonnaire/tidyquest/internal/logging"
	"github.com/cbonnaire/tidyquest/internal/model"
	"github.com/cbonnaire/tidyquest/internal/server"
	"github.com/cbonnaire/tidyquest/internal/store"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(os.Getenv("TIDYQUEST_LOG_LEVEL"), os.Getenv("TIDYQUEST_LOG_FORMAT"))

	port := env("TIDYQUEST_PORT", "8080")
	dbPath := env("TIDYQUEST_DB_PATH", "tidyquest.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seedFirstInvitation(db, logger); err != nil {
		logger.Error("seed first invitation", "error", err)
		os.Exit(1)
	}

	cfg := server.Config{
		VAPIDPublicKey:  os.Getenv("TIDYQUEST_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("TIDYQUEST_VAPID_PRIVATE_KEY"),
	}
	srv := server.New(db, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupLoop(ctx, srv, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// seedFirstInvitation mints an admin invitation code when the user table
// is empty, so the very first account can register. The code is logged
// once; registering with it consumes it.
func seedFirstInvitation(db *sql.DB, logger *slog.Logger) error {
	users, err := store.NewUserStore(db).List()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	invitation, err := store.NewInvitationStore(db).Create("", model.RoleAdmin, nil)
	if err != nil {
		return err
	}
	logger.Info("no users yet; register the first admin with this invitation code",
		"code", invitation.Code)
	return nil
}

// cleanupLoop prunes expired sessions and stale rate-limit buckets.
func cleanupLoop(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				logger.Error("session cleanup", "error", err)
			} else if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
			srv.RateLimiter().Cleanup()
		}
	}
}
