package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cbonnaire/tidyquest/internal/handler"
	"github.com/cbonnaire/tidyquest/internal/middleware"
	"github.com/cbonnaire/tidyquest/internal/push"
	"github.com/cbonnaire/tidyquest/internal/store"
	ws "github.com/cbonnaire/tidyquest/internal/websocket"
)

// Config carries the runtime options the server needs beyond the database.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	taskH        *handler.TaskHandler
	completionH  *handler.CompletionHandler
	reportH      *handler.ReportHandler
	rankingH     *handler.RankingHandler
	userH        *handler.UserHandler
	objectiveH   *handler.ObjectiveHandler
	chatH        *handler.ChatHandler
	exportH      *handler.ExportHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	taskStore := store.NewTaskStore(db)
	completionStore := store.NewCompletionStore(db)
	rankingStore := store.NewRankingStore(db)
	podiumStore := store.NewPodiumStore(db)
	reportStore := store.NewReportStore(db)
	objectiveStore := store.NewObjectiveStore(db)
	chatStore := store.NewChatStore(db)
	congratsStore := store.NewCongratsStore(db)
	pushStore := store.NewPushStore(db)

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	invitationStore := store.NewInvitationStore(db)

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	notifier := push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))

	// Inbound chat frames are persisted before they fan back out.
	hub.OnChat(func(userID int64, userName, body string) (int64, error) {
		msg, err := chatStore.Create(userID, userName, body)
		if err != nil {
			return 0, err
		}
		return msg.ID, nil
	})

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, invitationStore, rankingStore, logger.With("component", "auth")),
		taskH:        handler.NewTaskHandler(taskStore, completionStore, hub, notifier, logger.With("component", "task")),
		completionH:  handler.NewCompletionHandler(taskStore, completionStore, userStore, congratsStore, hub, logger.With("component", "completion")),
		reportH:      handler.NewReportHandler(reportStore, completionStore, hub, logger.With("component", "report")),
		rankingH:     handler.NewRankingHandler(rankingStore, podiumStore, hub, notifier, logger.With("component", "ranking")),
		userH:        handler.NewUserHandler(userStore, rankingStore, completionStore, podiumStore, taskStore, reportStore, hub, logger.With("component", "user")),
		objectiveH:   handler.NewObjectiveHandler(objectiveStore, hub, logger.With("component", "objective")),
		chatH:        handler.NewChatHandler(chatStore, congratsStore, logger.With("component", "chat")),
		exportH:      handler.NewExportHandler(taskStore, completionStore, rankingStore, objectiveStore, logger.With("component", "export")),
		pushH:        handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Task catalog
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)

	// Completions
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.completionH.Complete)
	mux.HandleFunc("POST /api/tasks/complete-batch", s.completionH.CompleteBatch)
	mux.HandleFunc("GET /api/completions", s.completionH.List)

	// Reports
	mux.HandleFunc("POST /api/reports", s.reportH.Create)
	mux.HandleFunc("GET /api/reports", s.reportH.List)

	// Ranking and podiums
	mux.HandleFunc("GET /api/ranking", s.rankingH.Ranking)
	mux.HandleFunc("GET /api/podiums", s.rankingH.Podiums)

	// Profiles
	mux.HandleFunc("GET /api/users/{id}/stats", s.userH.Stats)
	mux.HandleFunc("GET /api/users/{id}/badges", s.userH.Badges)

	// Objectives
	mux.HandleFunc("GET /api/objectives", s.objectiveH.List)

	// Chat and congratulations
	mux.HandleFunc("GET /api/chat/messages", s.chatH.Messages)
	mux.HandleFunc("GET /api/congratulations", s.chatH.RandomCongratulation)

	// CSV export
	mux.HandleFunc("GET /api/export/ranking.csv", s.exportH.Ranking)
	mux.HandleFunc("GET /api/export/completions.csv", s.exportH.Completions)
	mux.HandleFunc("GET /api/export/tasks.csv", s.exportH.Tasks)
	mux.HandleFunc("GET /api/export/objectives.csv", s.exportH.Objectives)

	// Push notifications
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Admin routes (server-verified role)
	adminMux := http.NewServeMux()
	s.registerAdminRoutes(adminMux)
	mux.Handle("POST /api/tasks", middleware.RequireAdmin(adminMux))
	mux.Handle("PUT /api/tasks/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("DELETE /api/tasks/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("POST /api/objectives", middleware.RequireAdmin(adminMux))
	mux.Handle("PUT /api/objectives/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("DELETE /api/objectives/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("GET /api/congratulations/all", middleware.RequireAdmin(adminMux))
	mux.Handle("POST /api/congratulations", middleware.RequireAdmin(adminMux))
	mux.Handle("DELETE /api/congratulations/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("GET /api/users", middleware.RequireAdmin(adminMux))
	mux.Handle("PUT /api/users/{id}/role", middleware.RequireAdmin(adminMux))
	mux.Handle("DELETE /api/users/{id}", middleware.RequireAdmin(adminMux))
	mux.Handle("POST /api/invitations", middleware.RequireAdmin(adminMux))
	mux.Handle("GET /api/invitations", middleware.RequireAdmin(adminMux))
	mux.Handle("POST /api/admin/reset-week", middleware.RequireAdmin(adminMux))
	mux.Handle("DELETE /api/admin/completions", middleware.RequireAdmin(adminMux))
}

func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)

	mux.HandleFunc("POST /api/objectives", s.objectiveH.Create)
	mux.HandleFunc("PUT /api/objectives/{id}", s.objectiveH.Update)
	mux.HandleFunc("DELETE /api/objectives/{id}", s.objectiveH.Delete)

	mux.HandleFunc("GET /api/congratulations/all", s.chatH.ListCongratulations)
	mux.HandleFunc("POST /api/congratulations", s.chatH.CreateCongratulation)
	mux.HandleFunc("DELETE /api/congratulations/{id}", s.chatH.DeleteCongratulation)

	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("PUT /api/users/{id}/role", s.userH.UpdateRole)
	mux.HandleFunc("DELETE /api/users/{id}", s.userH.Delete)

	mux.HandleFunc("POST /api/invitations", s.authH.CreateInvitation)
	mux.HandleFunc("GET /api/invitations", s.authH.ListInvitations)

	mux.HandleFunc("POST /api/admin/reset-week", s.rankingH.ResetWeek)
	mux.HandleFunc("DELETE /api/admin/completions", s.completionH.Clear)
}
