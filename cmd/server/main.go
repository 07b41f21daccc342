package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamemates/server/internal/config"
	"github.com/gamemates/server/internal/database"
	"github.com/gamemates/server/internal/handlers"
	"github.com/gamemates/server/internal/logging"
	"github.com/gamemates/server/internal/middleware"
	"github.com/gamemates/server/internal/services"
	"github.com/gamemates/server/internal/store"
	memorystore "github.com/gamemates/server/internal/store/memory"
	postgresstore "github.com/gamemates/server/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("Starting GameMates server...", map[string]interface{}{
		"env":     cfg.Server.Environment,
		"backend": cfg.Store.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var dataStore store.Store
	switch cfg.Store.Backend {
	case "postgres":
		logger.Info("Connecting to PostgreSQL", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := database.NewPostgresDB(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()

		logger.Info("Running database migrations...")
		migrator, err := database.NewMigrator(cfg.Database.DSN(), cfg.Store.MigrationsPath)
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
		_ = migrator.Close()
		logger.Info("Migrations completed")

		dataStore = postgresstore.New(db.Pool)
	default:
		memStore := memorystore.New()
		go memStore.Janitor(ctx)
		dataStore = memStore
	}

	var redisClient *redis.Client
	var redisDB *database.RedisDB
	if cfg.Redis.Enabled {
		logger.Info("Connecting to Redis", map[string]interface{}{"addr": cfg.Redis.Addr()})
		redisDB, err = database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		redisClient = redisDB.Client
	}

	// Services
	userService := services.NewUserService(dataStore)
	authService := services.NewAuthService(dataStore, redisClient)
	emailService := services.NewEmailService(&cfg.Email, dataStore)
	socialService := services.NewSocialService(dataStore)
	notificationService := services.NewNotificationService(dataStore)
	conversationService := services.NewConversationService(dataStore, socialService, socialService)
	messageService := services.NewMessageService(dataStore, notificationService)
	postService := services.NewPostService(dataStore)

	// Handlers
	var redisChecker handlers.HealthChecker
	if redisDB != nil {
		redisChecker = redisDB
	}
	healthHandler := handlers.NewHealthHandler(storeHealth{dataStore}, redisChecker)
	authHandler := handlers.NewAuthHandler(userService, authService, emailService, cfg.Server.Secure)
	userHandler := handlers.NewUserHandler(userService, socialService, notificationService)
	postHandler := handlers.NewPostHandler(postService)
	conversationHandler := handlers.NewConversationHandler(conversationService, messageService, notificationService)
	messageRequestHandler := handlers.NewMessageRequestHandler(conversationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	authRateLimiter := middleware.NewAuthRateLimiter(redisClient)

	requireAuth := authMiddleware.RequireAuth

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /api/auth/register", authRateLimiter.Limit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authRateLimiter.Limit(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.HandleFunc("POST /api/auth/verify-email", authHandler.VerifyEmail)
	mux.Handle("POST /api/auth/resend-verification", requireAuth(http.HandlerFunc(authHandler.ResendVerification)))

	// User endpoints
	mux.Handle("GET /api/users/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/users/me", requireAuth(http.HandlerFunc(userHandler.UpdateMe)))
	mux.Handle("GET /api/users/me/blocked", requireAuth(http.HandlerFunc(userHandler.Blocked)))
	mux.HandleFunc("GET /api/users/search", userHandler.Search)
	mux.HandleFunc("GET /api/users/{username}", userHandler.Profile)
	mux.Handle("POST /api/users/{username}/follow", requireAuth(http.HandlerFunc(userHandler.Follow)))
	mux.Handle("DELETE /api/users/{username}/follow", requireAuth(http.HandlerFunc(userHandler.Unfollow)))
	mux.Handle("POST /api/users/{username}/block", requireAuth(http.HandlerFunc(userHandler.Block)))
	mux.Handle("DELETE /api/users/{username}/block", requireAuth(http.HandlerFunc(userHandler.Unblock)))
	mux.HandleFunc("GET /api/users/{username}/followers", userHandler.Followers)
	mux.HandleFunc("GET /api/users/{username}/following", userHandler.Following)

	// Post endpoints
	mux.HandleFunc("GET /api/posts", postHandler.Feed)
	mux.Handle("POST /api/posts", requireAuth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("DELETE /api/posts/{id}", requireAuth(http.HandlerFunc(postHandler.Delete)))

	// Conversation endpoints
	mux.Handle("GET /api/conversations", requireAuth(http.HandlerFunc(conversationHandler.List)))
	mux.Handle("POST /api/conversations", requireAuth(http.HandlerFunc(conversationHandler.Start)))
	mux.Handle("GET /api/conversations/{id}/messages", requireAuth(http.HandlerFunc(conversationHandler.Messages)))
	mux.Handle("POST /api/conversations/{id}/messages", requireAuth(http.HandlerFunc(conversationHandler.SendMessage)))
	mux.Handle("GET /api/messages/unread-count", requireAuth(http.HandlerFunc(conversationHandler.UnreadCount)))

	// Message request endpoints
	mux.Handle("GET /api/message-requests", requireAuth(http.HandlerFunc(messageRequestHandler.List)))
	mux.Handle("GET /api/message-requests/count", requireAuth(http.HandlerFunc(messageRequestHandler.Count)))
	mux.Handle("POST /api/message-requests/{id}", requireAuth(http.HandlerFunc(messageRequestHandler.Accept)))
	mux.Handle("DELETE /api/message-requests/{id}", requireAuth(http.HandlerFunc(messageRequestHandler.Decline)))

	// Notification endpoints
	mux.Handle("GET /api/notifications", requireAuth(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("GET /api/notifications/unread-count", requireAuth(http.HandlerFunc(notificationHandler.UnreadCount)))
	mux.Handle("PUT /api/notifications/read-all", requireAuth(http.HandlerFunc(notificationHandler.MarkAllRead)))
	mux.Handle("PUT /api/notifications/{id}/read", requireAuth(http.HandlerFunc(notificationHandler.MarkRead)))

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	go func() {
		<-ctx.Done()
		logger.Info("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{"addr": addr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

// storeHealth adapts store.Store's Ping to the health handler's interface.
type storeHealth struct {
	store store.Store
}

func (s storeHealth) Health(ctx context.Context) error { return s.store.Ping(ctx) }
