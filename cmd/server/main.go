// Folio - portfolio site with an admin editor, chat assistant and contact relay.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ashureev/folio/internal/admin"
	"github.com/ashureev/folio/internal/api"
	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/chat"
	"github.com/ashureev/folio/internal/config"
	"github.com/ashureev/folio/internal/contact"
	"github.com/ashureev/folio/internal/content"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/middleware"
	"github.com/ashureev/folio/internal/site"
	"github.com/ashureev/folio/internal/store"
	"github.com/ashureev/folio/internal/sweeper"
	"github.com/ashureev/folio/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	seed, err := content.LoadSeed(cfg.SeedPath)
	if err != nil {
		slog.Error("Failed to load seed content", "path", cfg.SeedPath, "error", err)
		os.Exit(1)
	}

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath, store.Options{
		Defaults: seed,
		Credentials: &domain.Credentials{
			Username: cfg.Admin.DefaultUsername,
			Password: cfg.Admin.DefaultPassword,
		},
	})
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	// Chat assistant. Without an API key every turn gets the static error reply.
	var gen chat.Generator = chat.DisabledGenerator{}
	if cfg.Chat.APIKey != "" {
		gemini, err := chat.NewGeminiGenerator(context.Background(), chat.GeminiConfig{
			APIKey:      cfg.Chat.APIKey,
			Model:       cfg.Chat.Model,
			Temperature: float32(cfg.Chat.Temperature),
			TopP:        float32(cfg.Chat.TopP),
		})
		if err != nil {
			slog.Warn("Failed to initialize Gemini, chat replies will be disabled", "error", err)
		} else {
			gen = gemini
			slog.Info("Chat assistant enabled", "model", cfg.Chat.Model, "prompt_source", cfg.Chat.PromptSource)
		}
	} else {
		slog.Info("Chat assistant disabled (GEMINI_API_KEY not set)")
	}

	var chatSvc *chat.Service
	if cfg.Chat.PromptSource == config.PromptSourceLive {
		chatSvc = chat.NewLiveService(gen, repo, cfg.Chat.HistoryLimit)
	} else {
		chatSvc = chat.NewService(gen, seed, cfg.Chat.HistoryLimit)
	}

	// Initialize services.
	limiter := chat.NewRateLimiter(cfg.Chat.RatePerMin, cfg.Chat.RateBurst)
	chatSessions := chat.NewSessionManager()
	adminSessions := auth.NewManager(cfg.Admin.SessionTTL)

	resolver := site.NewResolver(repo, cfg.PlaceholderURL)
	renderer, err := site.NewRenderer(resolver)
	if err != nil {
		slog.Error("Failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, resolver)
	healthHandler := api.NewHealthHandler(repo)
	portfolioHandler := api.NewPortfolioHandler(baseHandler, adminSessions)
	imageHandler := api.NewImageHandler(baseHandler)
	siteHandler := site.NewHandler(repo, renderer)
	chatHandler := chat.NewHandler(chatSvc, limiter, chatSessions, wsOriginPatterns(cfg))
	contactHandler := contact.NewHandler(repo, contact.NewTelegramClient(cfg.Telegram.APIURL), contact.Fallback{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	})
	adminHandler := admin.NewHandler(repo, adminSessions, renderer, admin.Config{
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookies:  cfg.Admin.SecureCookies,
	})

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(auth.Middleware(adminSessions))

	// Public routes.
	healthHandler.RegisterHealth(r)
	siteHandler.RegisterRoutes(r)
	portfolioHandler.RegisterRoutes(r)
	imageHandler.RegisterRoutes(r)
	chatHandler.RegisterRoutes(r)
	contactHandler.RegisterRoutes(r)
	adminHandler.RegisterRoutes(r)

	// Embedded stylesheets and scripts.
	r.Handle("/static/*", web.StaticHandler())

	// WriteTimeout stays 0 so chat WebSockets are not cut off.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	sw := sweeper.New(sweeper.Config{
		Interval:   cfg.SweepInterval,
		ImageGrace: cfg.ImageGrace,
	}, repo, adminSessions, limiter)
	g.Go(func() error {
		return sw.Run(gCtx)
	})

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down gracefully...")

		chatSessions.CloseAll("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// wsOriginPatterns maps the configured frontend origin to the host patterns
// the WebSocket handshake accepts.
func wsOriginPatterns(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return nil
	}
	origins := cfg.AllowedOrigins()
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		patterns = append(patterns, strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://"))
	}
	return patterns
}
