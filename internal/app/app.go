package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"rag-chat/frontend/internal/api"
	"rag-chat/frontend/internal/config"
	"rag-chat/frontend/internal/database"
	"rag-chat/frontend/internal/llm"
	"rag-chat/frontend/internal/repository"
	"rag-chat/frontend/internal/service"
)

const (
	backendRetryInterval = 3 * time.Second
	shutdownTimeout      = 10 * time.Second
)

// App holds the wired application.
type App struct {
	DB            *sql.DB
	Server        *http.Server
	Conversations *service.ConversationService
	Settings      *service.SettingsService
	Provider      llm.Provider
}

// NewApp opens the settings database and wires every service and handler.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	provider := llm.NewBackendProvider(cfg.StreamPath, cfg.MaxEventBytes)
	settingsService := service.NewSettingsService(db, provider)

	appSettings, err := settingsService.InitAndGet(context.Background(), &service.Settings{
		BackendURL:   cfg.BackendURL,
		SystemPrompt: cfg.SystemPrompt,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize application settings: %w", err)
	}
	slog.Info("Loaded application settings", "backend_url", appSettings.BackendURL)

	conversationService := service.NewConversationService(repository.NewMemoryRepository(), provider, settingsService)
	backendService := service.NewBackendService(provider, settingsService)

	chatHandler := api.NewChatHandler(conversationService, settingsService)
	backendHandler := api.NewBackendHandler(backendService)
	router := api.NewRouter(chatHandler, backendHandler)

	// Request contexts end when shutdown starts so open event streams return.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // streaming endpoints
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	return &App{
		DB:            db,
		Server:        server,
		Conversations: conversationService,
		Settings:      settingsService,
		Provider:      provider,
	}, nil
}

// WaitForBackend probes the backend URL stored in the settings.
func (a *App) WaitForBackend(ctx context.Context, attempts int, interval time.Duration) bool {
	settings, err := a.Settings.Get(ctx)
	if err != nil {
		slog.Error("Failed to read settings for backend probe", "error", err)
		return false
	}
	return waitForBackend(ctx, a.Provider, settings.BackendURL, attempts, interval)
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not configured yet.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if !app.WaitForBackend(ctx, cfg.BackendWaitAttempts, backendRetryInterval) {
		slog.Warn("Backend is not reachable yet, starting anyway.")
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		serverErr <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// waitForBackend polls the backend health endpoint up to attempts times.
// It reports whether the backend answered.
func waitForBackend(ctx context.Context, provider llm.Provider, backendURL string, attempts int, interval time.Duration) bool {
	slog.Info("Waiting for backend to be ready...", "url", backendURL)
	for i := 1; i <= attempts; i++ {
		_, err := provider.CheckHealth(ctx, backendURL)
		if err == nil {
			slog.Info("Backend is ready.")
			return true
		}
		slog.Debug("Backend not ready yet", "attempt", i, "url", backendURL, "error", err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return false
}
