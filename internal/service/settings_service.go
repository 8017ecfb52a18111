package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	app_errors "rag-chat/frontend/internal/errors"
	"rag-chat/frontend/internal/llm"
)

const (
	keyBackendURL   = "backend_url"
	keySystemPrompt = "system_prompt"
)

const upsertSettingQuery = "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"

// Settings holds the runtime settings stored in SQLite.
type Settings struct {
	BackendURL   string `json:"backend_url" validate:"required,url" example:"http://localhost:8080"`
	SystemPrompt string `json:"system_prompt" validate:"max=4000"`
}

type SettingsService struct {
	db  *sql.DB
	llm llm.Provider
}

func NewSettingsService(db *sql.DB, llmProvider llm.Provider) *SettingsService {
	return &SettingsService{db: db, llm: llmProvider}
}

// InitAndGet returns the stored settings, seeding them from defaults on first start.
func (s *SettingsService) InitAndGet(ctx context.Context, defaults *Settings) (*Settings, error) {
	settings, err := s.Get(ctx)
	if err == nil {
		slog.Info("Found existing settings in database.")
		return settings, nil
	}
	if !errors.Is(err, app_errors.ErrNotFound) {
		return nil, err
	}

	slog.Info("No settings found in database, storing bootstrap defaults.", "backend_url", defaults.BackendURL)
	if err := s.saveToDB(ctx, defaults); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	initial := *defaults
	return &initial, nil
}

// Get reads the current settings.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings stored", app_errors.ErrNotFound)
	}

	return &Settings{
		BackendURL:   values[keyBackendURL],
		SystemPrompt: values[keySystemPrompt],
	}, nil
}

// Save stores settings after checking that the backend they point at answers.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	if _, err := s.llm.CheckHealth(ctx, settings.BackendURL); err != nil {
		return fmt.Errorf("%w: backend '%s' is not reachable: %s", app_errors.ErrValidation, settings.BackendURL, err.Error())
	}
	return s.saveToDB(ctx, settings)
}

func (s *SettingsService) saveToDB(ctx context.Context, settings *Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSettingQuery)
	if err != nil {
		return fmt.Errorf("could not prepare settings statement: %w", err)
	}
	defer stmt.Close()

	pairs := [][2]string{
		{keyBackendURL, settings.BackendURL},
		{keySystemPrompt, settings.SystemPrompt},
	}
	for _, kv := range pairs {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("could not save setting %s: %w", kv[0], err)
		}
	}

	return tx.Commit()
}
