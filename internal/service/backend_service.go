package service

import (
	"context"
	"fmt"

	app_errors "rag-chat/frontend/internal/errors"
	"rag-chat/frontend/internal/llm"
)

// BackendService reports on the chat backend the settings point at.
type BackendService struct {
	llm      llm.Provider
	settings *SettingsService
}

func NewBackendService(llmProvider llm.Provider, settings *SettingsService) *BackendService {
	return &BackendService{llm: llmProvider, settings: settings}
}

// Health probes the configured backend.
func (s *BackendService) Health(ctx context.Context) (*llm.HealthStatus, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load settings: %w", err)
	}
	status, err := s.llm.CheckHealth(ctx, settings.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrUnavailable, err.Error())
	}
	return status, nil
}
