package interfaces

import (
	"context"

	"rag-chat/frontend/internal/llm"
	"rag-chat/frontend/internal/model"
	"rag-chat/frontend/internal/service"
)

// The API layer depends on these contracts rather than on the concrete
// services so handlers can be tested against generated mocks.

// ConversationService defines the contract for the conversation registry and chat turns.
type ConversationService interface {
	State(ctx context.Context) (*model.State, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	NewConversation(ctx context.Context) (*model.Conversation, error)
	SelectConversation(ctx context.Context, conversationID string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	ClearError(ctx context.Context)
	Subscribe(ctx context.Context) <-chan model.Update
	HandleNewMessage(ctx context.Context, req *service.SendMessageRequest, updates chan<- model.Update)
}

// SettingsService defines the contract for managing runtime settings.
type SettingsService interface {
	InitAndGet(ctx context.Context, defaults *service.Settings) (*service.Settings, error)
	Get(ctx context.Context) (*service.Settings, error)
	Save(ctx context.Context, settings *service.Settings) error
}

// BackendService defines the contract for probing the chat backend.
type BackendService interface {
	Health(ctx context.Context) (*llm.HealthStatus, error)
}
