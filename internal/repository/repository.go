package repository

import (
	"context"
	"slices"
	"sync"

	"rag-chat/frontend/internal/model"
)

// Repository stores conversations. Implementations hand out copies so callers
// never share memory with the store.
type Repository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	SaveConversation(ctx context.Context, conv *model.Conversation) error
	DeleteConversation(ctx context.Context, conversationID string) (bool, error)
}

type memoryRepository struct {
	mu            sync.RWMutex
	conversations map[string]*model.Conversation
	order         []string // newest first
}

// NewMemoryRepository returns a Repository that keeps conversations in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{conversations: make(map[string]*model.Conversation)}
}

func (r *memoryRepository) CreateConversation(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := conv.Clone()
	if _, exists := r.conversations[c.ID]; !exists {
		r.order = slices.Insert(r.order, 0, c.ID)
	}
	r.conversations[c.ID] = &c
	return nil
}

func (r *memoryRepository) GetConversation(_ context.Context, conversationID string) (*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	c := conv.Clone()
	return &c, nil
}

func (r *memoryRepository) ListConversations(_ context.Context) ([]model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Conversation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.conversations[id].Clone())
	}
	return out, nil
}

// SaveConversation replaces the stored conversation with the same id.
func (r *memoryRepository) SaveConversation(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conv.ID]; !ok {
		return ErrNotFound
	}
	c := conv.Clone()
	r.conversations[c.ID] = &c
	return nil
}

// DeleteConversation reports whether a conversation was removed.
func (r *memoryRepository) DeleteConversation(_ context.Context, conversationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conversationID]; !ok {
		return false, nil
	}
	delete(r.conversations, conversationID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == conversationID })
	return true, nil
}
