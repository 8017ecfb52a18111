package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "rag-chat/frontend/internal/errors"
	"rag-chat/frontend/internal/llm"
	"rag-chat/frontend/internal/model"
	"rag-chat/frontend/internal/repository"
	"rag-chat/frontend/internal/stream"
)

// FailureMessage replaces the assistant's answer when a turn fails.
const FailureMessage = "Sorry, I encountered an error processing your request."

const unspecifiedBackendError = "The assistant reported an unspecified error."

// SendMessageRequest is a new user message from the client. An empty
// ConversationID targets the current conversation, creating one if needed.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" example:"6f1c1a9e-0d7e-4a51-9a8e-0c2b6f3f5d10"`
	Content        string `json:"content" validate:"required" example:"How do I add a user in Video Manager?"`
}

// Turn addresses the assistant placeholder of one in-flight turn.
type Turn struct {
	ConversationID string
	MessageID      string
}

// ConversationService owns the conversation registry: the stored
// conversations, the current pointer, the loading flag and the last error.
// Every mutation and the publish that follows it run under one mutex, so
// subscribers see a single ordered sequence of updates.
type ConversationService struct {
	mu        sync.Mutex
	repo      repository.Repository
	llm       llm.Provider
	settings  *SettingsService
	broker    *broker
	currentID string
	inFlight  map[string]string // conversation id -> placeholder message id
	lastError string
	now       func() time.Time
}

func NewConversationService(repo repository.Repository, llmProvider llm.Provider, settings *SettingsService) *ConversationService {
	return &ConversationService{
		repo:     repo,
		llm:      llmProvider,
		settings: settings,
		broker:   newBroker(),
		inFlight: make(map[string]string),
		now:      time.Now,
	}
}

// Subscribe streams every published update until ctx is done.
func (s *ConversationService) Subscribe(ctx context.Context) <-chan model.Update {
	return s.broker.subscribe(ctx)
}

// State returns a snapshot of the whole registry.
func (s *ConversationService) State(ctx context.Context) (*model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, err := s.repo.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list conversations: %w", err)
	}
	return &model.State{
		Conversations: convs,
		CurrentID:     s.currentID,
		IsLoading:     len(s.inFlight) > 0,
		Error:         s.lastError,
	}, nil
}

// ListConversations returns all conversations, newest first.
func (s *ConversationService) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	return s.repo.ListConversations(ctx)
}

// GetConversation returns one conversation.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, conversationID)
}

// NewConversation creates an empty conversation and makes it current.
func (s *ConversationService) NewConversation(ctx context.Context) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(ctx)
}

// SelectConversation makes conversationID current. Unknown ids leave the state unchanged.
func (s *ConversationService) SelectConversation(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(ctx, conversationID); err != nil {
		if errors.Is(err, app_errors.ErrNotFound) {
			slog.Debug("Ignoring selection of unknown conversation", "conversation_id", conversationID)
			return nil
		}
		return err
	}
	if s.currentID == conversationID {
		return nil
	}
	s.currentID = conversationID
	s.broker.publish(s.updateLocked(model.UpdateState, nil))
	return nil
}

// DeleteConversation removes a conversation. Deleting the current one clears
// the current pointer; no other conversation is selected in its place.
func (s *ConversationService) DeleteConversation(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.repo.DeleteConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("could not delete conversation: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
	}
	slog.Info("Deleted conversation", "conversation_id", conversationID)

	if s.currentID == conversationID {
		s.currentID = ""
	}
	u := s.updateLocked(model.UpdateDeleted, nil)
	u.ConversationID = conversationID
	s.broker.publish(u)
	return nil
}

// ClearError resets the process-wide error state.
func (s *ConversationService) ClearError(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastError == "" {
		return
	}
	s.lastError = ""
	s.broker.publish(s.updateLocked(model.UpdateState, nil))
}

// StartTurn appends the user message and an empty streaming assistant
// placeholder to the target conversation, publishing after each append.
// A conversation with a turn still in flight is rejected with ErrConflict.
func (s *ConversationService) StartTurn(ctx context.Context, conversationID, userText string) (*Turn, error) {
	turn, _, err := s.startTurn(ctx, conversationID, userText)
	return turn, err
}

func (s *ConversationService) startTurn(ctx context.Context, conversationID, userText string) (*Turn, model.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conv *model.Conversation
	var err error
	switch {
	case conversationID != "":
		conv, err = s.getLocked(ctx, conversationID)
	case s.currentID != "":
		conv, err = s.getLocked(ctx, s.currentID)
	default:
		conv, err = s.createLocked(ctx)
	}
	if err != nil {
		return nil, model.Update{}, err
	}

	if busy, ok := s.inFlight[conv.ID]; ok {
		return nil, model.Update{}, fmt.Errorf("%w: conversation %s is still streaming message %s", app_errors.ErrConflict, conv.ID, busy)
	}

	turn := &Turn{ConversationID: conv.ID, MessageID: uuid.NewString()}
	s.inFlight[conv.ID] = turn.MessageID
	s.currentID = conv.ID

	conv.Messages = append(conv.Messages, model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   userText,
		Timestamp: s.now(),
	})
	if _, err := s.publishLocked(ctx, conv); err != nil {
		delete(s.inFlight, conv.ID)
		return nil, model.Update{}, err
	}

	conv.Messages = append(conv.Messages, model.Message{
		ID:          turn.MessageID,
		Role:        model.RoleAssistant,
		Timestamp:   s.now(),
		IsStreaming: true,
	})
	u, err := s.publishLocked(ctx, conv)
	if err != nil {
		delete(s.inFlight, conv.ID)
		return nil, model.Update{}, err
	}

	slog.Info("Started turn", "conversation_id", turn.ConversationID, "message_id", turn.MessageID)
	return turn, u, nil
}

// ApplyEvent applies one decoded event to the turn's placeholder and
// publishes the conversation. Done events change nothing and yield a nil update.
func (s *ConversationService) ApplyEvent(ctx context.Context, turn *Turn, ev stream.Event) (*model.Update, error) {
	if ev.Type == stream.EventDone {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.getLocked(ctx, turn.ConversationID)
	if err != nil {
		return nil, err
	}
	msg := conv.Message(turn.MessageID)
	if msg == nil {
		return nil, fmt.Errorf("%w: message %s in conversation %s", app_errors.ErrNotFound, turn.MessageID, turn.ConversationID)
	}

	switch ev.Type {
	case stream.EventRAGContext:
		if ev.RAGContext == nil {
			return nil, fmt.Errorf("%w: rag_context event without payload", app_errors.ErrValidation)
		}
		rc := *ev.RAGContext
		msg.RAGContext = &rc
	case stream.EventToolCall:
		if ev.ToolCall == nil {
			return nil, fmt.Errorf("%w: tool_call event without payload", app_errors.ErrValidation)
		}
		msg.ToolCalls = append(msg.ToolCalls, *ev.ToolCall)
	case stream.EventContent:
		// Content is cumulative: every event carries the full answer so far.
		msg.Content = ev.Content
	case stream.EventError:
		s.lastError = ev.Error
		if s.lastError == "" {
			s.lastError = unspecifiedBackendError
		}
		slog.Warn("Backend reported an error", "conversation_id", turn.ConversationID, "error", s.lastError)
	default:
		return nil, nil
	}

	u, err := s.publishLocked(ctx, conv)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EndTurn finalizes the placeholder. A nil streamErr clears the streaming
// flag; otherwise the content is replaced by FailureMessage and the error is
// recorded. The final state is always published.
func (s *ConversationService) EndTurn(ctx context.Context, turn *Turn, streamErr error) model.Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[turn.ConversationID] == turn.MessageID {
		delete(s.inFlight, turn.ConversationID)
	}
	if streamErr != nil {
		s.lastError = streamErr.Error()
		slog.Error("Turn failed", "conversation_id", turn.ConversationID, "message_id", turn.MessageID, "error", streamErr)
	} else {
		slog.Info("Turn completed", "conversation_id", turn.ConversationID, "message_id", turn.MessageID)
	}

	conv, err := s.getLocked(ctx, turn.ConversationID)
	if err == nil {
		if msg := conv.Message(turn.MessageID); msg != nil {
			if streamErr != nil {
				msg.Content = FailureMessage
			}
			msg.IsStreaming = false
		}
		u, pubErr := s.publishLocked(ctx, conv)
		if pubErr == nil {
			return u
		}
		err = pubErr
	}

	// The conversation was deleted while the turn was streaming.
	slog.Warn("Finalizing turn without its conversation", "conversation_id", turn.ConversationID, "error", err)
	u := s.updateLocked(model.UpdateState, nil)
	s.broker.publish(u)
	return u
}

// HandleNewMessage runs a complete turn: it starts the turn, streams the
// answer from the backend, applies every event in order and finalizes the
// turn. Each update of the turn is also sent on updates, which is closed on return.
func (s *ConversationService) HandleNewMessage(ctx context.Context, req *SendMessageRequest, updates chan<- model.Update) {
	defer close(updates)

	turn, u, err := s.startTurn(ctx, req.ConversationID, req.Content)
	if err != nil {
		slog.Warn("Could not start turn", "conversation_id", req.ConversationID, "error", err)
		s.forward(ctx, updates, s.errorUpdate(err))
		return
	}
	s.forward(ctx, updates, u)

	// Finalizing must happen even when the client went away.
	finalizeCtx := context.WithoutCancel(ctx)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.forward(ctx, updates, s.EndTurn(finalizeCtx, turn, fmt.Errorf("could not load settings: %w", err)))
		return
	}

	chatReq, err := s.buildChatRequest(ctx, turn, settings)
	if err != nil {
		s.forward(ctx, updates, s.EndTurn(finalizeCtx, turn, err))
		return
	}

	events := make(chan stream.Event)
	errc := make(chan error, 1)
	go func() {
		errc <- s.llm.StreamChat(ctx, settings.BackendURL, chatReq, events)
	}()

	for ev := range events {
		u, err := s.ApplyEvent(ctx, turn, ev)
		if err != nil {
			slog.Warn("Skipping stream event", "type", ev.Type, "conversation_id", turn.ConversationID, "error", err)
			continue
		}
		if u != nil {
			s.forward(ctx, updates, *u)
		}
	}

	var turnErr error
	if streamErr := <-errc; streamErr != nil {
		turnErr = fmt.Errorf("%w: %s", app_errors.ErrUnavailable, streamErr.Error())
	}
	s.forward(ctx, updates, s.EndTurn(finalizeCtx, turn, turnErr))
}

// buildChatRequest collects the history sent to the backend: every message
// except streaming placeholders, preceded by the configured system prompt.
func (s *ConversationService) buildChatRequest(ctx context.Context, turn *Turn, settings *Settings) (*llm.ChatRequest, error) {
	conv, err := s.GetConversation(ctx, turn.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("could not load history: %w", err)
	}

	msgs := make([]llm.Message, 0, len(conv.Messages)+1)
	if settings.SystemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: string(model.RoleSystem), Content: settings.SystemPrompt})
	}
	for _, m := range conv.Messages {
		if m.IsStreaming {
			continue
		}
		msgs = append(msgs, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return &llm.ChatRequest{Messages: msgs}, nil
}

func (s *ConversationService) forward(ctx context.Context, updates chan<- model.Update, u model.Update) {
	select {
	case updates <- u:
	case <-ctx.Done():
	}
}

func (s *ConversationService) errorUpdate(err error) model.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.updateLocked(model.UpdateError, nil)
	u.Error = err.Error()
	return u
}

func (s *ConversationService) getLocked(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("could not get conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationService) createLocked(ctx context.Context) (*model.Conversation, error) {
	now := s.now()
	conv := &model.Conversation{
		ID:        uuid.NewString(),
		Title:     model.DefaultTitle,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("could not create conversation: %w", err)
	}
	s.currentID = conv.ID
	s.broker.publish(s.updateLocked(model.UpdateConversation, conv))
	slog.Info("Created conversation", "conversation_id", conv.ID)
	return conv, nil
}

// publishLocked derives the title, touches UpdatedAt, stores the
// conversation and publishes it.
func (s *ConversationService) publishLocked(ctx context.Context, conv *model.Conversation) (model.Update, error) {
	conv.DeriveTitle()
	conv.UpdatedAt = s.now()
	if err := s.repo.SaveConversation(ctx, conv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Update{}, fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conv.ID)
		}
		return model.Update{}, fmt.Errorf("could not save conversation: %w", err)
	}
	u := s.updateLocked(model.UpdateConversation, conv)
	s.broker.publish(u)
	return u, nil
}

func (s *ConversationService) updateLocked(kind model.UpdateKind, conv *model.Conversation) model.Update {
	u := model.Update{
		Kind:      kind,
		CurrentID: s.currentID,
		IsLoading: len(s.inFlight) > 0,
		Error:     s.lastError,
	}
	if conv != nil {
		c := conv.Clone()
		u.Conversation = &c
		u.ConversationID = c.ID
	}
	return u
}
