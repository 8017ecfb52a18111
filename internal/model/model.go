package model

import (
	"maps"
	"slices"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

const (
	// DefaultTitle is the title of a conversation before its first user message is known.
	DefaultTitle = "New Conversation"
	// TitleMaxLength is the number of runes kept from the first user message.
	TitleMaxLength = 50
	// TitleEllipsis is appended to titles that were shortened.
	TitleEllipsis = "..."
)

// ToolCall records one tool invocation made by the assistant while answering.
type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Result any            `json:"result,omitempty"`
}

// RAGContext holds the documents retrieved for an answer. SimilarityScores,
// when present, runs parallel to Documents.
type RAGContext struct {
	Documents        []string  `json:"documents"`
	SimilarityScores []float64 `json:"similarity_scores,omitempty"`
}

// Message stores a single message in a conversation.
type Message struct {
	ID          string      `json:"id"`
	Role        Role        `json:"role"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	ToolCalls   []ToolCall  `json:"tool_calls,omitempty"`
	RAGContext  *RAGContext `json:"rag_context,omitempty"`
	IsStreaming bool        `json:"is_streaming"`
}

// Conversation is an ordered list of messages plus its metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveTitle sets the title from the first user message while the
// conversation still carries DefaultTitle. A non-default title is never touched.
func (c *Conversation) DeriveTitle() {
	if c.Title != DefaultTitle {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = TruncateTitle(msg.Content)
			return
		}
	}
}

// TruncateTitle shortens s to TitleMaxLength runes, appending TitleEllipsis
// only when something was cut.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= TitleMaxLength {
		return s
	}
	return string(runes[:TitleMaxLength]) + TitleEllipsis
}

// Message returns a pointer to the message with the given id, or nil.
func (c *Conversation) Message(id string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() Conversation {
	out := *c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		for i := range c.Messages {
			out.Messages[i] = c.Messages[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the message. Tool call results and argument
// values are treated as immutable and shared.
func (m Message) Clone() Message {
	if m.ToolCalls != nil {
		calls := make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			tc.Args = maps.Clone(tc.Args)
			calls[i] = tc
		}
		m.ToolCalls = calls
	}
	if m.RAGContext != nil {
		rc := RAGContext{
			Documents:        slices.Clone(m.RAGContext.Documents),
			SimilarityScores: slices.Clone(m.RAGContext.SimilarityScores),
		}
		m.RAGContext = &rc
	}
	return m
}

// UpdateKind tells subscribers what a published Update is about.
type UpdateKind string

const (
	UpdateConversation UpdateKind = "conversation"
	UpdateDeleted      UpdateKind = "deleted"
	UpdateState        UpdateKind = "state"
	UpdateError        UpdateKind = "error"
)

// Update is the unit published after every registry mutation.
type Update struct {
	Kind           UpdateKind    `json:"kind"`
	ConversationID string        `json:"conversation_id,omitempty"`
	Conversation   *Conversation `json:"conversation,omitempty"`
	CurrentID      string        `json:"current_id"`
	IsLoading      bool          `json:"is_loading"`
	Error          string        `json:"error,omitempty"`
}

// State is a full snapshot of the registry.
type State struct {
	Conversations []Conversation `json:"conversations"`
	CurrentID     string         `json:"current_id"`
	IsLoading     bool           `json:"is_loading"`
	Error         string         `json:"error,omitempty"`
}
