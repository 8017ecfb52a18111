package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_DeriveTitle(t *testing.T) {
	t.Run("Long first message is truncated with ellipsis", func(t *testing.T) {
		conv := &Conversation{Title: DefaultTitle, Messages: []Message{{Role: RoleUser, Content: strings.Repeat("x", 60)}}}
		conv.DeriveTitle()
		assert.Equal(t, strings.Repeat("x", 50)+"...", conv.Title)
	})

	t.Run("Exactly fifty characters stay unchanged", func(t *testing.T) {
		content := strings.Repeat("y", 50)
		conv := &Conversation{Title: DefaultTitle, Messages: []Message{{Role: RoleUser, Content: content}}}
		conv.DeriveTitle()
		assert.Equal(t, content, conv.Title)
	})

	t.Run("Counts runes, not bytes", func(t *testing.T) {
		content := strings.Repeat("é", 50)
		assert.Equal(t, content, TruncateTitle(content))
	})

	t.Run("Uses the first user message only", func(t *testing.T) {
		conv := &Conversation{Title: DefaultTitle, Messages: []Message{
			{Role: RoleAssistant, Content: "greeting"},
			{Role: RoleUser, Content: "first"},
			{Role: RoleUser, Content: "second"},
		}}
		conv.DeriveTitle()
		assert.Equal(t, "first", conv.Title)
	})

	t.Run("No user message keeps the default", func(t *testing.T) {
		conv := &Conversation{Title: DefaultTitle}
		conv.DeriveTitle()
		assert.Equal(t, DefaultTitle, conv.Title)
	})

	t.Run("A set title is never recomputed", func(t *testing.T) {
		conv := &Conversation{Title: "first", Messages: []Message{{Role: RoleUser, Content: "changed"}}}
		conv.DeriveTitle()
		assert.Equal(t, "first", conv.Title)
	})
}

func TestConversation_Clone(t *testing.T) {
	conv := &Conversation{
		ID:    "c1",
		Title: DefaultTitle,
		Messages: []Message{{
			ID:         "m1",
			Role:       RoleAssistant,
			ToolCalls:  []ToolCall{{ID: "t1", Name: "add", Args: map[string]any{"a": 1}}},
			RAGContext: &RAGContext{Documents: []string{"a"}, SimilarityScores: []float64{0.5}},
		}},
	}

	clone := conv.Clone()
	clone.Messages[0].Content = "changed"
	clone.Messages[0].ToolCalls[0].Args["a"] = 2
	clone.Messages[0].RAGContext.Documents[0] = "b"

	original := conv.Message("m1")
	require.NotNil(t, original)
	assert.Empty(t, original.Content)
	assert.Equal(t, 1, original.ToolCalls[0].Args["a"])
	assert.Equal(t, "a", original.RAGContext.Documents[0])
	assert.Nil(t, conv.Message("missing"))
}
