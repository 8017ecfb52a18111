package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chat/frontend/internal/stream"
)

// sseRecords writes each payload as its own SSE record and flushes it, the
// way the assistant backend does.
func sseRecords(t *testing.T, w http.ResponseWriter, payloads ...string) {
	t.Helper()
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, p := range payloads {
		// The client may hang up after done; later writes are allowed to fail.
		_, _ = fmt.Fprintf(w, "data: %s\n\n", p)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func drain(ch <-chan stream.Event) []stream.Event {
	var out []stream.Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

// TestBackendProvider_StreamChat runs the client against an httptest server
// that stands in for the assistant backend.
func TestBackendProvider_StreamChat(t *testing.T) {
	t.Run("Forwards decoded events and sends the history", func(t *testing.T) {
		var captured ChatRequest
		var capturedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedPath = r.URL.Path
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			sseRecords(t, w,
				`{"type":"tool_call","toolCall":{"id":"1","name":"magic_number","args":{}}}`,
				`{"type":"content","content":"5"}`,
				`{"type":"done"}`,
				`{"type":"content","content":"after done"}`,
			)
		}))
		defer server.Close()

		provider := NewBackendProvider("", 0)
		ch := make(chan stream.Event)
		errc := make(chan error, 1)
		req := &ChatRequest{Messages: []Message{{Role: "user", Content: "What is the magic number?"}}}

		go func() { errc <- provider.StreamChat(context.Background(), server.URL+"/", req, ch) }()
		events := drain(ch)

		require.NoError(t, <-errc)
		assert.Equal(t, DefaultStreamPath, capturedPath)
		assert.Equal(t, *req, captured)
		require.Len(t, events, 3)
		assert.Equal(t, stream.EventToolCall, events[0].Type)
		assert.Equal(t, "5", events[1].Content)
		assert.Equal(t, stream.EventDone, events[2].Type)
	})

	t.Run("Body ending mid-record is a clean end", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sseRecords(t, w, `{"type":"content","content":"Hello world"}`)
			_, _ = fmt.Fprint(w, ": keep")
		}))
		defer server.Close()

		ch := make(chan stream.Event)
		errc := make(chan error, 1)
		go func() { errc <- NewBackendProvider("", 0).StreamChat(context.Background(), server.URL, &ChatRequest{}, ch) }()
		events := drain(ch)

		require.NoError(t, <-errc)
		require.Len(t, events, 1)
		assert.Equal(t, "Hello world", events[0].Content)
	})

	t.Run("Non-2xx status is a terminal failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "agent not ready", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ch := make(chan stream.Event)
		errc := make(chan error, 1)
		go func() { errc <- NewBackendProvider("", 0).StreamChat(context.Background(), server.URL, &ChatRequest{}, ch) }()

		assert.Empty(t, drain(ch))
		err := <-errc
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "agent not ready")
	})

	t.Run("Unreachable backend is a terminal failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		ch := make(chan stream.Event)
		errc := make(chan error, 1)
		go func() { errc <- NewBackendProvider("", 0).StreamChat(context.Background(), url, &ChatRequest{}, ch) }()

		assert.Empty(t, drain(ch))
		assert.Error(t, <-errc)
	})

	t.Run("Cancellation abandons the stream", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sseRecords(t, w, `{"type":"content","content":"thinking"}`)
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan stream.Event)
		errc := make(chan error, 1)
		go func() { errc <- NewBackendProvider("", 0).StreamChat(ctx, server.URL, &ChatRequest{}, ch) }()

		first := <-ch
		assert.Equal(t, "thinking", first.Content)
		cancel()

		drain(ch)
		select {
		case err := <-errc:
			assert.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("StreamChat did not return after cancellation")
		}
	})
}

func TestBackendProvider_CheckHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok","message":"MSI AI Assistant API is running"}`))
		}))
		defer server.Close()

		status, err := NewBackendProvider("", 0).CheckHealth(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "ok", status.Status)
	})

	t.Run("Unhealthy status code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewBackendProvider("", 0).CheckHealth(context.Background(), server.URL)
		assert.Error(t, err)
	})
}
