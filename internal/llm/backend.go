package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rag-chat/frontend/internal/stream"
)

// DefaultStreamPath is where the assistant backend serves its streaming chat endpoint.
const DefaultStreamPath = "/api/chat/stream"

// Provider is the transport to the RAG assistant backend.
type Provider interface {
	// StreamChat posts the conversation history and forwards every decoded
	// event on ch, in order. ch is always closed before returning. The
	// returned error is the single terminal failure of the exchange.
	StreamChat(ctx context.Context, baseURL string, req *ChatRequest, ch chan<- stream.Event) error
	// CheckHealth queries the backend's root endpoint.
	CheckHealth(ctx context.Context, baseURL string) (*HealthStatus, error)
}

// ChatRequest is the body of a streaming chat call.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HealthStatus is the backend's answer on its root endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type backendProvider struct {
	client       *http.Client
	healthClient *http.Client
	streamPath   string
	decoder      *stream.Decoder
}

// NewBackendProvider returns a Provider that talks HTTP to the assistant backend.
func NewBackendProvider(streamPath string, maxEventSize int) Provider {
	if streamPath == "" {
		streamPath = DefaultStreamPath
	}
	return &backendProvider{
		// No overall timeout: answers stream for as long as the agent works.
		client:       &http.Client{},
		healthClient: &http.Client{Timeout: 5 * time.Second},
		streamPath:   streamPath,
		decoder:      stream.NewDecoder(maxEventSize),
	}
}

func (p *backendProvider) StreamChat(ctx context.Context, baseURL string, req *ChatRequest, ch chan<- stream.Event) error {
	defer close(ch)

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(baseURL, p.streamPath), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend returned non-2xx status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	for ev, err := range p.decoder.Events(resp.Body) {
		if err != nil {
			return err
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// A cancelled request can surface as a clean end of body.
	return ctx.Err()
}

func (p *backendProvider) CheckHealth(ctx context.Context, baseURL string) (*HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	resp, err := p.healthClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned non-200 status %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("could not decode health response: %w", err)
	}
	if status.Status != "ok" {
		return &status, fmt.Errorf("backend reported status %q", status.Status)
	}
	return &status, nil
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
