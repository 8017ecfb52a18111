package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tmaxmax/go-sse"

	app_errors "rag-chat/frontend/internal/errors"
)

// Shared DTOs for API responses and helpers for consistent HTTP and SSE output.

var (
	updateSSEType = sse.Type("update")
	errorSSEType  = sse.Type("error")
)

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response.
type StatusResponse struct {
	Status string `json:"status"`
}

// SelectConversationRequest is the body of PUT /conversations/current.
type SelectConversationRequest struct {
	ID string `json:"id" validate:"required" example:"6f1c1a9e-0d7e-4a51-9a8e-0c2b6f3f5d10"`
}

// respondWithError maps business-layer errors to HTTP status codes and
// writes a standard JSON error body.
func respondWithError(w http.ResponseWriter, err error) {
	statusCode, message := errorStatus(err)

	// The detailed error is logged; the client gets the generic message.
	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		return http.StatusNotFound, "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		// Validation messages are already user-facing.
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		return http.StatusConflict, "A response is still streaming for this conversation."
	case errors.Is(err, app_errors.ErrUnavailable):
		return http.StatusBadGateway, "The chat backend could not be reached."
	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// sendStreamError writes an `event: error` record so stream consumers can
// tell failures apart from updates.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	if err := writeSSE(w, errorSSEType, ErrorResponse{Error: message}); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
	}
}

// writeStreamEvent writes one update record. A returned error means the
// client is gone.
func writeStreamEvent(w http.ResponseWriter, data any) error {
	return writeSSE(w, updateSSEType, data)
}

func writeSSE(w http.ResponseWriter, typ sse.EventType, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		// The payload is bad, not the connection.
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		return nil
	}

	msg := sse.Message{Type: typ}
	msg.AppendData(string(jsonData))
	if _, err := msg.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
