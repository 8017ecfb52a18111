package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tmaxmax/go-sse"

	"rag-chat/frontend/internal/interfaces"
	"rag-chat/frontend/internal/model"
	"rag-chat/frontend/internal/service"
)

var stateSSEType = sse.Type("state")

type ChatHandler struct {
	conversations interfaces.ConversationService
	settings      interfaces.SettingsService
}

func NewChatHandler(conversations interfaces.ConversationService, settings interfaces.SettingsService) *ChatHandler {
	return &ChatHandler{conversations: conversations, settings: settings}
}

// GetState godoc
// @Summary      Get registry state
// @Description  Returns every conversation plus the current pointer, loading flag and error state.
// @Tags         Conversations
// @Produce      json
// @Success      200  {object}  model.State
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/state [get]
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.conversations.State(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// ClearError godoc
// @Summary      Clear the error state
// @Tags         Conversations
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/error [delete]
func (h *ChatHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.conversations.ClearError(r.Context())
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetConversations godoc
// @Summary      List conversations
// @Description  Returns all conversations, newest first.
// @Tags         Conversations
// @Produce      json
// @Success      200  {array}   model.Conversation
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/conversations [get]
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.conversations.ListConversations(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, convs)
}

// CreateConversation godoc
// @Summary      Start a new conversation
// @Description  Creates an empty conversation and makes it current.
// @Tags         Conversations
// @Produce      json
// @Success      201  {object}  model.Conversation
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/conversations [post]
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.NewConversation(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conv)
}

// GetConversation godoc
// @Summary      Get a conversation
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  model.Conversation
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [get]
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	conv, err := h.conversations.GetConversation(r.Context(), conversationID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}

// HandleDeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Deleting the current conversation leaves no conversation selected.
// @Tags         Conversations
// @Produce      json
// @Param        conversationID  path      string  true  "Conversation ID"
// @Success      200             {object}  StatusResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /v1/conversations/{conversationID} [delete]
func (h *ChatHandler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.conversations.DeleteConversation(r.Context(), conversationID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// SelectConversation godoc
// @Summary      Select the current conversation
// @Description  Unknown ids leave the selection unchanged.
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        selection  body      SelectConversationRequest  true  "Conversation to select"
// @Success      200        {object}  model.State
// @Failure      400        {object}  ErrorResponse
// @Router       /v1/conversations/current [put]
func (h *ChatHandler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	var req SelectConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.conversations.SelectConversation(r.Context(), req.ID); err != nil {
		respondWithError(w, err)
		return
	}
	h.GetState(w, r)
}

// GetSettings godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [get]
func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Update settings
// @Description  Saves the backend URL and system prompt. The backend must answer its health check.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      service.Settings  true  "New settings"
// @Success      200       {object}  service.Settings
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/settings [post]
func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings service.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(&settings); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.settings.Save(r.Context(), &settings); err != nil {
		respondWithError(w, err)
		return
	}
	slog.Info("Settings updated", "backend_url", settings.BackendURL)
	respondWithJSON(w, http.StatusOK, settings)
}

// HandleStreamMessage godoc
// @Summary      Send a message
// @Description  Sends a user message and streams every update of the resulting turn as SSE `update` events.
// @Tags         Messages
// @Accept       json
// @Produce      text/event-stream
// @Param        message  body      service.SendMessageRequest  true  "User message"
// @Success      200      {object}  model.Update  "Stream of updates"
// @Failure      400      {object}  ErrorResponse "Sent as a stream error event"
// @Router       /v1/messages [post]
func (h *ChatHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	startStream(w)

	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for new message", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	updates := make(chan model.Update)
	go h.conversations.HandleNewMessage(r.Context(), &req, updates)
	// Keep the producer unblocked if we stop reading early.
	defer func() {
		go func() {
			for range updates {
			}
		}()
	}()

	for u := range updates {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected during message stream.", "conversation_id", u.ConversationID)
			break
		}

		if u.Kind == model.UpdateError {
			sendStreamError(w, u.Error)
			continue
		}
		if err := writeStreamEvent(w, u); err != nil {
			slog.Warn("Could not write to message stream, client likely disconnected.", "error", err)
			break
		}
	}

	slog.Info("Finished streaming response.")
}

// HandleEvents godoc
// @Summary      Subscribe to registry updates
// @Description  Sends the current state as a `state` event, then every registry update as an `update` event.
// @Tags         Messages
// @Produce      text/event-stream
// @Success      200  {object}  model.Update  "Stream of updates"
// @Router       /v1/events [get]
func (h *ChatHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	updates := h.conversations.Subscribe(r.Context())

	state, err := h.conversations.State(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}

	startStream(w)
	if err := writeSSE(w, stateSSEType, state); err != nil {
		slog.Warn("Could not write initial state, client likely disconnected.", "error", err)
		return
	}

	for u := range updates {
		if err := writeStreamEvent(w, u); err != nil {
			slog.Warn("Could not write to event stream, client likely disconnected.", "error", err)
			return
		}
	}
	slog.Debug("Event subscriber disconnected.")
}
