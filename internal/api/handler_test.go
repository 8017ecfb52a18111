package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/go-sse"

	"rag-chat/frontend/internal/api"
	app_errors "rag-chat/frontend/internal/errors"
	"rag-chat/frontend/internal/interfaces/mocks"
	"rag-chat/frontend/internal/model"
	"rag-chat/frontend/internal/service"
)

func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockConversationService, *mocks.MockSettingsService) {
	mockConvSvc := mocks.NewMockConversationService(t)
	mockSettingsSvc := mocks.NewMockSettingsService(t)
	handler := api.NewChatHandler(mockConvSvc, mockSettingsSvc)
	return handler, mockConvSvc, mockSettingsSvc
}

// addChiURLParams injects route parameters the way the chi router does.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// readEvents parses a recorded SSE body.
func readEvents(t *testing.T, body string) []sse.Event {
	t.Helper()
	var events []sse.Event
	for ev, err := range sse.Read(strings.NewReader(body), nil) {
		require.NoError(t, err)
		events = append(events, ev)
	}
	return events
}

func TestChatHandler_GetState(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// ARRANGE
		handler, mockConvSvc, _ := setupChatHandler(t)
		state := &model.State{
			Conversations: []model.Conversation{{ID: "c1", Title: model.DefaultTitle}},
			CurrentID:     "c1",
			IsLoading:     true,
		}
		mockConvSvc.On("State", mock.Anything).Return(state, nil).Once()

		// ACT
		req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
		rr := httptest.NewRecorder()
		handler.GetState(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		var got model.State
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "c1", got.CurrentID)
		assert.True(t, got.IsLoading)
		require.Len(t, got.Conversations, 1)
	})

	t.Run("Failure", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("State", mock.Anything).Return(nil, errors.New("boom")).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
		rr := httptest.NewRecorder()
		handler.GetState(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "internal server error")
	})
}

func TestChatHandler_ClearError(t *testing.T) {
	handler, mockConvSvc, _ := setupChatHandler(t)
	mockConvSvc.On("ClearError", mock.Anything).Return().Once()

	req := httptest.NewRequest(http.MethodDelete, "/v1/error", nil)
	rr := httptest.NewRecorder()
	handler.ClearError(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestChatHandler_GetConversations(t *testing.T) {
	handler, mockConvSvc, _ := setupChatHandler(t)
	expected := []model.Conversation{{ID: "c2", Title: "Second"}, {ID: "c1", Title: "First"}}
	mockConvSvc.On("ListConversations", mock.Anything).Return(expected, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/conversations", nil)
	rr := httptest.NewRecorder()
	handler.GetConversations(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []model.Conversation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
}

func TestChatHandler_CreateConversation(t *testing.T) {
	handler, mockConvSvc, _ := setupChatHandler(t)
	mockConvSvc.On("NewConversation", mock.Anything).Return(&model.Conversation{ID: "c1", Title: model.DefaultTitle}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/conversations", nil)
	rr := httptest.NewRecorder()
	handler.CreateConversation(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"New Conversation"`)
}

func TestChatHandler_GetConversation(t *testing.T) {
	conversationID := "test-conversation-id"

	t.Run("Success", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("GetConversation", mock.Anything, conversationID).Return(&model.Conversation{ID: conversationID}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("GetConversation", mock.Anything, conversationID).Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.GetConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_HandleDeleteConversation(t *testing.T) {
	conversationID := "test-conversation-id"

	t.Run("Success", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("DeleteConversation", mock.Anything, conversationID).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleDeleteConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("DeleteConversation", mock.Anything, conversationID).Return(fmt.Errorf("%w: conversation %s", app_errors.ErrNotFound, conversationID)).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+conversationID, nil)
		req = addChiURLParams(req, map[string]string{"conversationID": conversationID})
		rr := httptest.NewRecorder()
		handler.HandleDeleteConversation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_SelectConversation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		mockConvSvc.On("SelectConversation", mock.Anything, "c1").Return(nil).Once()
		mockConvSvc.On("State", mock.Anything).Return(&model.State{CurrentID: "c1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/v1/conversations/current", strings.NewReader(`{"id":"c1"}`))
		rr := httptest.NewRecorder()
		handler.SelectConversation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"current_id":"c1"`)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPut, "/v1/conversations/current", strings.NewReader(`{"id":""}`))
		rr := httptest.NewRecorder()
		handler.SelectConversation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'ID' failed on the 'required' tag")
	})
}

func TestChatHandler_GetSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		mockSettingsSvc.On("Get", mock.Anything).Return(&service.Settings{BackendURL: "http://assistant:9000"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.GetSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"backend_url":"http://assistant:9000"`)
	})

	t.Run("Failure", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		mockSettingsSvc.On("Get", mock.Anything).Return(nil, app_errors.ErrInternal).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
		rr := httptest.NewRecorder()
		handler.GetSettings(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestChatHandler_UpdateSettings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		body := `{"backend_url":"http://assistant:9000","system_prompt":"be brief"}`
		mockSettingsSvc.On("Save", mock.Anything, mock.MatchedBy(func(s *service.Settings) bool {
			return s.BackendURL == "http://assistant:9000" && s.SystemPrompt == "be brief"
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(`{invalid`))
		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(`{"backend_url":"not a url"}`))
		rr := httptest.NewRecorder()

		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'BackendURL' failed on the 'url' tag")
	})

	t.Run("Failure - Backend unreachable", func(t *testing.T) {
		handler, _, mockSettingsSvc := setupChatHandler(t)
		mockSettingsSvc.On("Save", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: backend 'http://down:1' is not reachable", app_errors.ErrValidation)).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/settings", strings.NewReader(`{"backend_url":"http://down:1"}`))
		rr := httptest.NewRecorder()
		handler.UpdateSettings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "is not reachable")
	})
}

func TestChatHandler_HandleStreamMessage(t *testing.T) {
	t.Run("Success - Updates are streamed", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"content": "hello"}`))
		rr := httptest.NewRecorder()

		mockConvSvc.On("HandleNewMessage", mock.Anything, mock.MatchedBy(func(r *service.SendMessageRequest) bool {
			return r.Content == "hello"
		}), mock.Anything).
			Run(func(args mock.Arguments) {
				updates := args.Get(2).(chan<- model.Update)
				updates <- model.Update{Kind: model.UpdateConversation, ConversationID: "c1", IsLoading: true}
				updates <- model.Update{Kind: model.UpdateConversation, ConversationID: "c1"}
				close(updates)
			}).Once()

		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		events := readEvents(t, rr.Body.String())
		require.Len(t, events, 2)
		for _, ev := range events {
			assert.Equal(t, "update", ev.Type)
		}
		var first model.Update
		require.NoError(t, json.Unmarshal([]byte(events[0].Data), &first))
		assert.Equal(t, "c1", first.ConversationID)
		assert.True(t, first.IsLoading)
	})

	t.Run("Success - Start failure becomes a stream error", func(t *testing.T) {
		handler, mockConvSvc, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"conversation_id":"c1","content":"hello"}`))
		rr := httptest.NewRecorder()

		mockConvSvc.On("HandleNewMessage", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				updates := args.Get(2).(chan<- model.Update)
				updates <- model.Update{Kind: model.UpdateError, Error: "resource conflict: conversation c1 is still streaming"}
				close(updates)
			}).Once()

		handler.HandleStreamMessage(rr, req)

		events := readEvents(t, rr.Body.String())
		require.Len(t, events, 1)
		assert.Equal(t, "error", events[0].Type)
		assert.Contains(t, events[0].Data, "still streaming")
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"content":`))
		rr := httptest.NewRecorder()

		handler.HandleStreamMessage(rr, req)

		events := readEvents(t, rr.Body.String())
		require.Len(t, events, 1)
		assert.Equal(t, "error", events[0].Type)
		assert.Contains(t, events[0].Data, "Invalid request body")
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, _, _ := setupChatHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader(`{"content": ""}`))
		rr := httptest.NewRecorder()

		handler.HandleStreamMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "Field 'Content' failed on the 'required' tag")
	})
}

func TestChatHandler_HandleEvents(t *testing.T) {
	handler, mockConvSvc, _ := setupChatHandler(t)

	feed := make(chan model.Update, 2)
	feed <- model.Update{Kind: model.UpdateState, CurrentID: "c1"}
	feed <- model.Update{Kind: model.UpdateDeleted, ConversationID: "c1"}
	close(feed)
	var subscription <-chan model.Update = feed

	mockConvSvc.On("Subscribe", mock.Anything).Return(subscription).Once()
	mockConvSvc.On("State", mock.Anything).Return(&model.State{CurrentID: "c1"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()
	handler.HandleEvents(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	events := readEvents(t, rr.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "state", events[0].Type)
	assert.Contains(t, events[0].Data, `"current_id":"c1"`)
	assert.Equal(t, "update", events[1].Type)
	assert.Equal(t, "update", events[2].Type)
	assert.Contains(t, events[2].Data, `"kind":"deleted"`)
}
