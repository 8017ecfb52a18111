package api

import (
	"net/http"

	"rag-chat/frontend/internal/interfaces"
)

// BackendHandler reports on the chat backend.
type BackendHandler struct {
	service interfaces.BackendService
}

func NewBackendHandler(svc interfaces.BackendService) *BackendHandler {
	return &BackendHandler{service: svc}
}

// HandleBackendHealth godoc
// @Summary      Backend health
// @Description  Probes the chat backend configured in the settings.
// @Tags         Backend
// @Produce      json
// @Success      200  {object}  llm.HealthStatus
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/backend/health [get]
func (h *BackendHandler) HandleBackendHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Health(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}
