package handlers

import (
	"net/http"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/services"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
	log            *logger.Logger
}

func NewAttemptHandler(attemptService *services.AttemptService, log *logger.Logger) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService, log: log}
}

func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}

	started, err := h.attemptService.StartAttempt(r.Context(), quizID, p.UserID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, started)
}

func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.SubmitAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.attemptService.SubmitAttempt(r.Context(), quizID, p.UserID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, attempt)
}
