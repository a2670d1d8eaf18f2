package handlers

import (
	"net/http"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/services"
)

type QuizHandler struct {
	quizService *services.QuizService
	log         *logger.Logger
}

func NewQuizHandler(quizService *services.QuizService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{quizService: quizService, log: log}
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListAll(r.Context(), p)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListByCreator(r.Context(), p)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.CreateQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quiz, err := h.quizService.Create(r.Context(), p.UserID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) MapQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}

	var req models.MapQuestionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resolved, err := h.quizService.MapQuestions(r.Context(), quizID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

// Get is public: the resolved view carries no answer keys.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}

	resolved, err := h.quizService.GetResolved(r.Context(), quizID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}
