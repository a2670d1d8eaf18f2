package handlers

import (
	"net/http"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/services"
)

type QuestionHandler struct {
	catalog *services.CatalogService
	log     *logger.Logger
}

func NewQuestionHandler(catalog *services.CatalogService, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{catalog: catalog, log: log}
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "id", "question")
	if !ok {
		return
	}

	q, err := h.catalog.GetQuestion(r.Context(), questionID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.catalog.ListQuestions(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}
