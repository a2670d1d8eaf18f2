package handlers

import (
	"net/http"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	log           *logger.Logger
}

func NewReportHandler(reportService *services.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, log: log}
}

func (h *ReportHandler) Participants(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}

	attempts, err := h.reportService.Participants(r.Context(), quizID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, attempts)
}

// MyResponse answers with JSON null when the caller never started the quiz.
func (h *ReportHandler) MyResponse(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.UserResponse(r.Context(), quizID, p.UserID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) Scores(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "id", "quiz")
	if !ok {
		return
	}

	scores, err := h.reportService.Scores(r.Context(), quizID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, scores)
}
