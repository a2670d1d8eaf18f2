package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/middleware"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/services"
)

func TestJSONResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]string{"status": "ok"})

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %q", resp["status"])
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"title": "This field is required"}}, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"},
		{"conflict", &services.ConflictError{Message: "could not submit quiz: no attempt in progress"}, http.StatusConflict, "CONFLICT", "could not submit quiz: no attempt in progress"},
		{"not found", &services.NotFoundError{Message: "Quiz not found"}, http.StatusNotFound, "NOT_FOUND", "Quiz not found"},
		{"unauthorized", &services.UnauthorizedError{Message: "nope"}, http.StatusUnauthorized, "UNAUTHORIZED", "nope"},
		{"forbidden", &services.ForbiddenError{Message: "admins only"}, http.StatusForbidden, "FORBIDDEN", "admins only"},
		{"rate limited", &services.RateLimitError{Message: "slow down"}, http.StatusTooManyRequests, "RATE_LIMITED", "slow down"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()
			middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleServiceError(w, r, logger.Nop(), tc.err)
			})).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tc.wantCode || resp.Error.Message != tc.wantMsg {
				t.Fatalf("unexpected error body %+v", resp.Error)
			}
			if resp.Error.RequestID == "" {
				t.Fatalf("expected request id in error body")
			}
			if strings.Contains(resp.Error.Message, "pq:") {
				t.Fatalf("internal error text leaked: %q", resp.Error.Message)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
		want   int64
	}{
		{"12", true, 12},
		{"0", false, 0},
		{"-3", false, 0},
		{"abc", false, 0},
		{"99999999999999999999", false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			r := chi.NewRouter()
			var got int64
			var ok bool
			r.Get("/quizzes/{id}", func(w http.ResponseWriter, r *http.Request) {
				got, ok = pathID(w, r, "id", "quiz")
			})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/quizzes/"+tc.raw, nil))

			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tc.want, tc.wantOK, got, ok)
			}
			if !ok && rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for invalid id, got %d", rr.Code)
			}
		})
	}
}

func TestDecodeJSON_RejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	var dst models.CreateQuizRequest
	if decodeJSON(rr, req, &dst) {
		t.Fatalf("expected decode to fail")
	}
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPrincipal_MissingIsUnauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	if _, ok := principal(rr, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatalf("expected no principal")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	// A well-formed submission padded past the limit.
	body := `{"responses":[` + strings.Repeat(`{"question_id":1,"selected_option_id":2},`, maxBodyBytes/40) +
		`{"question_id":1,"selected_option_id":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()

	var dst models.SubmitAttemptRequest
	if decodeJSON(rr, req, &dst) {
		t.Fatalf("expected decode to fail for a %d byte body", len(body))
	}
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "BODY_TOO_LARGE" {
		t.Fatalf("expected BODY_TOO_LARGE, got %s", resp.Error.Code)
	}
}
