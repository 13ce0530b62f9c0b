package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memoria-backend/internal/middleware"
	"memoria-backend/internal/models"
	"memoria-backend/internal/services"
)

type LearningSessionHandler struct {
	learningService *services.LearningService
	defaultLimit    int
	maxLimit        int
}

func NewLearningSessionHandler(learningService *services.LearningService, defaultLimit, maxLimit int) *LearningSessionHandler {
	return &LearningSessionHandler{
		learningService: learningService,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
	}
}

func (h *LearningSessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Limit < 0 || req.Limit > h.maxLimit {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit is out of range", r))
		return
	}
	if req.Limit == 0 {
		req.Limit = h.defaultLimit
	}

	userID := middleware.GetUserID(r.Context())
	resp, err := h.learningService.Start(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *LearningSessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	summary, err := h.learningService.End(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session_summary": summary})
}

func (h *LearningSessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	summary, err := h.learningService.GetSummary(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session_summary": summary})
}
