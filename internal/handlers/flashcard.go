package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memoria-backend/internal/middleware"
	"memoria-backend/internal/models"
	"memoria-backend/internal/repository"
	"memoria-backend/internal/services"
)

const (
	frontContentMaxLen = 500
	backContentMaxLen  = 200

	defaultPerPage = 20
	maxPerPage     = 100
)

var sortableColumns = map[string]bool{
	"created_at":            true,
	"front_content":         true,
	"correct_answers_count": true,
}

type FlashcardHandler struct {
	flashRepo     *repository.FlashcardRepo
	reviewService *services.ReviewService
}

func NewFlashcardHandler(flashRepo *repository.FlashcardRepo, reviewService *services.ReviewService) *FlashcardHandler {
	return &FlashcardHandler{flashRepo: flashRepo, reviewService: reviewService}
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateCardContent(req.FrontContent, req.BackContent); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	card := &models.Flashcard{
		UserID:       middleware.GetUserID(r.Context()),
		FrontContent: strings.TrimSpace(req.FrontContent),
		BackContent:  strings.TrimSpace(req.BackContent),
	}

	if err := h.flashRepo.Create(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create flashcard", r))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *FlashcardHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req models.AcceptFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if len(req.Flashcards) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "flashcards must not be empty", r))
		return
	}

	for i, c := range req.Flashcards {
		if fields := validateCardContent(c.FrontContent, c.BackContent); len(fields) > 0 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR",
				"Validation failed at flashcards["+strconv.Itoa(i)+"]", fields, r))
			return
		}
	}

	userID := middleware.GetUserID(r.Context())
	cards, err := h.flashRepo.CreateBatch(r.Context(), userID, req.Flashcards)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save flashcards", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	q := models.FlashcardsQuery{
		Page:    1,
		PerPage: defaultPerPage,
		SortBy:  "created_at",
		SortDir: "desc",
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "page must be a positive integer", r))
			return
		}
		q.Page = page
	}

	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "per_page must be between 1 and 100", r))
			return
		}
		q.PerPage = perPage
	}

	if v := r.URL.Query().Get("sort_by"); v != "" {
		if !sortableColumns[v] {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid sort_by column", r))
			return
		}
		q.SortBy = v
	}

	if v := r.URL.Query().Get("sort_dir"); v != "" {
		if v != "asc" && v != "desc" {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "sort_dir must be asc or desc", r))
			return
		}
		q.SortDir = v
	}

	userID := middleware.GetUserID(r.Context())
	cards, total, err := h.flashRepo.List(r.Context(), userID, q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	pages := (total + q.PerPage - 1) / q.PerPage
	writeJSON(w, http.StatusOK, models.FlashcardsPage{
		Data: cards,
		Pagination: models.PaginationMeta{
			Total:       total,
			Pages:       pages,
			CurrentPage: q.Page,
			PerPage:     q.PerPage,
		},
	})
}

func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	card, err := h.flashRepo.GetByID(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	deleted, err := h.flashRepo.Delete(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete flashcard", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var req models.ReviewFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.reviewService.Record(r.Context(), userID, id, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func validateCardContent(front, back string) map[string]string {
	fields := map[string]string{}
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	if front == "" {
		fields["front_content"] = "front_content is required"
	} else if len(front) > frontContentMaxLen {
		fields["front_content"] = "front_content cannot exceed 500 characters"
	}

	if back == "" {
		fields["back_content"] = "back_content is required"
	} else if len(back) > backContentMaxLen {
		fields["back_content"] = "back_content cannot exceed 200 characters"
	}

	return fields
}
