package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"memoria-backend/internal/middleware"
	"memoria-backend/internal/models"
	"memoria-backend/internal/services"
)

const dueCountCacheTTL = 5 * time.Minute

type DashboardHandler struct {
	learningService *services.LearningService
	redis           *redis.Client
}

func NewDashboardHandler(learningService *services.LearningService, redisClient *redis.Client) *DashboardHandler {
	return &DashboardHandler{learningService: learningService, redis: redisClient}
}

// DueCount serves the due forecast. Results are cached per user for five
// minutes; a review submitted inside that window shows up after the cache
// entry expires, which the client tolerates.
func (h *DashboardHandler) DueCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ctx := r.Context()

	cacheKey := "due_count:" + userID.String()
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var forecast models.DueForecast
		if err := json.Unmarshal([]byte(cached), &forecast); err == nil {
			w.Header().Set("Cache-Control", "private, max-age=300")
			writeJSON(w, http.StatusOK, forecast)
			return
		}
	}

	forecast, err := h.learningService.Forecast(ctx, userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to compute due counts", r))
		return
	}

	if payload, err := json.Marshal(forecast); err == nil {
		if err := h.redis.Set(ctx, cacheKey, payload, dueCountCacheTTL).Err(); err != nil {
			log.Printf("dashboard: failed to cache due count for user %s: %v", userID, err)
		}
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	writeJSON(w, http.StatusOK, forecast)
}
