package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shark-krahs/game-platform/internal/cache"
	"github.com/shark-krahs/game-platform/internal/model"
	"github.com/shark-krahs/game-platform/internal/repository"
	"github.com/shark-krahs/game-platform/internal/transport/rest/middleware"
)

const leaderboardDefaultLimit = 25

// RatingsHandler handles skill rating endpoints
type RatingsHandler struct {
	ratingRepo  repository.RatingRepo
	leaderboard cache.LeaderboardCache
}

// NewRatingsHandler creates a new ratings handler
func NewRatingsHandler(ratingRepo repository.RatingRepo, leaderboard cache.LeaderboardCache) *RatingsHandler {
	return &RatingsHandler{
		ratingRepo:  ratingRepo,
		leaderboard: leaderboard,
	}
}

// Mine handles GET /v1/ratings
func (h *RatingsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())

	records, err := h.ratingRepo.ListByParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	if records == nil {
		records = []*model.RatingRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Leaderboard handles GET /v1/leaderboard/{category}
func (h *RatingsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	limit := leaderboardDefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.GetTop(r.Context(), category, limit)
	if err == nil && len(entries) > 0 {
		writeJSON(w, http.StatusOK, entries)
		return
	}

	// Cold cache; rebuild from the store.
	records, err := h.ratingRepo.TopByCategory(r.Context(), category, int64(limit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	entries = make([]cache.LeaderboardEntry, len(records))
	for i, rec := range records {
		entries[i] = cache.LeaderboardEntry{
			ParticipantID: rec.ParticipantID,
			Rating:        rec.Rating,
			Rank:          i + 1,
		}
		if err := h.leaderboard.UpdateScore(r.Context(), category, rec.ParticipantID, rec.Rating); err != nil {
			break
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Rank handles GET /v1/leaderboard/{category}/rank
func (h *RatingsHandler) Rank(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())
	category := mux.Vars(r)["category"]

	rank, err := h.leaderboard.GetRank(r.Context(), category, participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rank")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"rank":     rank,
	})
}
