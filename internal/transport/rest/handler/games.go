package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shark-krahs/game-platform/internal/model"
	"github.com/shark-krahs/game-platform/internal/repository"
	"github.com/shark-krahs/game-platform/internal/service"
	"github.com/shark-krahs/game-platform/internal/transport/rest/middleware"
)

const savedGameListLimit = 50

// GamesHandler handles saved-game and active-game endpoints
type GamesHandler struct {
	gameSvc    *service.GameService
	savedGames repository.SavedGameRepo
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(gameSvc *service.GameService, savedGames repository.SavedGameRepo) *GamesHandler {
	return &GamesHandler{
		gameSvc:    gameSvc,
		savedGames: savedGames,
	}
}

// Active handles GET /v1/games/active
func (h *GamesHandler) Active(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())

	ref, err := h.gameSvc.ActiveGameFor(r.Context(), participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to look up active game")
		return
	}
	if ref == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active":     true,
		"session_id": ref.SessionID,
		"game_type":  ref.GameType,
	})
}

// ListSaved handles GET /v1/games/saved
func (h *GamesHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())

	games, err := h.savedGames.ListByParticipant(r.Context(), participantID, savedGameListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	if games == nil {
		games = []*model.SavedGame{}
	}
	writeJSON(w, http.StatusOK, games)
}

// GetSaved handles GET /v1/games/saved/{gameId}
func (h *GamesHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())
	gameID := mux.Vars(r)["gameId"]

	game, err := h.savedGames.GetByID(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load game")
		return
	}
	if game == nil || game.ParticipantID != participantID {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// DeleteSaved handles DELETE /v1/games/saved/{gameId}
func (h *GamesHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())
	gameID := mux.Vars(r)["gameId"]

	if err := h.savedGames.Delete(r.Context(), gameID, participantID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TimeControls handles GET /v1/time-controls
func (h *GamesHandler) TimeControls(w http.ResponseWriter, r *http.Request) {
	presets := []map[string]interface{}{
		{"name": "bullet", "initial_seconds": model.BulletInitial, "increment_seconds": model.BulletInc},
		{"name": "blitz", "initial_seconds": model.BlitzInitial, "increment_seconds": model.BlitzInc},
		{"name": "rapid", "initial_seconds": model.RapidInitial, "increment_seconds": model.RapidInc},
	}
	writeJSON(w, http.StatusOK, presets)
}
