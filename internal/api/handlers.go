package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"highrollers/internal/auth"
	"highrollers/internal/config"
	"highrollers/internal/player"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	Config   *config.Config
	Repo     player.Repository
	Verifier auth.Verifier
	Logger   *log.Logger
}

func NewHandler(cfg *config.Config, repo player.Repository, verifier auth.Verifier, logger *log.Logger) *Handler {
	return &Handler{
		Config:   cfg,
		Repo:     repo,
		Verifier: verifier,
		Logger:   logger,
	}
}

// Routes registers the API on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", h.Stats)
	mux.HandleFunc("/api/leaderboard", h.Leaderboard)
}

// CORS sets CORS headers on the response and answers preflight requests.
// It reports whether the request has been fully handled.
func (h *Handler) CORS(w http.ResponseWriter, r *http.Request) bool {
	origin := h.Config.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// StatsResponse is the profile page payload.
type StatsResponse struct {
	UserID            string `json:"userId"`
	CorrectMoves      int    `json:"correctMoves"`
	WrongMoves        int    `json:"wrongMoves"`
	HandsPlayed       int    `json:"handsPlayed"`
	Credits           int64  `json:"credits"`
	LongestWinStreak  int    `json:"longestWinStreak"`
	LongestLossStreak int    `json:"longestLossStreak"`
	Accuracy          int    `json:"accuracy"`
}

// Stats returns the stored tallies of the authenticated user.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Verifier == nil {
		http.Error(w, "auth not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := h.Verifier.Verify(r.Context(), auth.BearerToken(r.Header.Get("Authorization")))
	if err != nil {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	rec, err := h.Repo.Load(r.Context(), id.UserID, int64(h.Config.StartingCredits))
	if err != nil {
		h.Logger.Error("Load stats", "user", id.UserID, "err", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, StatsResponse{
		UserID:            rec.UserID,
		CorrectMoves:      rec.CorrectMoves,
		WrongMoves:        rec.WrongMoves,
		HandsPlayed:       rec.HandsPlayed,
		Credits:           rec.Credits,
		LongestWinStreak:  rec.LongestWinStreak,
		LongestLossStreak: rec.LongestLossStreak,
		Accuracy:          rec.Accuracy(),
	})
}

// LeaderboardResponse is the JSON structure for /api/leaderboard.
type LeaderboardResponse struct {
	Entries []player.Standing `json:"entries"`
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if h.CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Repo.Top(r.Context(), limit)
	if err != nil {
		h.Logger.Error("Leaderboard", "err", err)
		http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []player.Standing{}
	}

	h.writeJSON(w, LeaderboardResponse{Entries: entries})
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Warn("Encode response", "err", err)
	}
}
