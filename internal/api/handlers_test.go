package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highrollers/internal/auth"
	"highrollers/internal/config"
	"highrollers/internal/player"
)

type stubRepo struct {
	records []player.Record
	err     error
	limit   int
}

func (s *stubRepo) Load(_ context.Context, userID string, start int64) (*player.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.records {
		if r.UserID == userID {
			return &r, nil
		}
	}
	return &player.Record{UserID: userID, Credits: start}, nil
}

func (s *stubRepo) Save(context.Context, *player.Record) error { return nil }

func (s *stubRepo) Top(_ context.Context, limit int) ([]player.Standing, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	var out []player.Standing
	for _, r := range s.records {
		out = append(out, player.Standing{UserID: r.UserID, HandsPlayed: r.HandsPlayed, Credits: r.Credits, Accuracy: r.Accuracy()})
	}
	return out, nil
}

func newTestHandler(repo *stubRepo) (*Handler, *http.ServeMux) {
	cfg := config.Defaults()
	cfg.CORSOrigin = "https://play.example"
	cfg.StartingCredits = 500
	verifier := auth.VerifierFunc(func(_ context.Context, token string) (*auth.Identity, error) {
		if token == "good" {
			return &auth.Identity{UserID: "uid-1"}, nil
		}
		return nil, auth.ErrInvalidToken
	})
	h := NewHandler(cfg, repo, verifier, log.New(io.Discard))
	mux := http.NewServeMux()
	h.Routes(mux)
	return h, mux
}

func TestStats(t *testing.T) {
	repo := &stubRepo{records: []player.Record{
		{UserID: "uid-1", CorrectMoves: 2, WrongMoves: 1, HandsPlayed: 3, Credits: 120, LongestWinStreak: 2},
	}}
	_, mux := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://play.example", rec.Header().Get("Access-Control-Allow-Origin"))
	var got StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, StatsResponse{
		UserID:           "uid-1",
		CorrectMoves:     2,
		WrongMoves:       1,
		HandsPlayed:      3,
		Credits:          120,
		LongestWinStreak: 2,
		Accuracy:         67,
	}, got)
}

func TestStatsNewUserGetsStartingCredits(t *testing.T) {
	_, mux := newTestHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(500), got.Credits)
	assert.Zero(t, got.Accuracy)
}

func TestStatsRejections(t *testing.T) {
	tests := []struct {
		name   string
		method string
		header string
		err    error
		code   int
	}{
		{name: "no header", method: http.MethodGet, code: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, header: "Bearer forged", code: http.StatusUnauthorized},
		{name: "not bearer", method: http.MethodGet, header: "Basic good", code: http.StatusUnauthorized},
		{name: "wrong method", method: http.MethodPost, header: "Bearer good", code: http.StatusMethodNotAllowed},
		{name: "preflight", method: http.MethodOptions, code: http.StatusNoContent},
		{name: "storage down", method: http.MethodGet, header: "Bearer good", err: errors.New("db gone"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mux := newTestHandler(&stubRepo{err: tt.err})
			req := httptest.NewRequest(tt.method, "/api/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestStatsWithoutVerifier(t *testing.T) {
	h, _ := newTestHandler(&stubRepo{})
	h.Verifier = nil

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLeaderboard(t *testing.T) {
	repo := &stubRepo{records: []player.Record{
		{UserID: "a", HandsPlayed: 9, Credits: 40, CorrectMoves: 1, WrongMoves: 1},
		{UserID: "b", HandsPlayed: 4, Credits: 90},
	}}
	_, mux := newTestHandler(repo)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, repo.limit)
	var got LeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "a", got.Entries[0].UserID)
	assert.Equal(t, 50, got.Entries[0].Accuracy)
}

func TestLeaderboardEmptyIsArray(t *testing.T) {
	_, mux := newTestHandler(&stubRepo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())
}
