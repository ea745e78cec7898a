// apps/go-server/internal/httpserver/routes_stats.go
//
// Leaderboard API.
//   - POST /api/stats                 → record a finished game (201)
//   - GET  /api/leaderboard           → ranked winners (?difficulty=&limit=)
//   - GET  /api/stats/user/{username} → a player's 10 most recent games
//   - GET  /api/stats/overall         → totals, win rate, average winning flips
//   - GET  /api/categories            → emoji categories the start form offers

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

func (s *Server) mountStats(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/stats", s.handleRecord)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/stats/user/{username}", s.handleHistory)
		r.Get("/stats/overall", s.handleOverall)
		r.Get("/categories", s.handleCategories)
	})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	var sub leaderboard.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			writeError(w, r, &leaderboard.ValidationError{Fields: []leaderboard.FieldError{
				{Field: ute.Field, Reason: "wrong type: got " + ute.Value},
			}})
			return
		}
		badJSON(w, err)
		return
	}
	e, err := s.lb.Record(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var q leaderboard.Query
	if d := r.URL.Query().Get("difficulty"); d != "" {
		if parsed, ok := game.ParseDifficulty(d); ok {
			q.Difficulty = parsed
		} else {
			q.Difficulty = game.Difficulty(d) // rejected by the service
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(w, r, &leaderboard.ValidationError{Fields: []leaderboard.FieldError{
				{Field: "limit", Reason: "must be a positive integer"},
			}})
			return
		}
		q.Limit = n
	}
	rows, err := s.lb.Leaderboard(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the parameter encoded.
	username := chi.URLParam(r, "username")
	if r.URL.RawPath != "" {
		u, err := url.PathUnescape(username)
		if err != nil {
			writeError(w, r, &leaderboard.ValidationError{Fields: []leaderboard.FieldError{
				{Field: "username", Reason: "invalid escape"},
			}})
			return
		}
		username = u
	}
	rows, err := s.lb.History(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleOverall(w http.ResponseWriter, r *http.Request) {
	st, err := s.lb.OverallStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.categories
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}
