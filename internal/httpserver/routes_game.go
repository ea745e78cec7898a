// apps/go-server/internal/httpserver/routes_game.go
//
// HTTP routes for server-hosted play.
// Exposes under /game:
//   - POST /game/new        → create a session and start it (201)
//   - GET  /game/{id}       → current view
//   - POST /game/{id}/flip  → flip {position}
//   - POST /game/{id}/exit  → back to NotStarted, pending auto-reset cancelled
//   - POST /game/{id}/retry → fresh deck, same username/difficulty/category
//
// Views never carry the symbol of a face-down card.
// A session whose first start fails is discarded, so the client never sees its id.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/play"
)

type newSessionReq struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

type flipReq struct {
	Position *int `json:"position"`
}

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleView)
			r.Post("/flip", s.handleFlip)
			r.Post("/exit", s.handleExit)
			r.Post("/retry", s.handleRetry)
		})
	})
}

// session resolves {id}, writing a 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*play.Controller, bool) {
	c, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return c, true
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w, err)
		return
	}
	c := s.sessions.Create()
	v, err := c.StartSession(r.Context(), req.Username, req.Difficulty, req.Category)
	if err != nil {
		s.sessions.Remove(c.ID())
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.View())
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	var req flipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w, err)
		return
	}
	if req.Position == nil {
		badJSON(w, errors.New("position is required"))
		return
	}
	res, err := c.Flip(*req.Position)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Exit())
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	c, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := c.Retry(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
