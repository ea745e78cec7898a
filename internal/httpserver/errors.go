// apps/go-server/internal/httpserver/errors.go
//
// Error classification for HTTP responses.
//
//	400 validation_failed  *leaderboard.ValidationError (fields listed)
//	400 bad_json           undecodable request body
//	400 invalid_position   flip outside the deck
//	404 session_not_found  unknown /game/{id}
//	409 session_busy       deck still building
//	409 session_conflict   already started, not in progress, nothing to retry
//	422 category_too_small fewer distinct symbols than pairs
//	502 emoji_unavailable  emoji source failed
//	500 persistence_failed store failure
//	500 internal           anything else

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/emoji"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/play"
)

type errorBody struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message,omitempty"`
	Fields  []leaderboard.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func badJSON(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_json", Message: err.Error()})
}

// writeError maps err onto a status code and error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *leaderboard.ValidationError
		pe *leaderboard.PersistenceError
		fe *emoji.FetchError
	)
	status, body := http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"}
	switch {
	case errors.As(err, &ve):
		status, body = http.StatusBadRequest, errorBody{Error: "validation_failed", Message: ve.Error(), Fields: ve.Fields}
	case errors.Is(err, game.ErrInvalidPosition):
		status, body = http.StatusBadRequest, errorBody{Error: "invalid_position", Message: err.Error()}
	case errors.Is(err, play.ErrNoSession):
		status, body = http.StatusNotFound, errorBody{Error: "session_not_found", Message: err.Error()}
	case errors.Is(err, play.ErrBusy):
		status, body = http.StatusConflict, errorBody{Error: "session_busy", Message: err.Error()}
	case errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotInProgress),
		errors.Is(err, play.ErrNothingToRetry),
		errors.Is(err, play.ErrAbandoned):
		status, body = http.StatusConflict, errorBody{Error: "session_conflict", Message: err.Error()}
	case errors.Is(err, game.ErrInsufficientCandidates):
		status, body = http.StatusUnprocessableEntity, errorBody{Error: "category_too_small", Message: err.Error()}
	case errors.As(err, &fe):
		status, body = http.StatusBadGateway, errorBody{Error: "emoji_unavailable", Message: fe.Error()}
	case errors.As(err, &pe):
		status, body = http.StatusInternalServerError, errorBody{Error: "persistence_failed", Message: "could not reach the leaderboard store"}
	}
	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, body)
}
