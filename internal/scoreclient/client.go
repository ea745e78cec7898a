// apps/go-server/internal/scoreclient/client.go
//
// HTTP client for the leaderboard API.
// Endpoints:
//   - POST /api/stats                 → Record
//   - GET  /api/leaderboard           → Leaderboard (difficulty, limit)
//   - GET  /api/stats/user/{username} → History
//   - GET  /api/stats/overall         → OverallStats
//
// A 400 response is returned as *leaderboard.ValidationError so callers see
// the same user-fixable error class as the in-process service; every other
// non-2xx response is an *APIError.

package scoreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

// Client talks to a leaderboard API at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client; httpClient defaults to a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// APIError is a non-2xx, non-400 response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("leaderboard api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("leaderboard api: status %d", e.StatusCode)
}

// errorBody mirrors the server's JSON error shape.
type errorBody struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message"`
	Fields  []leaderboard.FieldError `json:"fields"`
}

// Record submits a finished game.
func (c *Client) Record(ctx context.Context, sub leaderboard.Submission) (leaderboard.Entry, error) {
	var e leaderboard.Entry
	err := c.do(ctx, http.MethodPost, "/api/stats", sub, &e)
	return e, err
}

// Leaderboard fetches ranked winners; zero Query fields use server defaults.
func (c *Client) Leaderboard(ctx context.Context, q leaderboard.Query) ([]leaderboard.Entry, error) {
	v := url.Values{}
	if q.Difficulty != "" {
		v.Set("difficulty", string(q.Difficulty))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/api/leaderboard"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []leaderboard.Entry
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// History fetches a user's recent games.
func (c *Client) History(ctx context.Context, username string) ([]leaderboard.Entry, error) {
	var out []leaderboard.Entry
	err := c.do(ctx, http.MethodGet, "/api/stats/user/"+url.PathEscape(username), nil, &out)
	return out, err
}

// OverallStats fetches aggregate statistics.
func (c *Client) OverallStats(ctx context.Context) (leaderboard.Stats, error) {
	var st leaderboard.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats/overall", nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&eb)
		if resp.StatusCode == http.StatusBadRequest && len(eb.Fields) > 0 {
			return &leaderboard.ValidationError{Fields: eb.Fields}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: eb.Error, Message: eb.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
