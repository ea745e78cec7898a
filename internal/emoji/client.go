package emoji

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
)

// DefaultBaseURL is the public emoji API.
const DefaultBaseURL = "https://emojihub.yurace.pro/api/all"

// maxBody bounds how much of an upstream response is read.
const maxBody = 4 << 20

// Client fetches categories from an emojihub-compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Symbols performs GET {base}/category/{category}.
// Every failure is returned as *FetchError.
func (c *Client) Symbols(ctx context.Context, category string) ([]game.Symbol, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, &FetchError{Category: category, Err: errors.New("empty category")}
	}
	u := c.baseURL + "/category/" + url.PathEscape(category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Category: category, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Category: category, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("category", category).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("emoji fetch")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &FetchError{
			Category:   category,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var raw []rawEmoji
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return nil, &FetchError{Category: category, Err: fmt.Errorf("decode: %w", err)}
	}
	return toSymbols(raw), nil
}
