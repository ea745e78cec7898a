// apps/go-server/internal/emoji/catalog.go
//
// Offline emoji catalogue.
//
// Load behavior:
//   1. If EMOJI_CATALOG_FILE is set (passed in as path), read that JSON file.
//   2. Otherwise use the catalogue embedded in the assets package.
//
// File format: {"<category>": [{"name": "...", "htmlCode": ["&#128054;"]}, ...]}
//
// Used for development without network access and for tests; unknown
// categories produce a FetchError with StatusCode 404, like the upstream API.

package emoji

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/emoji-memory/apps/go-server/assets"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
)

// Catalog is an in-memory Source.
type Catalog struct {
	byCategory map[string][]game.Symbol
}

// LoadCatalog reads the catalogue from path, or the embedded copy when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	var (
		b   []byte
		err error
	)
	if path != "" {
		b, err = os.ReadFile(path)
	} else {
		b, err = assets.EmojiCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("read emoji catalog: %w", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes a catalogue document.
func ParseCatalog(b []byte) (*Catalog, error) {
	var raw map[string][]rawEmoji
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse emoji catalog: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("emoji catalog is empty")
	}
	c := &Catalog{byCategory: make(map[string][]game.Symbol, len(raw))}
	for cat, items := range raw {
		c.byCategory[strings.ToLower(cat)] = toSymbols(items)
	}
	return c, nil
}

// Symbols returns a copy of the category's symbols.
func (c *Catalog) Symbols(ctx context.Context, category string) ([]game.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Category: category, Err: err}
	}
	syms, ok := c.byCategory[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil, &FetchError{
			Category:   category,
			StatusCode: http.StatusNotFound,
			Err:        errors.New("unknown category"),
		}
	}
	return append([]game.Symbol(nil), syms...), nil
}

// Categories lists loaded categories, sorted.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.byCategory))
	for k := range c.byCategory {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
