// apps/go-server/internal/emoji/types.go
//
// Shared types for emoji sources.
// A Source turns a category name into candidate game symbols; the HTTP
// client and the embedded catalogue both implement it.

package emoji

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
)

// Source yields the candidate symbols of one category.
type Source interface {
	Symbols(ctx context.Context, category string) ([]game.Symbol, error)
}

// Categories are the category slugs offered by the upstream source.
var Categories = []string{
	"smileys-and-people",
	"animals-and-nature",
	"food-and-drink",
	"travel-and-places",
	"activities",
	"objects",
	"symbols",
	"flags",
}

// rawEmoji is the upstream JSON shape.
type rawEmoji struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Group    string   `json:"group,omitempty"`
	HTMLCode []string `json:"htmlCode"`
	Unicode  []string `json:"unicode,omitempty"`
}

// toSymbols decodes the first HTML entity of each item. Items without a
// name or entity are skipped.
func toSymbols(raw []rawEmoji) []game.Symbol {
	out := make([]game.Symbol, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" || len(r.HTMLCode) == 0 {
			continue
		}
		glyph := html.UnescapeString(r.HTMLCode[0])
		if glyph == "" {
			continue
		}
		out = append(out, game.Symbol{Name: name, Glyph: glyph})
	}
	return out
}

// FetchError is any failure to obtain a category: transport, status, or body.
type FetchError struct {
	Category   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch category %q: status %d", e.Category, e.StatusCode)
	}
	return fmt.Sprintf("fetch category %q: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
