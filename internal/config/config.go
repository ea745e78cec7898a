// apps/go-server/internal/config/config.go
//
// Environment-driven configuration.
//
// Load reads every setting through a lookup function (os.Getenv in main,
// a map in tests), applies defaults for unset or empty values and reports
// all invalid values at once.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Emoji sources.
const (
	EmojiHTTP     = "http"
	EmojiEmbedded = "embedded"
)

// Config is the resolved process configuration.
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	ClientOrigin   string
	Store          string
	SQLitePath     string
	DatabaseURL    string
	EmojiAPIURL    string
	EmojiSource    string
	EmojiCatalog   string // optional file overriding the embedded catalogue
	LeaderboardURL string // when set, hosted sessions report here instead of in-process
	RecordLosses   bool
	ResetDwell     time.Duration
	RequestTimeout time.Duration
	SessionIdleTTL time.Duration
}

// SweepInterval is how often idle sessions are looked for: a quarter of the
// idle TTL, kept between one second and one minute.
func (c Config) SweepInterval() time.Duration {
	return min(max(c.SessionIdleTTL/4, time.Second), time.Minute)
}

// Load resolves the configuration from lookup.
func Load(lookup func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(lookup(k)); v != "" {
			return v
		}
		return def
	}
	var errs []error
	duration := func(k, def string) time.Duration {
		d, err := time.ParseDuration(get(k, def))
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: want a positive duration, got %q", k, get(k, def)))
			return 0
		}
		return d
	}

	c := Config{
		Port:           get("PORT", "4000"),
		ClientOrigin:   get("CLIENT_ORIGIN", "http://localhost:5173"),
		Store:          strings.ToLower(get("STORE", StoreSQLite)),
		SQLitePath:     get("SQLITE_PATH", "./data/leaderboard.db"),
		DatabaseURL:    get("DATABASE_URL", ""),
		EmojiAPIURL:    get("EMOJI_API_URL", "https://emojihub.yurace.pro/api/all"),
		EmojiSource:    strings.ToLower(get("EMOJI_SOURCE", EmojiHTTP)),
		EmojiCatalog:   get("EMOJI_CATALOG_FILE", ""),
		LeaderboardURL: get("LEADERBOARD_URL", ""),
		ResetDwell:     duration("RESET_DWELL", "10s"),
		RequestTimeout: duration("REQUEST_TIMEOUT", "10s"),
		SessionIdleTTL: duration("SESSION_IDLE_TTL", "30m"),
	}

	lvl, err := zerolog.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	c.LogLevel = lvl

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT: want 1-65535, got %q", c.Port))
	}
	if c.RecordLosses, err = strconv.ParseBool(get("RECORD_LOSSES", "false")); err != nil {
		errs = append(errs, fmt.Errorf("RECORD_LOSSES: want a boolean, got %q", get("RECORD_LOSSES", "")))
	}

	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE: want memory, sqlite or postgres, got %q", c.Store))
	}

	switch c.EmojiSource {
	case EmojiHTTP, EmojiEmbedded:
	default:
		errs = append(errs, fmt.Errorf("EMOJI_SOURCE: want http or embedded, got %q", c.EmojiSource))
	}
	for k, v := range map[string]string{"EMOJI_API_URL": c.EmojiAPIURL, "LEADERBOARD_URL": c.LeaderboardURL} {
		if v == "" {
			continue
		}
		if u, err := url.Parse(v); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: want an absolute URL, got %q", k, v))
		}
	}

	return c, errors.Join(errs...)
}
