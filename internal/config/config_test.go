package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	c, err := Load(env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != "4000" || c.Store != StoreSQLite || c.EmojiSource != EmojiHTTP || c.LogLevel != zerolog.InfoLevel {
		t.Errorf("config = %+v", c)
	}
	if c.ResetDwell != 10*time.Second || c.RequestTimeout != 10*time.Second || c.SessionIdleTTL != 30*time.Minute {
		t.Errorf("durations = %v %v %v", c.ResetDwell, c.RequestTimeout, c.SessionIdleTTL)
	}
	if c.RecordLosses {
		t.Error("losses recorded by default")
	}
	if c.SweepInterval() != time.Minute {
		t.Errorf("sweep = %v", c.SweepInterval())
	}
}

func TestOverrides(t *testing.T) {
	c, err := Load(env(map[string]string{
		"PORT":             "8080",
		"STORE":            "Postgres",
		"DATABASE_URL":     "postgres://localhost/lb",
		"EMOJI_SOURCE":     "embedded",
		"RECORD_LOSSES":    "true",
		"RESET_DWELL":      "2s",
		"SESSION_IDLE_TTL": "2m",
		"LOG_LEVEL":        "debug",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != "8080" || c.Store != StorePostgres || c.EmojiSource != EmojiEmbedded || !c.RecordLosses {
		t.Errorf("config = %+v", c)
	}
	if c.ResetDwell != 2*time.Second || c.LogLevel != zerolog.DebugLevel {
		t.Errorf("config = %+v", c)
	}
	if c.SweepInterval() != 30*time.Second {
		t.Errorf("sweep = %v", c.SweepInterval())
	}
}

func TestSweepIntervalHasFloor(t *testing.T) {
	c, err := Load(env(map[string]string{"SESSION_IDLE_TTL": "3ns"}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SweepInterval() != time.Second {
		t.Errorf("sweep = %v, want 1s", c.SweepInterval())
	}
}

func TestInvalidValuesReportedTogether(t *testing.T) {
	_, err := Load(env(map[string]string{
		"PORT":          "http",
		"STORE":         "redis",
		"RESET_DWELL":   "soon",
		"RECORD_LOSSES": "maybe",
		"EMOJI_SOURCE":  "ftp",
		"EMOJI_API_URL": "not a url",
	}))
	if err == nil {
		t.Fatal("Load accepted invalid values")
	}
	for _, k := range []string{"PORT", "STORE", "RESET_DWELL", "RECORD_LOSSES", "EMOJI_SOURCE", "EMOJI_API_URL"} {
		if !strings.Contains(err.Error(), k) {
			t.Errorf("error does not mention %s: %v", k, err)
		}
	}
}

func TestPostgresNeedsURL(t *testing.T) {
	if _, err := Load(env(map[string]string{"STORE": "postgres"})); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("err = %v", err)
	}
}
