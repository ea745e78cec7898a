package scoreclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/httpserver"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/scoreclient"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/store"
)

func newAPI(t *testing.T) *scoreclient.Client {
	t.Helper()
	srv := httpserver.New(httpserver.Config{Leaderboard: leaderboard.NewService(store.NewMemory())})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return scoreclient.New(ts.URL+"/", ts.Client())
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)
	for _, r := range []struct {
		d     game.Difficulty
		flips int
		won   bool
	}{{game.Easy, 14, true}, {game.Easy, 9, true}, {game.Hard, 40, false}} {
		e, err := c.Record(ctx, leaderboard.NewSubmission("mo", r.d, r.flips, r.won))
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if e.ID == "" || e.RecordedAt.IsZero() {
			t.Errorf("entry = %+v", e)
		}
	}

	rows, err := c.Leaderboard(ctx, leaderboard.Query{Difficulty: game.Easy, Limit: 1})
	if err != nil || len(rows) != 1 || rows[0].Flips != 9 {
		t.Errorf("Leaderboard = %+v, %v", rows, err)
	}
	hist, err := c.History(ctx, "mo")
	if err != nil || len(hist) != 3 {
		t.Errorf("History = %d rows, %v", len(hist), err)
	}
	st, err := c.OverallStats(ctx)
	if err != nil || st.TotalGames != 3 || st.TotalWins != 2 || st.AverageFlips != 12 {
		t.Errorf("OverallStats = %+v, %v", st, err)
	}
}

func TestHistoryEscapesUsername(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)
	for _, name := range []string{"100%25", "a/b"} {
		if _, err := c.Record(ctx, leaderboard.NewSubmission(name, game.Easy, 12, true)); err != nil {
			t.Fatalf("Record %q: %v", name, err)
		}
		hist, err := c.History(ctx, name)
		if err != nil || len(hist) != 1 || hist[0].Username != name {
			t.Errorf("History(%q) = %+v, %v", name, hist, err)
		}
	}
}

func TestValidationErrorSurvivesTheWire(t *testing.T) {
	c := newAPI(t)
	_, err := c.Record(context.Background(), leaderboard.NewSubmission("", "expert", -1, true))
	var ve *leaderboard.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Fields) != 3 {
		t.Errorf("fields = %+v", ve.Fields)
	}
}

func TestAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"persistence_failed","message":"db down"}`))
	}))
	defer ts.Close()

	_, err := scoreclient.New(ts.URL, nil).OverallStats(context.Background())
	var ae *scoreclient.APIError
	if !errors.As(err, &ae) || ae.StatusCode != 500 || ae.Code != "persistence_failed" {
		t.Errorf("err = %v", err)
	}
}
