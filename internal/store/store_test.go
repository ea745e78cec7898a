package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/game"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(user string, d game.Difficulty, flips int, won bool, minute int) leaderboard.Entry {
	return leaderboard.Entry{
		ID:         uuid.NewString(),
		Username:   user,
		Difficulty: d,
		Flips:      flips,
		Won:        won,
		RecordedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

// runStoreSuite exercises the leaderboard.Store contract.
func runStoreSuite(t *testing.T, open func(t *testing.T) leaderboard.Store) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		st := open(t)
		n, err := st.Count(ctx, false)
		if err != nil || n != 0 {
			t.Fatalf("Count = %d, %v", n, err)
		}
		if _, ok, err := st.AverageWinningFlips(ctx); err != nil || ok {
			t.Fatalf("AverageWinningFlips ok=%v err=%v", ok, err)
		}
		rows, err := st.Leaderboard(ctx, leaderboard.Query{Limit: 50})
		if err != nil || len(rows) != 0 {
			t.Fatalf("Leaderboard = %v, %v", rows, err)
		}
	})

	t.Run("ranking order", func(t *testing.T) {
		st := open(t)
		seed := []leaderboard.Entry{
			entry("ann", game.Hard, 5, true, 1),
			entry("bob", game.Beginner, 12, true, 2),
			entry("cat", game.Beginner, 8, true, 3),
			entry("dan", game.Beginner, 20, true, 4),
			entry("eve", game.Easy, 3, true, 5),
			entry("fay", game.Beginner, 8, true, 6), // ties cat on flips, more recent
			entry("gus", game.Beginner, 1, false, 7),
			entry("hal", game.Insane, 2, true, 8),
		}
		for _, e := range seed {
			if err := st.Insert(ctx, e); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		rows, err := st.Leaderboard(ctx, leaderboard.Query{Limit: 50})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"fay", "cat", "bob", "dan", "eve", "ann", "hal"}
		if got := names(rows); fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}

		rows, err = st.Leaderboard(ctx, leaderboard.Query{Difficulty: game.Beginner, Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[0].Flips != 8 || rows[1].Flips != 8 {
			t.Errorf("beginner top 2 = %+v", rows)
		}
		for _, r := range rows {
			if !r.Won || r.Difficulty != game.Beginner {
				t.Errorf("unexpected row %+v", r)
			}
		}
	})

	t.Run("counts and average", func(t *testing.T) {
		st := open(t)
		for i, e := range []leaderboard.Entry{
			entry("a", game.Easy, 10, true, 1),
			entry("a", game.Easy, 13, true, 2),
			entry("a", game.Easy, 30, false, 3),
		} {
			if err := st.Insert(ctx, e); err != nil {
				t.Fatalf("insert %d: %v", i, err)
			}
		}
		all, _ := st.Count(ctx, false)
		won, _ := st.Count(ctx, true)
		avg, ok, err := st.AverageWinningFlips(ctx)
		if all != 3 || won != 2 || !ok || err != nil || avg != 11.5 {
			t.Errorf("all=%d won=%d avg=%v ok=%v err=%v", all, won, avg, ok, err)
		}
	})

	t.Run("history", func(t *testing.T) {
		st := open(t)
		for i := 0; i < 12; i++ {
			if err := st.Insert(ctx, entry("zed", game.Medium, i, i%2 == 0, i)); err != nil {
				t.Fatal(err)
			}
		}
		_ = st.Insert(ctx, entry("other", game.Medium, 1, true, 99))

		rows, err := st.History(ctx, "zed", leaderboard.HistoryLimit)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != leaderboard.HistoryLimit {
			t.Fatalf("got %d rows", len(rows))
		}
		for i, r := range rows {
			if r.Username != "zed" {
				t.Errorf("row %d belongs to %s", i, r.Username)
			}
			if i > 0 && r.RecordedAt.After(rows[i-1].RecordedAt) {
				t.Errorf("row %d is newer than row %d", i, i-1)
			}
		}
		if !rows[0].RecordedAt.Equal(base.Add(11 * time.Minute)) {
			t.Errorf("newest = %v", rows[0].RecordedAt)
		}
	})
}

func names(rows []leaderboard.Entry) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Username
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) leaderboard.Store { return NewMemory() })
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) leaderboard.Store {
		st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "lb.db"))
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		t.Cleanup(func() { _ = st.Close() })
		return st
	})
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lb.db")
	for i := 0; i < 2; i++ {
		st, err := OpenSQLite(context.Background(), path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		_ = st.Close()
	}
}

func TestSQLiteRejectsInvalidRows(t *testing.T) {
	st, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	bad := entry("x", "expert", 1, true, 0)
	if err := st.Insert(context.Background(), bad); err == nil {
		t.Error("insert with unknown difficulty succeeded")
	}
}

// Set TEST_DATABASE_URL to run against a scratch PostgreSQL database.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	runStoreSuite(t, func(t *testing.T) leaderboard.Store {
		ctx := context.Background()
		st, err := OpenPostgres(ctx, url)
		if err != nil {
			t.Fatalf("OpenPostgres: %v", err)
		}
		if _, err := st.pool.Exec(ctx, `TRUNCATE game_stats`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { _ = st.Close() })
		return st
	})
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- only a comment;\nCREATE INDEX b ON a (x);\n")
	if len(got) != 2 {
		t.Fatalf("got %d statements: %q", len(got), got)
	}
}
