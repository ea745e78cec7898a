package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/config"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/emoji"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/httpserver"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/play"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/scoreclient"
	"github.com/robalobadob/emoji-memory/apps/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	lb := leaderboard.NewService(st)

	source, categories, err := openEmoji(cfg)
	if err != nil {
		return err
	}

	// Hosted sessions report in-process unless a remote leaderboard is configured.
	var reporter play.Reporter = lb
	if cfg.LeaderboardURL != "" {
		reporter = scoreclient.New(cfg.LeaderboardURL, nil)
		log.Info().Str("url", cfg.LeaderboardURL).Msg("reporting results to remote leaderboard")
	}
	sessions := play.NewRegistry(source, reporter, play.Options{
		Dwell:        cfg.ResetDwell,
		RecordLosses: cfg.RecordLosses,
	})
	defer sessions.Close()

	srv := httpserver.New(httpserver.Config{
		Leaderboard:    lb,
		Sessions:       sessions,
		Categories:     categories,
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("emoji", cfg.EmojiSource).Msg("starting go-server")
		return srv.Serve(gctx, ":"+cfg.Port, 10*time.Second)
	})
	g.Go(func() error {
		sessions.Run(gctx, cfg.SweepInterval(), cfg.SessionIdleTTL)
		return nil
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (leaderboard.Store, func(), error) {
	var (
		st  leaderboard.Store
		c   io.Closer
		err error
	)
	switch cfg.Store {
	case config.StoreMemory:
		st = store.NewMemory()
	case config.StorePostgres:
		var pg *store.Postgres
		pg, err = store.OpenPostgres(ctx, cfg.DatabaseURL)
		st, c = pg, pg
	default:
		var sq *store.SQLite
		sq, err = store.OpenSQLite(ctx, cfg.SQLitePath)
		st, c = sq, sq
	}
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if c == nil {
			return
		}
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}
	return st, closeFn, nil
}

func openEmoji(cfg config.Config) (emoji.Source, []string, error) {
	if cfg.EmojiSource == config.EmojiEmbedded {
		cat, err := emoji.LoadCatalog(cfg.EmojiCatalog)
		if err != nil {
			return nil, nil, err
		}
		return cat, cat.Categories(), nil
	}
	return emoji.NewClient(cfg.EmojiAPIURL, nil), emoji.Categories, nil
}
