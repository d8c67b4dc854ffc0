package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"highrollers/internal/config"
	"highrollers/internal/database"
	"highrollers/internal/game"
	"highrollers/internal/player"
	"highrollers/internal/session"
	"highrollers/internal/shoe"
	"highrollers/internal/strategy"
)

// app is what every long-running command shares: config, logger and the
// player store.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	repo   player.Repository
	close  func()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
	})
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	a := &app{cfg: cfg, logger: logger}
	if err := a.openRepo(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// openRepo picks Postgres for a postgres:// DATABASE_URL and SQLite
// otherwise.
func (a *app) openRepo(ctx context.Context) error {
	if database.IsPostgresURL(a.cfg.DatabaseURL) {
		pool, err := database.NewPostgres(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.repo = player.NewPostgresRepository(pool)
		a.close = pool.Close
		a.logger.Info("Database connected", "driver", "postgres")
		return nil
	}

	db, err := database.New(a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.repo = player.NewRepository(db.DB)
	a.close = func() { db.Close() }
	a.logger.Info("Database connected", "driver", "sqlite", "path", a.cfg.DatabaseURL)
	return nil
}

func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// newShoe returns a factory giving every session its own shoe.
func newShoe(cfg *config.Config, logger *log.Logger) func() game.Shoe {
	if cfg.ShoeSource == config.ShoeDeckOfCards {
		return func() game.Shoe {
			return shoe.NewDeckAPI(cfg.DeckAPIURL, cfg.Decks, logger)
		}
	}
	return func() game.Shoe {
		return shoe.NewLocal(cfg.Decks, nil)
	}
}

// sessions builds a manager for one surface.
func (a *app) sessions(saver session.Saver, withPace bool) *session.Manager {
	cfg := session.Config{
		Rules:        a.cfg.Rules(),
		Advisor:      strategy.Basic{},
		NewShoe:      newShoe(a.cfg, a.logger),
		Repo:         a.repo,
		Saver:        saver,
		StartCredits: int64(a.cfg.StartingCredits),
		Logger:       a.logger,
	}
	if withPace {
		cfg.DealerPace = a.cfg.DealerPace()
	}
	return session.NewManager(cfg)
}
