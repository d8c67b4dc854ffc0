package main

import (
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"highrollers/internal/config"
	"highrollers/internal/session"
	"highrollers/internal/strategy"
	"highrollers/internal/tui"
)

type PlayCmd struct {
	LogFile string `help:"Write logs to this file instead of discarding them"`
}

// Run opens a practice table. Nothing is persisted, so no database is
// needed.
func (c *PlayCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{Level: cfg.Level(), ReportTimestamp: true})

	sessions := session.NewManager(session.Config{
		Rules:      cfg.Rules(),
		Advisor:    strategy.Basic{},
		NewShoe:    newShoe(cfg, logger),
		DealerPace: cfg.DealerPace(),
		Logger:     logger,
	})

	p := tea.NewProgram(tui.NewModel(ctx, sessions, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
