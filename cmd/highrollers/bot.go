package main

import (
	"golang.org/x/sync/errgroup"

	"highrollers/internal/bot"
	"highrollers/internal/player"
)

type BotCmd struct{}

func (c *BotCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	writer := player.NewWriter(a.repo, a.logger.WithPrefix("writer"))
	// Chat messages arrive whole, so the dealer is not paced here.
	sessions := a.sessions(writer, false)

	b, err := bot.New(a.cfg, sessions, a.repo, a.logger.WithPrefix("bot"))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return writer.Run(ctx) })
	g.Go(func() error { return b.Run(ctx) })
	return g.Wait()
}
