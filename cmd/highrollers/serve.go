package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"highrollers/internal/api"
	"highrollers/internal/auth"
	"highrollers/internal/player"
	"highrollers/internal/ws"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on (overrides HTTP_ADDR)"`
}

func (c *ServeCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if c.Addr != "" {
		a.cfg.HTTPAddr = c.Addr
	}

	var verifier auth.Verifier
	if a.cfg.FirebaseProjectID != "" {
		v, err := auth.NewFirebaseVerifier(a.cfg.FirebaseProjectID)
		if err != nil {
			return err
		}
		verifier = v
	} else {
		a.logger.Warn("FIREBASE_PROJECT_ID is not set, browser players stay in practice mode")
	}

	writer := player.NewWriter(a.repo, a.logger.WithPrefix("writer"))
	sessions := a.sessions(writer, true)
	hub := ws.NewHub(a.cfg, sessions, verifier, a.logger.WithPrefix("ws"))
	handler := api.NewHandler(a.cfg, a.repo, verifier, a.logger.WithPrefix("api"))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	handler.Routes(mux)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return writer.Run(ctx) })
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.logger.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
