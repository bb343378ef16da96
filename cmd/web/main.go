package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/arena-bracket/internal/config"
	"github.com/AdamBeresnev/arena-bracket/internal/db"
	"github.com/AdamBeresnev/arena-bracket/internal/live"
	"github.com/AdamBeresnev/arena-bracket/internal/logger"
	"github.com/AdamBeresnev/arena-bracket/internal/middleware"
	"github.com/AdamBeresnev/arena-bracket/internal/service"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(logger.New("info", false))
	if err != nil {
		logger.New("info", false).Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Store = sqlite3store.New(database.DB)

	hub := live.NewHub(log, cfg.AllowedOrigins)
	tournamentStore := store.NewTournamentStore(database)
	organizerStore := store.NewOrganizerStore(database)

	app := &application{
		logger:         log,
		sessions:       sessionManager,
		allowedOrigins: cfg.AllowedOrigins,
		hub:            hub,
		organizerStore: organizerStore,
		tournaments:    service.NewTournamentService(database, tournamentStore, cfg.ShareCodeLength),
		matches:        service.NewMatchService(database, tournamentStore, hub),
		organizers:     service.NewOrganizerService(organizerStore),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}
