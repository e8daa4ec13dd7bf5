package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/galactic-brain/internal/config"
	"github.com/robalobadob/galactic-brain/internal/content"
	"github.com/robalobadob/galactic-brain/internal/game"
	"github.com/robalobadob/galactic-brain/internal/httpserver"
	"github.com/robalobadob/galactic-brain/internal/store"
	"github.com/robalobadob/galactic-brain/internal/travel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, db, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store")
	}
	if db != nil {
		defer db.Close()
	}

	hub := httpserver.NewHub(cfg.ClientOrigin)
	eng := game.New(ctx, game.Options{
		Traveler: travel.New(newProvider(cfg), cfg.TravelMin, cfg.TravelLanding),
		Store:    gw,
		Notifier: game.Notifiers{game.LogNotifier{}, hub},
	})
	defer eng.Close()

	srv := httpserver.New(eng, hub, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		JWTSecret:      cfg.JWTSecret,
		JWTExpiresDays: cfg.JWTExpiresDays,
		SecureCookies:  os.Getenv("NODE_ENV") == "production",
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting galactic-brain")
		return srv.Start(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
	log.Info().Msg("shut down")
}

// openStore picks the persistence backend. The returned db is nil for the
// memory store.
func openStore(cfg config.Config) (store.Gateway, *sql.DB, error) {
	if cfg.Store == config.StoreMemory {
		return store.NewMemoryStore(), nil, nil
	}
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store.NewSQLite(db), db, nil
}

func newProvider(cfg config.Config) content.Provider {
	if cfg.Offline() {
		if cfg.Provider == config.ProviderHTTP {
			log.Warn().Msg("PROVIDER_API_KEY not set, using the offline question bank")
		}
		return content.Offline{}
	}
	return content.NewHTTPProvider(content.HTTPConfig{
		URL:     cfg.ProviderURL,
		APIKey:  cfg.ProviderAPIKey,
		Model:   cfg.ProviderModel,
		Timeout: cfg.ProviderTimeout,
		Retries: cfg.ProviderRetries,
	})
}
