package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colorcascade/assets"
	"github.com/robalobadob/colorcascade/internal/config"
	"github.com/robalobadob/colorcascade/internal/db"
	"github.com/robalobadob/colorcascade/internal/httpserver"
	"github.com/robalobadob/colorcascade/internal/palette"
	"github.com/robalobadob/colorcascade/internal/results"
	"github.com/robalobadob/colorcascade/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.UsingDevSecret() {
		log.Warn().Msg("SESSION_SECRET not set; using development signing key")
	}

	colors, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.PaletteFile).Msg("failed to load palette")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(context.Background(), conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	sessions := store.NewMemoryStore()
	srv := httpserver.New(httpserver.Options{
		Store:         sessions,
		Results:       results.NewStore(conn),
		Palette:       colors,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		RevealDelay:   cfg.RevealDelay,
		ClientOrigin:  cfg.ClientOrigin,
		SecureCookies: cfg.SecureCookies,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepSessions(ctx, sessions, cfg.SweepInterval, cfg.SessionTTL)

	addr := net.JoinHostPort("", cfg.Port)
	go func() {
		log.Info().Str("addr", addr).Dur("revealDelay", cfg.RevealDelay).Msg("starting colorcascade")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("could not stop server")
	}
}

// sweepSessions evicts sessions idle for longer than ttl until ctx ends.
func sweepSessions(ctx context.Context, st store.Store, every, ttl time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
		}
	}
}
