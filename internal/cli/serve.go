package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pie-flavor/yahtzee/internal/common/uuid"
	"github.com/pie-flavor/yahtzee/internal/config"
	"github.com/pie-flavor/yahtzee/internal/dice"
	"github.com/pie-flavor/yahtzee/internal/httpserver"
	"github.com/pie-flavor/yahtzee/internal/registry"
	"github.com/pie-flavor/yahtzee/internal/tracker"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	arch, closeArchive, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeArchive(); err != nil {
			log.Warn().Err(err).Msg("close archive")
		}
	}()

	svc, err := tracker.New(&tracker.Config{
		Sessions: registry.NewMemory(),
		Archive:  arch,
		Roller:   dice.New(&dice.Config{Seed: cfg.DiceSeed}),
		IDs:      uuid.New(),
	})
	if err != nil {
		return err
	}

	srv, err := httpserver.New(svc, httpserver.Options{
		Cookie: httpserver.CookieOptions{
			Name:   cfg.CookieName,
			Secret: cfg.CookieSecret,
			Secure: cfg.CookieSecure,
		},
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", cfg.Addr()).
		Str("archive", cfg.ArchiveBackend).
		Msg("starting yahtzee")
	if err := srv.Start(ctx, cfg.Addr()); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	return nil
}
