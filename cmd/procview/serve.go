package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/medshield-admin/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the process browser over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := web.DefaultConfig()
			cfg.Listen = a.cfg.Listen
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			cfg.RequestTimeout = a.cfg.RequestTimeout

			srv, err := web.NewServer(a.client, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info().
				Str("api", a.cfg.APIBaseURL).
				Bool("cache", a.redis != nil).
				Msg("Starting process browser")
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config, e.g. :8080)")
	return cmd
}
