package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsawler/labscan/internal/server"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `serve starts the HTTP API:

  POST /get-lab-tests   multipart field "file" holding the report image;
                        optional query flags preprocess and spellcheck
  GET  /health

Every scan response has status 200 and the body {"is_success": ..., "data": [...]}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			rec, err := newRecognizer()
			if err != nil {
				return err
			}
			scanner, err := newScanner(rec)
			if err != nil {
				return err
			}

			logger := logger.WithOperation("serve")
			logger.Info().
				Str("addr", cfg.Addr()).
				Bool("preprocessing", cfg.Pipeline.Preprocessing).
				Bool("spell_correction", cfg.Pipeline.SpellCorrection).
				Strs("languages", cfg.Pipeline.Languages).
				Int64("max_upload_bytes", cfg.Server.MaxUploadBytes).
				Msg("Starting labscan API")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg.Server, logger, scanner).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")

	return cmd
}
