package cli

import (
	"os/signal"
	"syscall"

	"github.com/anywhereworks/worklogs/internal/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApplication(ctx, cfg)
		if err != nil {
			return err
		}
		return application.Run(ctx)
	},
}
