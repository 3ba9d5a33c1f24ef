package cli

import (
	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/internal/logging"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	configPath string
	cfg        config.Application
)

var rootCmd = &cobra.Command{
	Use:   "worklogs",
	Short: "Completed worklog reports built from the ticket store",
	Long: `Expands a reporting window into working days, weekends and holidays, credits completed tickets
to developers per day and reduces them to per-developer summaries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logging.Setup(cfg.Log)
		log.Debugf("worklogs %s", Version)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/application.yaml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd, newReportCmd())
}
