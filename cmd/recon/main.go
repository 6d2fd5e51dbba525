package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/config"
	"github.com/aryannaik/recon-dashboard/internal/logging"
	"github.com/aryannaik/recon-dashboard/internal/records"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
)

var (
	// Global flags
	recordsFile string
	logLevel    string
	dev         bool

	cfg    config.Config
	logger *zap.Logger
	dash   *app.App
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Recon system dashboard",
	Long: `recon serves the recon dashboard API and offers the same record search and
target filtering from the command line and a terminal UI.

The record database starts from a built-in list and can be replaced by a JSON,
YAML or CSV file (--records, RECON_RECORDS_FILE or POST /api/records/load).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("dev") {
			cfg.Dev = dev
		}
		if cmd.Flags().Changed("records") {
			cfg.RecordsFile = recordsFile
		}

		logger, err = logging.New(cfg.LogLevel, cfg.Dev)
		if err != nil {
			return err
		}

		dash, err = buildApp(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildApp(cfg config.Config, logger *zap.Logger) (*app.App, error) {
	store := records.NewStore(records.Builtin(), logger.Named("records"))
	if cfg.RecordsFile != "" {
		if _, err := store.LoadFile(cfg.RecordsFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.RecordsFile, err)
		}
	}

	opts := []session.Option{session.WithLogger(logger.Named("session"))}
	if cfg.RememberUser {
		opts = append(opts, session.WithRememberFile(cfg.DataDir))
	}
	return app.New(store, targets.Builtin(), session.NewManager(opts...), logger), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&recordsFile, "records", "", "Records file to load instead of the built-in list")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&dev, "dev", false, "Human-readable development logging")

	rootCmd.AddCommand(serveCmd, searchCmd, lookupCmd, targetsCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
