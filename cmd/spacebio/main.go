package main

import (
	"fmt"
	"os"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions carries what PersistentPreRunE loads for every subcommand.
type rootOptions struct {
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCMD() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "spacebio",
		Short:         "Conversational assistant over NASA space biology publications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.General.LogLevel, cfg.General.Debug)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	root.AddCommand(serveCMD(opts), askCMD(opts), sampleCMD(opts), searchCMD(opts))
	return root
}

func main() {
	if err := newRootCMD().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
