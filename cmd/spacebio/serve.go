package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammad-safakhou/spacebio/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCMD(opts *rootOptions) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, logger := opts.cfg, opts.logger
			if addr != "" {
				cfg.Server.Address = addr
			}
			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Warn("close resources", zap.Error(err))
				}
			}()

			if list, err := a.index.Load(ctx); err != nil {
				logger.Warn("article index not available yet", zap.Error(err))
			} else {
				logger.Info("article index loaded", zap.Int("articles", len(list)))
			}

			if cfg.Index.RefreshCron != "" {
				sched, err := server.NewScheduler(cfg.Index.RefreshCron, a.index, cfg.Index.Timeout, logger)
				if err != nil {
					return err
				}
				sched.Start(ctx)
				defer sched.Stop()
			}

			srv := server.New(cfg.Server, cfg.Telemetry, server.Deps{
				Pipeline: a.pipeline,
				Index:    a.index,
				Ranker:   a.ranker,
				Metrics:  a.metrics,
				Logger:   logger,
				TopK:     cfg.Index.TopK,
			})
			return srv.Run(ctx)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return serve
}
