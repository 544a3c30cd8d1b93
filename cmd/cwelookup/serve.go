package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/internal/sources"
	"github.com/securego/cwelookup/server"
)

func addServe(parentCmd *cobra.Command, opts *options) {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST and GraphQL API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initLogger(opts.logFile, opts.quiet, opts.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() // #nosec

			config, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			srcs, err := sources.FromConfig(config, logger)
			if err != nil {
				return err
			}
			engine := cwelookup.NewEngine(config, srcs, logger)
			app, err := server.NewFiberApp(engine, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				logger.Info("shutting down")
				_ = app.Shutdown()
			}()

			logger.Info("listening", zap.String("addr", addr), zap.Stringer("mode", engine.Mode()))
			return app.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address the API listens on")
	parentCmd.AddCommand(cmd)
}
