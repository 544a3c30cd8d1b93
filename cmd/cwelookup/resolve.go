package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/internal/sources"
	"github.com/securego/cwelookup/report"
)

var errNoIdentifiers = errors.New("no identifiers given, use --list or pass them as arguments")

func addResolve(parentCmd *cobra.Command, opts *options) {
	cmd := &cobra.Command{
		Use:   "resolve [ID...]",
		Short: "Resolve identifiers and write a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !report.IsValid(opts.format) {
				return fmt.Errorf("unknown report format %q, valid options are %v", opts.format, report.Formats())
			}
			ids := collectIdentifiers(opts.list, args)
			if len(ids) == 0 {
				return errNoIdentifiers
			}

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

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine := cwelookup.NewEngine(config, srcs, logger)
			batch, err := engine.ResolveBatch(ctx, ids)
			if err != nil {
				return err
			}
			if batch.Stats.Failed > 0 {
				logger.Warn("some identifiers could not be resolved", zap.Int("failed", batch.Stats.Failed))
			}
			enableColor := !opts.noColor && opts.output == ""
			return saveOutput(cmd.OutOrStdout(), opts.output, opts.format, enableColor, batch)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.list, "list", "l", "", "Comma separated list of identifiers")
	flags.StringVar(&opts.format, "fmt", string(report.ReportText), "Set output format. Valid options are: text, json, yaml, csv, junit-xml or lines")
	flags.StringVar(&opts.output, "out", "", "Set output file for results")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable color in the text report")

	parentCmd.AddCommand(cmd)
}
