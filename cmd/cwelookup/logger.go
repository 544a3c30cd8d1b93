package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initLogger builds the console logger used by every command. Messages go to
// stderr unless logFile is set.
func initLogger(logFile string, quiet, verbose bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	prodConfig.Sampling = nil
	if verbose {
		prodConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if logFile != "" {
		prodConfig.OutputPaths = []string{logFile}
		prodConfig.ErrorOutputPaths = []string{logFile}
	}
	logger, err := prodConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("cwelookup"), nil
}
