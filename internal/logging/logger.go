package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	// OutputPaths overrides the default stderr sink, e.g. a log file in terminal mode.
	OutputPaths []string
}

// New builds a production zap logger for the application.
func New(appName string, options Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if options.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if len(options.OutputPaths) > 0 {
		config.OutputPaths = options.OutputPaths
		config.ErrorOutputPaths = options.OutputPaths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(appName), nil
}
