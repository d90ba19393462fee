package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aescanero/scheme-screener/internal/config"
	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/eval/cel"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "screener",
		Short:        "Welfare scheme eligibility screener",
		Version:      fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newCheckCmd(), newScreenCmd())
	return root
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// newConditionEvaluator returns the CEL evaluator, or nil when custom conditions are disabled
func newConditionEvaluator(enabled bool) eligibility.ConditionEvaluator {
	if !enabled {
		return nil
	}
	return cel.NewEvaluator()
}

// catalogPath returns the flag value, falling back to SCHEMES_FILE
func catalogPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.SchemesFile, nil
}
