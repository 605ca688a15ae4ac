package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/pzl-reminder/internal/config"
	"github.com/username/pzl-reminder/internal/lock"
	"github.com/username/pzl-reminder/internal/notify"
	"github.com/username/pzl-reminder/internal/puzzle"
	"github.com/username/pzl-reminder/internal/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "pzl-reminder",
		Short: "Puzzle report reminder",
		Long: "Checks month-to-date hours in Puzzle and shows a desktop notification " +
			"when reports are missing or unconfirmed. Meant to be run by a scheduler.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if err := cfg.API.CheckEndpoint(); err != nil {
		logger.Warn("Puzzle API endpoint unusable, every day will count as unreported",
			zap.String("endpoint", cfg.API.Endpoint),
			zap.Error(err))
	}

	client := puzzle.NewClient(cfg.API.Endpoint, cfg.API.GetRequestTimeout(), logger)
	sink := notify.New(notify.Options{
		AppName: cfg.Notify.AppName,
		Icon:    cfg.Notify.Icon,
		Timeout: cfg.Notify.GetTimeout(),
	}, logger)
	checker := report.NewChecker(client, sink, nil, cfg.Username, puzzle.ReportsURL(cfg.API.Endpoint), logger)
	guard := lock.New(lock.DefaultPath(), cfg.Lock.GetStaleAfter())

	runGuarded(ctx, guard, checker, logger)
	return nil
}

// runGuarded performs one check under the single-instance lock.
// Contention and lock faults end the run silently.
func runGuarded(ctx context.Context, guard lock.Guard, checker *report.Checker, logger *zap.Logger) bool {
	ran, err := lock.Run(guard, func() {
		checker.Check(ctx)
	})
	if err != nil {
		logger.Debug("Lock error, exiting", zap.Error(err))
	}
	if !ran {
		logger.Debug("Another instance holds the lock, exiting")
	}
	return ran
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.File != "" {
		return initFileLogger(cfg.File, level), nil
	}
	return initLogger(level)
}

func initLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

func initFileLogger(logFile string, level zapcore.Level) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(core)
}
