package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/iocapture/capture"
	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/config"
	"github.com/kbukum/iocapture/engine"
	"github.com/kbukum/iocapture/logger"
	"github.com/kbukum/iocapture/observability"
	"github.com/kbukum/iocapture/replay"
	"github.com/kbukum/iocapture/storage"
	"github.com/kbukum/iocapture/version"

	// Storage backends register themselves with storage.New.
	_ "github.com/kbukum/iocapture/storage/local"
	_ "github.com/kbukum/iocapture/storage/memory"
	_ "github.com/kbukum/iocapture/storage/s3"
)

const shutdownTimeout = 5 * time.Second

type runFlags struct {
	configPath string
	envPath    string
	logPath    string
	pattern    string
	out        string
	codec      string
	provider   string
	runID      string
}

// NewRunCommand scaffolds the "run" CLI command.
func NewRunCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a step log and capture the target operation's tuples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig(f)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			report, err := runCapture(cmd.Context(), cmd, cfg, f.logPath)
			if err != nil {
				return err
			}
			return printYAML(cmd, report)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to configuration file (optional)")
	flags.StringVar(&f.envPath, "env", "", "Path to .env file (optional)")
	flags.StringVar(&f.logPath, "log", "", "Step log to replay")
	flags.StringVar(&f.pattern, "pattern", "", "Target operation pattern (overrides capture.pattern)")
	flags.StringVar(&f.out, "out", "", "Output folder for local storage (overrides storage.base_path)")
	flags.StringVar(&f.codec, "codec", "", "Channel codec: yaml or json (overrides capture.codec)")
	flags.StringVar(&f.provider, "provider", "", "Storage provider (overrides storage.provider)")
	flags.StringVar(&f.runID, "run-id", "", "Run ID (overrides capture.run_id)")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

// loadRunConfig reads the configuration and applies flag overrides before
// defaults and validation.
func loadRunConfig(f runFlags) (*config.Config, error) {
	var opts []config.LoaderOption
	if f.configPath != "" {
		opts = append(opts, config.WithConfigFile(f.configPath))
	}
	if f.envPath != "" {
		opts = append(opts, config.WithEnvFile(f.envPath))
	}

	return config.Load(func(cfg *config.Config) {
		override(&cfg.Capture.Pattern, f.pattern)
		override(&cfg.Capture.Codec, f.codec)
		override(&cfg.Capture.RunID, f.runID)
		override(&cfg.Storage.Provider, f.provider)
		override(&cfg.Storage.BasePath, f.out)
	}, opts...)
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

func runCapture(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logPath string) (capture.Report, error) {
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr())
	logger.SetGlobalLogger(log)

	info := version.Get()
	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, info.Short(), cfg.Environment)
	if err != nil {
		return capture.Report{}, fmt.Errorf("init observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("observability shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return capture.Report{}, fmt.Errorf("init metrics: %w", err)
	}

	runID := cfg.Capture.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	store, err := storage.New(cfg.Storage.ForRun(runID), log)
	if err != nil {
		return capture.Report{}, err
	}
	c, err := codec.ByName(cfg.Capture.Codec)
	if err != nil {
		return capture.Report{}, err
	}

	f, err := os.Open(logPath)
	if err != nil {
		return capture.Report{}, fmt.Errorf("open step log: %w", err)
	}

	d := engine.NewDriver(engine.WithProgressEvery(cfg.Capture.ProgressEvery), engine.WithLogger(log))
	p, err := capture.New(capture.Options{
		Pattern:   cfg.Capture.Pattern,
		Storage:   store,
		Codec:     c,
		Collector: d.Collector(),
		Logger:    log,
		Metrics:   metrics,
		RunID:     runID,
	})
	if err != nil {
		_ = f.Close()
		return capture.Report{}, err
	}

	log.Info("replaying step log", logger.Fields(
		logger.FieldResource, logPath, logger.FieldRunID, runID, "version", info.Short()))
	if _, err := d.Run(ctx, p, replay.NewSource(logPath, f)); err != nil {
		return p.Report(), err
	}
	return p.Report(), nil
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
