package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"domaincheck/packages/classifier"
	"domaincheck/packages/config"
	"domaincheck/packages/connectivity"
	"domaincheck/packages/fetcher"
	"domaincheck/packages/metrics"
	"domaincheck/packages/orchestrator"
	"domaincheck/packages/sink"
)

func setupLogger(cfg config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logDir := filepath.Dir(cfg.LogFile)
	if err := os.MkdirAll(logDir, 0750); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error(
			"Failed to create log directory", "path", logDir, "error", err,
		)
	}

	logRotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}

	multiWriter := io.MultiWriter(os.Stdout, logRotator)

	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}).WithAttrs([]slog.Attr{slog.String("service", "domain-checker")})

	slog.SetDefault(slog.New(handler))
}

func newRootCmd() *cobra.Command {
	var domainsFile string
	var outputDir string
	var workers int
	var batchSize int

	cmd := &cobra.Command{
		Use:   "checker",
		Short: "Verify a domain list and classify vacation-rental leads",
		Long: `checker fetches every domain in the input list, verifies that it
serves a real website and classifies the business behind it: industry,
company size, business model and lead priority. Results stream into CSV
files as they are produced; progress is checkpointed per batch so an
interrupted run resumes where it left off.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if domainsFile != "" {
				cfg.DomainsFile = domainsFile
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if workers > 0 {
				cfg.MaxWorkers = workers
			}
			if batchSize > 0 {
				cfg.BatchSize = batchSize
			}
			setupLogger(cfg)
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&domainsFile, "domains", "d", "", "domain list file (one per line)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for CSV results")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers per batch")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "domains per batch")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	slog.Info("--- Starting Domain Checker ---",
		"domains_file", cfg.DomainsFile,
		"output_dir", cfg.OutputDir,
		"workers", cfg.MaxWorkers,
		"batch_size", cfg.BatchSize)

	if cfg.MetricsAddr != "" {
		go metrics.ExposeMetrics(cfg.MetricsAddr)
	}

	domains, err := orchestrator.LoadDomains(cfg.DomainsFile)
	if err != nil {
		return err
	}

	progressPath := filepath.Join(cfg.OutputDir, "progress.json")
	state, err := orchestrator.LoadProgress(progressPath)
	if err != nil {
		return err
	}
	if len(state.ProcessedDomains) > 0 {
		slog.Info("Resuming previous run",
			"already_processed", len(state.ProcessedDomains),
			"last_update", state.LastUpdate)
	}

	monitor := connectivity.New(connectivity.Options{
		Endpoints:      cfg.ProbeEndpoints,
		ProbeTimeout:   cfg.ProbeTimeout,
		Quorum:         cfg.ProbeQuorum,
		CacheTTL:       cfg.ConnectivityTTL,
		FailureTrigger: cfg.FailureTrigger,
		BackoffBase:    cfg.BackoffBase,
		BackoffCap:     cfg.BackoffCap,
	})

	f := fetcher.New(fetcher.Options{
		Timeout:      cfg.FetchTimeout(),
		DeepCrawl:    cfg.EnableDeepCrawl,
		DeepCrawlCap: cfg.DeepCrawlPageCap,
		CrawlTimeout: cfg.DeepCrawlTimeout,
	}, monitor)

	engine := classifier.NewEngine(cfg.HackedThreshold, cfg.UpgradeThreshold, slog.Default())

	results, err := sink.New(ctx, cfg.OutputDir, cfg.ResultDatabaseURL, state.ProcessedDomains)
	if err != nil {
		return err
	}
	defer results.Close()

	o := orchestrator.New(cfg, f, engine, monitor, results, progressPath, slog.Default())
	if err := o.Run(ctx, domains, state); err != nil {
		if ctx.Err() != nil {
			slog.Info("Shutdown signal received. Exiting...")
			return nil
		}
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}
