// Package orchestrator drives the batch loop: it slices the domain list,
// fans each batch out to a bounded worker pool, gates every batch on the
// connectivity monitor and checkpoints progress after each one.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"domaincheck/packages/config"
	"domaincheck/packages/domain"
	"domaincheck/packages/metrics"
)

// Fetcher resolves one raw domain to its fetch outcome and, when the site
// works, its extracted content.
type Fetcher interface {
	Fetch(ctx context.Context, rawDomain string) (*domain.FetchOutcome, *domain.ContentSignals)
}

// Classifier runs the analysis stages for a working page.
type Classifier interface {
	Classify(fetch *domain.FetchOutcome, signals *domain.ContentSignals) domain.ClassificationResult
}

// Health is the connectivity gate consulted at batch boundaries.
type Health interface {
	IsHealthy() bool
	WaitForRecovery(ctx context.Context, maxRetries int) bool
}

// Recorder accepts finished results and reports the running aggregate.
// Seen covers both this run's writes and the seeds of a resumed run.
type Recorder interface {
	Write(ctx context.Context, record *domain.ResultRecord) error
	Snapshot(ctx context.Context) (domain.Stats, []string, error)
	Seen(ctx context.Context, name string) bool
}

type Orchestrator struct {
	cfg          config.Config
	fetcher      Fetcher
	engine       Classifier
	monitor      Health
	sink         Recorder
	logger       *slog.Logger
	progressPath string
}

func New(cfg config.Config, f Fetcher, engine Classifier,
	monitor Health, s Recorder, progressPath string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		fetcher:      f,
		engine:       engine,
		monitor:      monitor,
		sink:         s,
		logger:       logger,
		progressPath: progressPath,
	}
}

// Batches slices domains into runs of at most size.
func Batches(domains []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var out [][]string
	for start := 0; start < len(domains); start += size {
		end := start + size
		if end > len(domains) {
			end = len(domains)
		}
		out = append(out, domains[start:end])
	}
	return out
}

// Run processes every domain the sink has not already recorded.
// Connectivity is checked between batches, never mid-batch: an unhealthy
// network pauses the run at the batch boundary and aborts it if recovery
// fails.
func (o *Orchestrator) Run(ctx context.Context, domains []string, state domain.ProgressState) error {
	seen := make(map[string]struct{}, len(domains))
	var pending []string
	skipped := 0
	for _, raw := range domains {
		name := domain.NormalizeDomain(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if o.sink.Seen(ctx, name) {
			skipped++
			continue
		}
		pending = append(pending, name)
	}

	batches := Batches(pending, o.cfg.BatchSize)
	state.TotalBatches = len(batches)
	if state.StartTime == "" {
		state.StartTime = time.Now().Format(time.RFC3339)
	}
	o.logger.Info("Starting run",
		"total_domains", len(domains),
		"already_processed", skipped,
		"pending", len(pending),
		"batches", len(batches),
		"batch_size", o.cfg.BatchSize,
		"workers", o.cfg.MaxWorkers)

	for i, batch := range batches {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !o.monitor.IsHealthy() {
			o.logger.Warn("Connectivity lost, waiting for recovery", "batch", i+1)
			if !o.monitor.WaitForRecovery(ctx, o.cfg.MaxRecoveryRetries) {
				o.logger.Error("Connectivity did not recover, aborting run", "batch", i+1)
				return o.checkpoint(ctx, state, i)
			}
			o.logger.Info("Connectivity recovered, resuming", "batch", i+1)
		}

		metrics.CurrentBatch.Set(float64(i + 1))
		o.logger.Info("Processing batch", "batch", i+1, "total_batches", len(batches), "domains", len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.MaxWorkers)
		for _, name := range batch {
			name := name
			g.Go(func() error {
				return o.process(gctx, name)
			})
		}
		if err := g.Wait(); err != nil {
			o.checkpoint(context.WithoutCancel(ctx), state, i+1)
			return err
		}

		if err := o.checkpoint(ctx, state, i+1); err != nil {
			return err
		}

		if i < len(batches)-1 && o.cfg.BatchPause > 0 {
			select {
			case <-time.After(o.cfg.BatchPause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	o.logger.Info("Run complete", "batches", len(batches), "pending_processed", len(pending))
	return nil
}

func (o *Orchestrator) process(ctx context.Context, name string) error {
	outcome, signals := o.fetcher.Fetch(ctx, name)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	record := &domain.ResultRecord{Domain: outcome.Domain, Fetch: *outcome}
	if outcome.Working && signals != nil {
		record.Title = signals.Title
		record.Description = signals.Description
		record.Class = o.engine.Classify(&record.Fetch, signals)
	}

	if err := o.sink.Write(ctx, record); err != nil {
		o.logger.Error("Failed to record result", "domain", record.Domain, "error", err)
		return err
	}
	return nil
}

func (o *Orchestrator) checkpoint(ctx context.Context, state domain.ProgressState, batch int) error {
	stats, processed, err := o.sink.Snapshot(ctx)
	if err != nil {
		return err
	}
	state.Stats = stats
	state.ProcessedDomains = processed
	state.CurrentBatch = batch
	state.LastUpdate = time.Now().Format(time.RFC3339)
	if err := SaveProgress(o.progressPath, state); err != nil {
		o.logger.Error("Failed to save progress", "error", err)
		return err
	}
	return nil
}
