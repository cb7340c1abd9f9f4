package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domaincheck/packages/config"
	"domaincheck/packages/domain"
)

type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawDomain string) (*domain.FetchOutcome, *domain.ContentSignals) {
	f.mu.Lock()
	f.fetched = append(f.fetched, rawDomain)
	f.mu.Unlock()
	outcome := &domain.FetchOutcome{Domain: rawDomain, Working: true, Protocol: "https"}
	return outcome, &domain.ContentSignals{Title: "t", FullText: "body", WordCount: 1}
}

func (f *fakeFetcher) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.fetched...)
	sort.Strings(out)
	return out
}

type fakeClassifier struct{}

func (fakeClassifier) Classify(fetch *domain.FetchOutcome, signals *domain.ContentSignals) domain.ClassificationResult {
	return domain.ClassificationResult{IsBusiness: true}
}

type fakeHealth struct {
	mu        sync.Mutex
	healthy   []bool
	recovered bool
	waits     int
}

func (h *fakeHealth) IsHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.healthy) == 0 {
		return true
	}
	v := h.healthy[0]
	h.healthy = h.healthy[1:]
	return v
}

func (h *fakeHealth) WaitForRecovery(ctx context.Context, maxRetries int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.waits++
	return h.recovered
}

type fakeRecorder struct {
	mu      sync.Mutex
	seeded  []string
	records []*domain.ResultRecord
}

func (r *fakeRecorder) Write(ctx context.Context, record *domain.ResultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRecorder) Seen(ctx context.Context, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.seeded {
		if d == name {
			return true
		}
	}
	for _, rec := range r.records {
		if rec.Domain == name {
			return true
		}
	}
	return false
}

func (r *fakeRecorder) Snapshot(ctx context.Context) (domain.Stats, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := domain.NewStats()
	stats.TotalProcessed = len(r.records)
	names := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		names = append(names, rec.Domain)
	}
	sort.Strings(names)
	return stats, names, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{BatchSize: 20, MaxWorkers: 4}
}

func newTestOrchestrator(t *testing.T, cfg config.Config, health *fakeHealth) (*Orchestrator, *fakeFetcher, *fakeRecorder, string) {
	t.Helper()
	f := &fakeFetcher{}
	r := &fakeRecorder{}
	path := filepath.Join(t.TempDir(), "progress.json")
	o := New(cfg, f, fakeClassifier{}, health, r, path, testLogger())
	return o, f, r, path
}

func TestBatches(t *testing.T) {
	domains := make([]string, 50)
	for i := range domains {
		domains[i] = "example.com"
	}
	batches := Batches(domains, 20)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 20)
	assert.Len(t, batches[1], 20)
	assert.Len(t, batches[2], 10)

	assert.Nil(t, Batches(nil, 20))
	assert.Len(t, Batches(domains[:5], 0), 5, "size below one degrades to one per batch")
}

func TestRunProcessesAllDomains(t *testing.T) {
	o, f, r, path := newTestOrchestrator(t, testConfig(), &fakeHealth{})

	domains := []string{"a.example", "b.example", "HTTPS://C.example/path", "a.example", "  "}
	state := domain.ProgressState{Stats: domain.NewStats()}
	require.NoError(t, o.Run(context.Background(), domains, state))

	assert.Equal(t, []string{"a.example", "b.example", "c.example"}, f.seen())
	assert.Len(t, r.records, 3)

	saved, err := LoadProgress(path)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.CurrentBatch)
	assert.Equal(t, 1, saved.TotalBatches)
	assert.Equal(t, []string{"a.example", "b.example", "c.example"}, saved.ProcessedDomains)
	assert.Equal(t, 3, saved.Stats.TotalProcessed)
	assert.NotEmpty(t, saved.StartTime)
	assert.NotEmpty(t, saved.LastUpdate)
}

func TestRunSkipsDomainsTheSinkHasSeen(t *testing.T) {
	o, f, r, _ := newTestOrchestrator(t, testConfig(), &fakeHealth{})
	r.seeded = []string{"done.example"}

	state := domain.ProgressState{Stats: domain.NewStats()}
	require.NoError(t, o.Run(context.Background(), []string{"done.example", "new.example"}, state))
	assert.Equal(t, []string{"new.example"}, f.seen())
}

func TestRunChecksConnectivityPerBatch(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 1
	health := &fakeHealth{healthy: []bool{true, false, true}, recovered: true}
	o, f, _, _ := newTestOrchestrator(t, cfg, health)

	require.NoError(t, o.Run(context.Background(), []string{"a.example", "b.example", "c.example"}, domain.ProgressState{Stats: domain.NewStats()}))
	assert.Len(t, f.seen(), 3)
	assert.Equal(t, 1, health.waits)
}

func TestRunAbortsWhenRecoveryFails(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 1
	health := &fakeHealth{healthy: []bool{true, false}, recovered: false}
	o, f, _, path := newTestOrchestrator(t, cfg, health)

	require.NoError(t, o.Run(context.Background(), []string{"a.example", "b.example"}, domain.ProgressState{Stats: domain.NewStats()}))
	assert.Equal(t, []string{"a.example"}, f.seen(), "second batch must not start without connectivity")

	saved, err := LoadProgress(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example"}, saved.ProcessedDomains)
}

func TestRunHonorsCancellation(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t, testConfig(), &fakeHealth{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := o.Run(ctx, []string{"a.example"}, domain.ProgressState{Stats: domain.NewStats()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDomains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.txt")
	content := "# leads batch one\nsmithcabins.com\n\n  beachstay.example  \n# comment\nlakehouse.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	domains, err := LoadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"smithcabins.com", "beachstay.example", "lakehouse.example"}, domains)

	_, err = LoadDomains(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestProgressRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")

	fresh, err := LoadProgress(path)
	require.NoError(t, err)
	assert.Empty(t, fresh.ProcessedDomains)
	assert.NotNil(t, fresh.Stats.Industries)

	state := domain.ProgressState{
		ProcessedDomains: []string{"a.example"},
		CurrentBatch:     2,
		TotalBatches:     5,
		StartTime:        "2025-03-09T10:00:00Z",
		LastUpdate:       "2025-03-09T10:05:00Z",
		Stats:            domain.NewStats(),
	}
	state.Stats.TotalProcessed = 1
	require.NoError(t, SaveProgress(path, state))

	loaded, err := LoadProgress(path)
	require.NoError(t, err)
	assert.Equal(t, state.ProcessedDomains, loaded.ProcessedDomains)
	assert.Equal(t, 2, loaded.CurrentBatch)
	assert.Equal(t, 1, loaded.Stats.TotalProcessed)
}
