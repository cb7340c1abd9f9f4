// Package connectivity provides the process-wide network-health oracle.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"domaincheck/packages/metrics"
)

// Options tunes the monitor. Zero fields fall back to the defaults from
// the configuration layer.
type Options struct {
	Endpoints      []string
	ProbeTimeout   time.Duration
	Quorum         int
	CacheTTL       time.Duration
	FailureTrigger int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
}

// Monitor probes a fixed set of well-known endpoints and caches the
// verdict. All state is guarded by a single mutex: only one probe round
// runs at a time, and concurrent callers inside the cache window observe
// the cached result.
type Monitor struct {
	opts   Options
	client *http.Client

	mu                  sync.Mutex
	lastHealthy         bool
	lastCheck           time.Time
	consecutiveFailures int

	// sleep is swappable so recovery backoff is testable.
	sleep func(ctx context.Context, d time.Duration) bool
}

// endpoint-alive status codes: a probe target that answers at all counts,
// not just 200.
var aliveStatuses = map[int]struct{}{
	http.StatusOK:               {},
	http.StatusMovedPermanently: {},
	http.StatusFound:            {},
	http.StatusForbidden:        {},
	http.StatusNotFound:         {},
}

func New(opts Options) *Monitor {
	return &Monitor{
		opts: opts,
		client: &http.Client{
			Timeout: opts.ProbeTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		lastHealthy: true,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// IsHealthy reports whether the network looks usable. The cached verdict
// is served for CacheTTL unless FailureTrigger consecutive failures have
// accumulated, in which case a fresh probe round runs immediately.
func (m *Monitor) IsHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < m.opts.CacheTTL && m.consecutiveFailures < m.opts.FailureTrigger {
		return m.lastHealthy
	}
	return m.probeLocked()
}

func (m *Monitor) probeLocked() bool {
	m.lastCheck = time.Now()

	successes := 0
	for _, endpoint := range m.opts.Endpoints {
		resp, err := m.client.Get(endpoint)
		if err != nil {
			slog.Debug("Connectivity probe failed", "endpoint", endpoint, "error", err)
			continue
		}
		if _, alive := aliveStatuses[resp.StatusCode]; alive {
			successes++
		}
		resp.Body.Close()
	}

	if successes >= m.opts.Quorum {
		m.consecutiveFailures = 0
		m.lastHealthy = true
		slog.Debug("Network connectivity confirmed", "successes", successes)
		return true
	}

	m.consecutiveFailures++
	m.lastHealthy = false
	metrics.ConnectivityFailures.Inc()
	slog.Warn("Network connectivity issues detected", "attempt", m.consecutiveFailures, "successes", successes)
	return false
}

// NoteTransportError records a per-domain transport failure and reports
// whether the failure streak has crossed the systemic threshold. Workers
// call it so a wave of connection errors surfaces as a network problem
// rather than being charged to individual domains.
func (m *Monitor) NoteTransportError() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures++
	return m.consecutiveFailures >= m.opts.FailureTrigger
}

// NoteSuccess resets the failure streak after any successful fetch.
func (m *Monitor) NoteSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures = 0
}

// WaitForRecovery blocks until connectivity returns or maxRetries probe
// rounds have been exhausted, backing off exponentially between rounds
// (BackoffBase * 2^attempt, capped at BackoffCap). It never returns an
// error; false means the network stayed down or the context was canceled.
func (m *Monitor) WaitForRecovery(ctx context.Context, maxRetries int) bool {
	for attempt := 0; attempt < maxRetries; attempt++ {
		if m.IsHealthy() {
			return true
		}

		wait := m.opts.BackoffBase << attempt
		if wait > m.opts.BackoffCap {
			wait = m.opts.BackoffCap
		}
		slog.Warn("No connectivity, backing off", "wait", wait, "attempt", attempt+1, "max_retries", maxRetries)
		if !m.sleep(ctx, wait) {
			return false
		}
	}
	return false
}
