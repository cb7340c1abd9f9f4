package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbeServer(t *testing.T, status int, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(endpoints ...string) Options {
	return Options{
		Endpoints:      endpoints,
		ProbeTimeout:   2 * time.Second,
		Quorum:         2,
		CacheTTL:       30 * time.Second,
		FailureTrigger: 3,
		BackoffBase:    60 * time.Second,
		BackoffCap:     300 * time.Second,
	}
}

func TestIsHealthyQuorum(t *testing.T) {
	ok1 := newProbeServer(t, http.StatusOK, nil)
	ok2 := newProbeServer(t, http.StatusForbidden, nil)
	bad := newProbeServer(t, http.StatusInternalServerError, nil)

	m := New(testOptions(ok1.URL, ok2.URL, bad.URL))
	assert.True(t, m.IsHealthy())
	assert.Equal(t, 0, m.consecutiveFailures)
}

func TestIsHealthyBelowQuorum(t *testing.T) {
	ok := newProbeServer(t, http.StatusOK, nil)
	bad1 := newProbeServer(t, http.StatusInternalServerError, nil)
	bad2 := newProbeServer(t, http.StatusBadGateway, nil)

	m := New(testOptions(ok.URL, bad1.URL, bad2.URL))
	assert.False(t, m.IsHealthy())
	assert.Equal(t, 1, m.consecutiveFailures)
}

func TestIsHealthyCachesResult(t *testing.T) {
	var hits atomic.Int64
	ok1 := newProbeServer(t, http.StatusOK, &hits)
	ok2 := newProbeServer(t, http.StatusOK, &hits)

	m := New(testOptions(ok1.URL, ok2.URL))
	require.True(t, m.IsHealthy())
	probed := hits.Load()

	require.True(t, m.IsHealthy())
	assert.Equal(t, probed, hits.Load(), "second call inside the cache window must not probe")
}

func TestFailureStreakBypassesCache(t *testing.T) {
	var hits atomic.Int64
	ok1 := newProbeServer(t, http.StatusOK, &hits)
	ok2 := newProbeServer(t, http.StatusOK, &hits)

	m := New(testOptions(ok1.URL, ok2.URL))
	require.True(t, m.IsHealthy())
	probed := hits.Load()

	assert.False(t, m.NoteTransportError())
	assert.False(t, m.NoteTransportError())
	assert.True(t, m.NoteTransportError())

	require.True(t, m.IsHealthy())
	assert.Greater(t, hits.Load(), probed, "a failure streak must force a fresh probe round")
	assert.Equal(t, 0, m.consecutiveFailures, "a healthy probe round resets the streak")
}

func TestNoteSuccessResetsStreak(t *testing.T) {
	m := New(testOptions())
	m.NoteTransportError()
	m.NoteTransportError()
	m.NoteSuccess()
	assert.False(t, m.NoteTransportError())
}

func TestWaitForRecoveryBackoff(t *testing.T) {
	bad1 := newProbeServer(t, http.StatusInternalServerError, nil)
	bad2 := newProbeServer(t, http.StatusInternalServerError, nil)

	opts := testOptions(bad1.URL, bad2.URL)
	opts.CacheTTL = 0
	m := New(opts)

	var waits []time.Duration
	m.sleep = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		return true
	}

	assert.False(t, m.WaitForRecovery(context.Background(), 4))
	require.Len(t, waits, 4)
	assert.Equal(t, 60*time.Second, waits[0])
	assert.Equal(t, 120*time.Second, waits[1])
	assert.Equal(t, 240*time.Second, waits[2])
	assert.Equal(t, 300*time.Second, waits[3], "backoff is capped at five minutes")
}

func TestWaitForRecoveryImmediate(t *testing.T) {
	ok1 := newProbeServer(t, http.StatusOK, nil)
	ok2 := newProbeServer(t, http.StatusFound, nil)

	m := New(testOptions(ok1.URL, ok2.URL))
	m.sleep = func(ctx context.Context, d time.Duration) bool {
		t.Fatal("should not sleep when the network is healthy")
		return false
	}
	assert.True(t, m.WaitForRecovery(context.Background(), 3))
}

func TestWaitForRecoveryCanceled(t *testing.T) {
	bad := newProbeServer(t, http.StatusInternalServerError, nil)

	opts := testOptions(bad.URL)
	opts.CacheTTL = 0
	m := New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, m.WaitForRecovery(ctx, 5))
}
