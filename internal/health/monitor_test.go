// Package health_test tests the liveness monitor against a scripted
// prober.
package health_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/health"
)

// scriptedProber alternates reachable/unreachable outcomes and remembers
// the last status it reported.
type scriptedProber struct {
	mu    sync.Mutex
	calls int
	last  backend.HealthStatus
}

func (p *scriptedProber) Health(_ context.Context) backend.HealthStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := backend.HealthStatus{
		Reachable: p.calls%2 == 0,
		Version:   "0.3.0",
	}
	p.calls++
	p.last = status

	return status
}

func (p *scriptedProber) snapshot() (int, backend.HealthStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls, p.last
}

func TestMonitor_TracksMostRecentPoll(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{}
	monitor := health.New(prober, 5*time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		calls, _ := prober.snapshot()

		return calls >= 5
	}, time.Second, time.Millisecond)

	monitor.Stop()

	// Let any in-flight probe land, then confirm the status matches the
	// final poll outcome only.
	time.Sleep(20 * time.Millisecond)

	_, last := prober.snapshot()
	assert.Equal(t, last, monitor.Status())
}

func TestMonitor_StopHaltsPolling(t *testing.T) {
	t.Parallel()

	prober := &scriptedProber{}
	monitor := health.New(prober, 5*time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		calls, _ := prober.snapshot()

		return calls >= 2
	}, time.Second, time.Millisecond)

	monitor.Stop()
	time.Sleep(20 * time.Millisecond)

	callsAfterStop, _ := prober.snapshot()
	time.Sleep(30 * time.Millisecond)

	calls, _ := prober.snapshot()
	assert.Equal(t, callsAfterStop, calls, "no probes may fire after Stop")

	// Stop must be idempotent.
	monitor.Stop()
}

func TestMonitor_ChangeCallbackFiresOnTransitions(t *testing.T) {
	t.Parallel()

	var (
		mu          sync.Mutex
		transitions []bool
	)

	prober := &scriptedProber{}
	monitor := health.New(prober, 5*time.Millisecond, nil,
		func(status backend.HealthStatus) {
			mu.Lock()
			transitions = append(transitions, status.Reachable)
			mu.Unlock()
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(transitions) >= 3
	}, time.Second, time.Millisecond)

	monitor.Stop()

	mu.Lock()
	defer mu.Unlock()

	// The prober alternates every poll, so consecutive notifications must
	// alternate too: each one is a genuine transition.
	for i := 1; i < len(transitions); i++ {
		assert.NotEqual(t, transitions[i-1], transitions[i])
	}
}

// steadyProber reports the same status on every poll.
type steadyProber struct {
	status backend.HealthStatus
}

func (p *steadyProber) Health(_ context.Context) backend.HealthStatus {
	return p.status
}

func TestMonitor_FirstProbeAlwaysNotifies(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		notified []backend.HealthStatus
	)

	// An offline start matches the zero status, so only the first-probe
	// rule produces a notification here.
	monitor := health.New(&steadyProber{}, 5*time.Millisecond, nil,
		func(status backend.HealthStatus) {
			mu.Lock()
			notified = append(notified, status)
			mu.Unlock()
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(notified) >= 1
	}, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	monitor.Stop()

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, notified, 1, "steady status notifies exactly once")
	assert.False(t, notified[0].Reachable)
}

func TestMonitor_DefaultInterval(t *testing.T) {
	t.Parallel()

	monitor := health.New(&scriptedProber{}, 0, nil, nil)
	require.NotNil(t, monitor)
	assert.False(t, monitor.Status().Reachable)
}
