// Package health provides the fixed-interval backend liveness monitor.
//
// The monitor is a deliberately simple signal: each tick fires an
// independent probe, the most recent result wins, and there is no backoff
// or retry coalescing. A changed backend base address is handled by
// stopping the monitor and starting a fresh one against the new address.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/book-expert/logger"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
)

// DefaultInterval is the polling cadence when none is configured.
const DefaultInterval = 4 * time.Second

// ProbeTimeout bounds a single health probe so a hung backend cannot pile
// up goroutines faster than they resolve.
const ProbeTimeout = 10 * time.Second

// Prober is the capability the monitor needs from the backend client.
type Prober interface {
	Health(ctx context.Context) backend.HealthStatus
}

// Monitor polls backend health and exposes the latest observed status.
type Monitor struct {
	prober   Prober
	interval time.Duration
	log      *logger.Logger
	onChange func(backend.HealthStatus)

	mu      sync.Mutex
	current backend.HealthStatus
	primed  bool
	seq     uint64
	applied uint64
	stop    chan struct{}
	stopped sync.Once
}

// New creates a monitor. A nil onChange is allowed; interval values at or
// below zero fall back to DefaultInterval.
func New(prober Prober, interval time.Duration, log *logger.Logger, onChange func(backend.HealthStatus)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Monitor{
		prober:   prober,
		interval: interval,
		log:      log,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
}

// Run probes immediately, then on every tick until the context is
// cancelled or Stop is called. Each probe runs in its own goroutine so a
// slow poll never blocks the schedule; results apply last-write-wins in
// issue order.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// Stop terminates the polling loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopped.Do(func() { close(m.stop) })
}

// Status returns the most recently applied probe outcome.
func (m *Monitor) Status() backend.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

func (m *Monitor) probe(ctx context.Context) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	go func() {
		probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		defer cancel()

		status := m.prober.Health(probeCtx)
		m.apply(seq, status)
	}()
}

// apply installs a probe result unless a later probe already reported.
// The first applied result always notifies, so observers learn the
// starting state without probing on their own.
func (m *Monitor) apply(seq uint64, status backend.HealthStatus) {
	m.mu.Lock()

	if seq < m.applied {
		m.mu.Unlock()

		return
	}

	changed := !m.primed || m.current.Reachable != status.Reachable
	m.primed = true
	m.applied = seq
	m.current = status
	m.mu.Unlock()

	if changed && m.log != nil {
		if status.Reachable {
			m.log.Info("Backend is online (version %s)", status.Version)
		} else {
			m.log.Warn("Backend is offline")
		}
	}

	if changed && m.onChange != nil {
		m.onChange(status)
	}
}
