package engine

import (
	"context"
	"time"

	"github.com/atreyapandit/gameoflife/server/internal/platform/logger"
	"github.com/atreyapandit/gameoflife/server/internal/platform/metrics"
)

// TickRate is the real-time cadence of the simulation clock. With the
// autoplay interval of 100 ticks this advances roughly one generation
// per second while autoplay is on.
const TickRate = 10 * time.Millisecond

// Ticker drives the Simulation's tick entry point at a fixed cadence.
// It knows nothing about the board; OnTick owns the autoplay policy.
type Ticker struct {
	sim      *Simulation
	logger   *logger.Logger
	stopChan chan struct{}
}

// NewTicker creates a new simulation clock.
func NewTicker(sim *Simulation, log *logger.Logger) *Ticker {
	return &Ticker{
		sim:      sim,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the clock loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Simulation ticker started.")

	ticker := time.NewTicker(TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually.")
			return
		case <-ticker.C:
			start := time.Now()
			t.sim.OnTick()
			metrics.Get().RecordTick(time.Since(start))
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
