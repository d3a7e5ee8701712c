// Package metrics provides observability for the life server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance counters.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Simulation metrics
	GenerationsComputed int64
	UndoCount           int64
	UndoNoOps           int64

	// Journal metrics
	JournalWrites      int64
	JournalWriteLatSum int64
	JournalWriteLatMax int64
	JournalWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordGenerations records computed generations.
func (c *Collector) RecordGenerations(n int64) {
	atomic.AddInt64(&c.GenerationsComputed, n)
}

// RecordUndo records an undo request and whether it was a no-op.
func (c *Collector) RecordUndo(noop bool) {
	atomic.AddInt64(&c.UndoCount, 1)
	if noop {
		atomic.AddInt64(&c.UndoNoOps, 1)
	}
}

// RecordJournalWrite records an event write to the database.
func (c *Collector) RecordJournalWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.JournalWrites, 1)
	atomic.AddInt64(&c.JournalWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.JournalWriteLatMax) {
		atomic.StoreInt64(&c.JournalWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.JournalWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	journalWrites := atomic.LoadInt64(&c.JournalWrites)

	var tickAvg, journalAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if journalWrites > 0 {
		journalAvg = float64(atomic.LoadInt64(&c.JournalWriteLatSum)) / float64(journalWrites) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"simulation": map[string]interface{}{
			"generations": atomic.LoadInt64(&c.GenerationsComputed),
			"undos":       atomic.LoadInt64(&c.UndoCount),
			"undo_noops":  atomic.LoadInt64(&c.UndoNoOps),
		},

		"journal": map[string]interface{}{
			"writes":           journalWrites,
			"avg_write_lat_ms": journalAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.JournalWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.JournalWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP life_tick_count Total tick cycles\n")
		fmt.Fprintf(w, "# TYPE life_tick_count counter\n")
		fmt.Fprintf(w, "life_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP life_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE life_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "life_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP life_generations_computed Total generations computed\n")
		fmt.Fprintf(w, "# TYPE life_generations_computed counter\n")
		fmt.Fprintf(w, "life_generations_computed %d\n\n", atomic.LoadInt64(&c.GenerationsComputed))

		fmt.Fprintf(w, "# HELP life_undo_total Total undo requests\n")
		fmt.Fprintf(w, "# TYPE life_undo_total counter\n")
		fmt.Fprintf(w, "life_undo_total{outcome=\"applied\"} %d\n", atomic.LoadInt64(&c.UndoCount)-atomic.LoadInt64(&c.UndoNoOps))
		fmt.Fprintf(w, "life_undo_total{outcome=\"noop\"} %d\n\n", atomic.LoadInt64(&c.UndoNoOps))

		fmt.Fprintf(w, "# HELP life_journal_writes Total journal events written\n")
		fmt.Fprintf(w, "# TYPE life_journal_writes counter\n")
		fmt.Fprintf(w, "life_journal_writes %d\n\n", atomic.LoadInt64(&c.JournalWrites))

		fmt.Fprintf(w, "# HELP life_journal_write_errors Total journal write errors\n")
		fmt.Fprintf(w, "# TYPE life_journal_write_errors counter\n")
		fmt.Fprintf(w, "life_journal_write_errors %d\n\n", atomic.LoadInt64(&c.JournalWriteErrors))

		fmt.Fprintf(w, "# HELP life_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE life_ws_connections gauge\n")
		fmt.Fprintf(w, "life_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP life_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE life_ws_messages_total counter\n")
		fmt.Fprintf(w, "life_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "life_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
