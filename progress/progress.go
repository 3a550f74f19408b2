// Package progress defines the progress-reporting contract shared by the
// SHATTER and VAULT engines: a single callback invoked from whichever task
// is producing progress, carrying a fraction in [0,1] and a human-readable
// status string.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Func reports progress as a fraction in [0,1] plus a short human status.
// Implementations must be safe to call from arbitrary goroutines, or callers
// must serialize calls themselves (SHATTER reassembly calls it only from its
// single ordered writer, never from the decrypt workers).
type Func func(fraction float64, status string)

// Nop discards progress reports. A nil Func must not be called; the engines
// substitute Nop when no Func is supplied.
func Nop(float64, string) {}

// Serialize wraps fn with a mutex so that it can be called concurrently from
// multiple goroutines without interleaving or racing on shared state the
// callback implementation might hold. A nil fn yields Nop.
func Serialize(fn Func) Func {
	if fn == nil {
		return Nop
	}
	var mu sync.Mutex
	return func(fraction float64, status string) {
		mu.Lock()
		defer mu.Unlock()
		fn(fraction, status)
	}
}

// Stats tracks a running throughput figure for the supplemented
// speed-reporting behavior carried over from the original sharding
// implementation's MB/s progress messages.
type Stats struct {
	start     time.Time
	processed int64
}

// NewStats starts a throughput tracker.
func NewStats() *Stats {
	return &Stats{start: time.Now()}
}

// Add records n additional processed bytes.
func (s *Stats) Add(n int64) {
	s.processed += n
}

// String renders "<done>/<total> (<x.y> MB/s)".
func (s *Stats) String(done, total int) string {
	elapsed := time.Since(s.start).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	mbPerSec := (float64(s.processed) / (1024 * 1024)) / elapsed
	return fmt.Sprintf("%d/%d (%.1f MB/s)", done, total, mbPerSec)
}
