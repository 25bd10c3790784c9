// Package metrics records reconciliation and frame pass statistics.
package metrics

import "time"

// Recorder receives engine statistics. Implementations must be safe to call
// from the frame loop goroutine.
type Recorder interface {
	// ObserveReconcile records the outcome of one reconciliation pass.
	ObserveReconcile(
		mode string,
		spawned, retired, orphaned, recruited, released int,
		poolSize, assigned int,
		duration time.Duration,
	)

	// ObserveFrame records one per-frame steering and locomotion pass.
	ObserveFrame(agents, moving int, duration time.Duration)
}

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) ObserveReconcile(string, int, int, int, int, int, int, int, time.Duration) {}

func (nopRecorder) ObserveFrame(int, int, time.Duration) {}
