// Package timer implements the countdown engine: a running flag and an
// elapsed-seconds counter advanced one second per tick while running.
package timer

// Engine tracks elapsed time for the currently active task. It is pure
// arithmetic gated by a boolean and has no failure modes.
//
// Exactly one tick source must be active at a time. Every call that starts
// (or restarts) the engine bumps an internal generation counter and returns
// it; a tick source must present its generation on every Tick, and ticks
// from a stale source are dropped. This guards against the double-speed
// counting defect where two periodic sources feed the same engine.
type Engine struct {
	running    bool
	elapsed    int // Seconds
	generation int
}

// New returns a stopped engine with zero elapsed time
func New() *Engine {
	return &Engine{}
}

// Start sets the running flag. It returns the generation the caller's tick
// source must use, and whether a new tick source should be spawned. When the
// engine is already running no new source may be started, or ticks would be
// double-counted.
func (e *Engine) Start() (generation int, started bool) {
	if e.running {
		return e.generation, false
	}
	e.running = true
	e.generation++
	return e.generation, true
}

// Pause clears the running flag. No-op if already paused. The active tick
// source observes the failed Tick and stops rescheduling itself.
func (e *Engine) Pause() {
	e.running = false
}

// Tick advances elapsed time by one second. It applies only while running
// and only for the current tick source generation; each tick either fires
// or does not, there is no partial tick. Returns whether it applied, which
// doubles as the signal for the source to schedule its next tick.
func (e *Engine) Tick(generation int) bool {
	if !e.running || generation != e.generation {
		return false
	}
	e.elapsed++
	return true
}

// Adjust adds a signed delta in seconds to the elapsed time, clamped at 0.
// Used for the manual +5m / -5m controls.
func (e *Engine) Adjust(delta int) {
	e.elapsed += delta
	if e.elapsed < 0 {
		e.elapsed = 0
	}
}

// Reset sets elapsed time to 0 and stops the engine. Called whenever the
// active task changes. Invalidates any outstanding tick source.
func (e *Engine) Reset() {
	e.elapsed = 0
	e.running = false
	e.generation++
}

// Running reports whether the engine is advancing
func (e *Engine) Running() bool {
	return e.running
}

// Elapsed returns the elapsed time in seconds
func (e *Engine) Elapsed() int {
	return e.elapsed
}
