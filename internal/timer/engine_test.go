package timer

import (
	"testing"
)

func TestTickOnlyWhileRunning(t *testing.T) {
	e := New()

	// Ticks before start do nothing
	if e.Tick(0) {
		t.Error("Tick applied on a stopped engine")
	}
	if e.Elapsed() != 0 {
		t.Errorf("Elapsed = %d, want 0", e.Elapsed())
	}

	gen, started := e.Start()
	if !started {
		t.Fatal("Start on a fresh engine should start it")
	}
	for i := 0; i < 10; i++ {
		if !e.Tick(gen) {
			t.Fatalf("Tick %d did not apply", i)
		}
	}
	if e.Elapsed() != 10 {
		t.Errorf("Elapsed = %d, want 10", e.Elapsed())
	}

	e.Pause()
	if e.Tick(gen) {
		t.Error("Tick applied while paused")
	}
	if e.Elapsed() != 10 {
		t.Errorf("Elapsed changed while paused: %d", e.Elapsed())
	}
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	e := New()
	gen1, started := e.Start()
	if !started {
		t.Fatal("first Start should start the engine")
	}

	// A second Start must not hand out a new tick source
	gen2, started := e.Start()
	if started {
		t.Error("second Start should not request a new tick source")
	}
	if gen2 != gen1 {
		t.Errorf("second Start changed generation: %d != %d", gen2, gen1)
	}
}

// TestStaleTickSourceIsDropped is a regression test for the double-speed
// counting hazard: a tick source left over from before a pause/resume cycle
// must not advance the clock alongside the new source.
func TestStaleTickSourceIsDropped(t *testing.T) {
	e := New()
	staleGen, _ := e.Start()
	e.Tick(staleGen)

	e.Pause()
	freshGen, started := e.Start()
	if !started {
		t.Fatal("Start after Pause should start the engine")
	}
	if freshGen == staleGen {
		t.Fatal("resume did not bump the tick source generation")
	}

	// Simulate both sources firing for the same second
	if e.Tick(staleGen) {
		t.Error("stale tick source still advances the clock")
	}
	if !e.Tick(freshGen) {
		t.Error("fresh tick source should advance the clock")
	}
	if e.Elapsed() != 2 {
		t.Errorf("Elapsed = %d, want 2", e.Elapsed())
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	e := New()
	e.Adjust(100)
	if e.Elapsed() != 100 {
		t.Errorf("Elapsed = %d, want 100", e.Elapsed())
	}

	e.Adjust(-10000)
	if e.Elapsed() != 0 {
		t.Errorf("Elapsed = %d, want 0 after large negative adjust", e.Elapsed())
	}

	e.Adjust(300)
	e.Adjust(-300)
	if e.Elapsed() != 0 {
		t.Errorf("Elapsed = %d, want 0", e.Elapsed())
	}
}

func TestResetStopsAndInvalidatesSources(t *testing.T) {
	e := New()
	gen, _ := e.Start()
	for i := 0; i < 5; i++ {
		e.Tick(gen)
	}

	e.Reset()
	if e.Running() {
		t.Error("engine still running after Reset")
	}
	if e.Elapsed() != 0 {
		t.Errorf("Elapsed = %d, want 0 after Reset", e.Elapsed())
	}

	// The old source must be dead even if the engine is started again
	newGen, _ := e.Start()
	if e.Tick(gen) {
		t.Error("pre-Reset tick source survived Reset")
	}
	if !e.Tick(newGen) {
		t.Error("post-Reset tick source should apply")
	}
}
