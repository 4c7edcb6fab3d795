package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/tasklist"
	"github.com/rayclock/rayclock/internal/timer"
)

type stubStore struct {
	calls     int
	fail      bool
	lastID    string
	lastPatch model.TaskPatch
}

func (s *stubStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	s.calls++
	s.lastID = id
	s.lastPatch = patch
	if s.fail {
		return nil, errors.New("persistence unavailable")
	}
	return &model.Task{ID: id}, nil
}

type stubNotifier struct {
	calls int
	fail  bool
}

func (n *stubNotifier) SendTaskComplete(title string, actualMinutes int) error {
	n.calls++
	if n.fail {
		return errors.New("no notification daemon")
	}
	return nil
}

func newFixture(tasks ...model.Task) (*timer.Engine, *tasklist.Controller, *stubStore, *stubNotifier, *Watcher) {
	engine := timer.New()
	list := tasklist.New()
	list.SetAll(tasks)
	store := &stubStore{}
	notifier := &stubNotifier{}
	return engine, list, store, notifier, NewWatcher(engine, list, store, notifier)
}

func task(id, title string, planned int) model.Task {
	return model.Task{ID: id, Title: title, PlannedDuration: planned}
}

// Runs the tick/check loop the way the UI does: one check per elapsed change.
func runTicks(t *testing.T, engine *timer.Engine, w *Watcher, gen, n int) *Completion {
	t.Helper()
	for i := 0; i < n; i++ {
		if !engine.Tick(gen) {
			t.Fatalf("tick %d did not apply", i+1)
		}
		if c, fired := w.Check(context.Background()); fired {
			return c
		}
	}
	return nil
}

func TestFiresExactlyOnceAtThreshold(t *testing.T) {
	engine, list, store, _, w := newFixture(task("t1", "Write report", 25))

	gen, _ := engine.Start()
	var completion *Completion
	for i := 1; i <= 1500; i++ {
		engine.Tick(gen)
		c, fired := w.Check(context.Background())
		if fired {
			if completion != nil {
				t.Fatal("watcher fired twice")
			}
			if i != 1500 {
				t.Fatalf("fired at tick %d, want 1500", i)
			}
			completion = c
		}
	}

	if completion == nil {
		t.Fatal("watcher never fired")
	}
	if completion.ActualDuration != 25 {
		t.Errorf("ActualDuration = %d, want 25", completion.ActualDuration)
	}
	if !completion.Finished || completion.Advanced {
		t.Errorf("completion = %+v, want Finished with no advance", completion)
	}
	if list.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (no next task)", list.Cursor())
	}
	if engine.Running() || engine.Elapsed() != 0 {
		t.Errorf("engine = running %v elapsed %d, want stopped at 0", engine.Running(), engine.Elapsed())
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1", store.calls)
	}
}

func TestDoesNotFireWhilePaused(t *testing.T) {
	engine, _, store, _, w := newFixture(task("t1", "Stretch", 1))

	// Jump past the threshold while paused
	engine.Adjust(120)
	if _, fired := w.Check(context.Background()); fired {
		t.Fatal("fired while paused")
	}
	if store.calls != 0 {
		t.Error("persistence called while paused")
	}

	// Completion is an effect of progressing time: it fires as soon as the
	// elapsed time changes again while running.
	gen, _ := engine.Start()
	engine.Tick(gen)
	if _, fired := w.Check(context.Background()); !fired {
		t.Error("did not fire after resuming past the threshold")
	}
}

func TestAdjustCrossingThresholdFires(t *testing.T) {
	engine, _, _, _, w := newFixture(task("t1", "Email", 5))

	engine.Start()
	engine.Adjust(300) // +5m control jumps straight to the boundary
	c, fired := w.Check(context.Background())
	if !fired {
		t.Fatal("check skipped a threshold crossed in one step")
	}
	if c.ActualDuration != 5 {
		t.Errorf("ActualDuration = %d, want 5", c.ActualDuration)
	}
}

func TestActualDurationRoundsUp(t *testing.T) {
	cases := []struct {
		elapsed int
		want    int
	}{
		{60, 1},
		{61, 2},
		{59, 1},
		{1500, 25},
	}
	for _, tc := range cases {
		engine, _, _, _, w := newFixture(task("t1", "x", 1))
		engine.Start()
		engine.Adjust(tc.elapsed)
		c, fired := w.Check(context.Background())
		if !fired {
			t.Fatalf("elapsed=%d: watcher did not fire", tc.elapsed)
		}
		if c.ActualDuration != tc.want {
			t.Errorf("elapsed=%d: ActualDuration = %d, want %d", tc.elapsed, c.ActualDuration, tc.want)
		}
	}
}

func TestForcedCompletionWithZeroElapsed(t *testing.T) {
	_, list, _, _, w := newFixture(task("t1", "x", 10))

	c, ok := w.Complete(context.Background())
	if !ok {
		t.Fatal("Complete found no current task")
	}
	if c.ActualDuration != 0 {
		t.Errorf("ActualDuration = %d, want 0", c.ActualDuration)
	}
	if got := list.Tasks()[0]; !got.Completed {
		t.Error("task not marked completed")
	}
}

func TestCompleteOnEmptyList(t *testing.T) {
	_, _, _, _, w := newFixture()
	if _, ok := w.Complete(context.Background()); ok {
		t.Error("Complete on empty list should report no task")
	}
}

func TestAdvanceToNextTaskWithoutAutoStart(t *testing.T) {
	engine, list, _, _, w := newFixture(
		task("a", "A", 10),
		task("b", "B", 15),
	)

	gen, _ := engine.Start()
	c := runTicks(t, engine, w, gen, 600)
	if c == nil {
		t.Fatal("watcher did not fire within 600 ticks")
	}

	if !c.Advanced || c.Finished {
		t.Errorf("completion = %+v, want Advanced", c)
	}
	if list.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", list.Cursor())
	}
	if engine.Running() {
		t.Error("next task auto-started; it must be started manually")
	}
	if engine.Elapsed() != 0 {
		t.Errorf("elapsed = %d, want 0 for the next task", engine.Elapsed())
	}

	cur, _ := list.Current()
	if cur.Title != "B" {
		t.Errorf("current task = %q, want B", cur.Title)
	}
}

func TestOptimisticUpdateOnSaveFailure(t *testing.T) {
	engine, list, store, _, w := newFixture(
		task("a", "A", 1),
		task("b", "B", 1),
	)
	store.fail = true

	engine.Start()
	engine.Adjust(60)
	c, fired := w.Check(context.Background())
	if !fired {
		t.Fatal("watcher did not fire")
	}

	if c.SaveErr == nil {
		t.Error("SaveErr not surfaced")
	}
	if c.RolledBack {
		t.Error("optimistic watcher rolled back")
	}
	if got := list.Tasks()[0]; !got.Completed {
		t.Error("local task lost its completion on save failure")
	}
	if list.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 (still advances)", list.Cursor())
	}
}

func TestRollbackOnSaveFailure(t *testing.T) {
	engine, list, store, notifier, w := newFixture(
		task("a", "A", 1),
		task("b", "B", 1),
	)
	store.fail = true
	w.RollbackOnError = true

	engine.Start()
	engine.Adjust(90)
	c, fired := w.Check(context.Background())
	if !fired {
		t.Fatal("watcher did not fire")
	}

	if !c.RolledBack || c.SaveErr == nil {
		t.Errorf("completion = %+v, want rolled back with error", c)
	}
	if got := list.Tasks()[0]; got.Completed || got.ActualDuration != 0 {
		t.Errorf("task = %+v, want completion reverted", got)
	}
	if list.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 (no advance on rollback)", list.Cursor())
	}
	if engine.Elapsed() != 90 {
		t.Errorf("elapsed = %d, want 90 preserved for retry", engine.Elapsed())
	}
	if engine.Running() {
		t.Error("engine should stay paused after rollback")
	}
	if notifier.calls != 0 {
		t.Error("feedback sent for a rolled-back completion")
	}
}

func TestNotifierFailureDoesNotBlockCompletion(t *testing.T) {
	engine, list, _, notifier, w := newFixture(task("a", "A", 1))
	notifier.fail = true

	engine.Start()
	engine.Adjust(60)
	c, fired := w.Check(context.Background())
	if !fired {
		t.Fatal("watcher did not fire")
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
	if c.SaveErr != nil {
		t.Errorf("SaveErr = %v, want nil", c.SaveErr)
	}
	if got := list.Tasks()[0]; !got.Completed {
		t.Error("notification failure blocked the completion")
	}
}
