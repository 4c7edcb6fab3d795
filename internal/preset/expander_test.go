package preset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

type fakeCreator struct {
	created []model.Task
	failAt  int // Fail the nth call (1-based); 0 never fails
}

func (f *fakeCreator) CreateTask(ctx context.Context, userID string, t model.Task) (*model.Task, error) {
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return nil, errors.New("create rejected")
	}
	t.ID = "id-" + t.Title
	f.created = append(f.created, t)
	return &t, nil
}

func morningPreset() model.Preset {
	return model.Preset{
		ID:     "p1",
		UserID: "u1",
		Name:   "Morning",
		Emoji:  "🌅",
		Tasks: []model.PresetTask{
			{Title: "Stretch", PlannedDuration: 10, Emoji: "🤸"},
			{Title: "Coffee", PlannedDuration: 5},
			{Title: "Plan day", PlannedDuration: 15, Emoji: "🗓️"},
		},
		TotalTime: 30,
	}
}

func TestExpandCopiesMembersInOrder(t *testing.T) {
	store := &fakeCreator{}
	tasks, err := Expand(context.Background(), store, morningPreset(), "u1", 5)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("created %d tasks, want 3", len(tasks))
	}

	wantOrders := []int{5, 6, 7}
	wantTitles := []string{"Stretch", "Coffee", "Plan day"}
	wantEmojis := []string{"🤸", model.DefaultEmoji, "🗓️"}
	wantDurations := []int{10, 5, 15}

	for i, task := range tasks {
		if task.Order != wantOrders[i] {
			t.Errorf("task %d order = %d, want %d", i, task.Order, wantOrders[i])
		}
		if task.Title != wantTitles[i] {
			t.Errorf("task %d title = %q, want %q", i, task.Title, wantTitles[i])
		}
		if task.Emoji != wantEmojis[i] {
			t.Errorf("task %d emoji = %q, want %q", i, task.Emoji, wantEmojis[i])
		}
		if task.PlannedDuration != wantDurations[i] {
			t.Errorf("task %d duration = %d, want %d", i, task.PlannedDuration, wantDurations[i])
		}
		if task.Completed || task.ActualDuration != 0 {
			t.Errorf("task %d = %+v, want fresh incomplete task", i, task)
		}
		if task.UserID != "u1" {
			t.Errorf("task %d owner = %q, want u1", i, task.UserID)
		}
	}
}

func TestExpandStopsAtFirstFailure(t *testing.T) {
	store := &fakeCreator{failAt: 2}
	tasks, err := Expand(context.Background(), store, morningPreset(), "u1", 0)
	if err == nil {
		t.Fatal("expected an error from the failing creator")
	}
	if len(tasks) != 1 {
		t.Fatalf("partial result has %d tasks, want 1 (no rollback, no continuation)", len(tasks))
	}
	if tasks[0].Title != "Stretch" {
		t.Errorf("partial task = %q, want Stretch", tasks[0].Title)
	}
}

func TestDuplicateIsADeepCopy(t *testing.T) {
	original := morningPreset()
	original.CreatedAt = time.Now()
	original.TotalTime = 999 // Stale cache; duplicate must recompute

	copied := Duplicate(original)

	if copied.Name != "Morning (Copy)" {
		t.Errorf("name = %q, want %q", copied.Name, "Morning (Copy)")
	}
	if copied.ID != "" {
		t.Errorf("id = %q, want empty (store assigns a new one)", copied.ID)
	}
	if copied.TotalTime != 30 {
		t.Errorf("total = %d, want 30 recomputed from members", copied.TotalTime)
	}
	if !copied.CreatedAt.IsZero() {
		t.Error("timestamps should be cleared")
	}

	// Mutating the copy must not touch the original
	copied.Tasks[0].Title = "changed"
	if original.Tasks[0].Title != "Stretch" {
		t.Error("Duplicate shares the member slice with the original")
	}
}

func TestComputedTotal(t *testing.T) {
	p := morningPreset()
	if got := p.ComputedTotal(); got != 30 {
		t.Errorf("ComputedTotal = %d, want 30", got)
	}

	empty := model.Preset{Name: "Empty"}
	if got := empty.ComputedTotal(); got != 0 {
		t.Errorf("ComputedTotal on empty preset = %d, want 0", got)
	}
}
