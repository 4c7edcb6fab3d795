package todoist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/store"
)

func newTaskServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tasks":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/42/close":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestActiveTasks(t *testing.T) {
	srv := newTaskServer(t, `[
		{"id": "1", "content": "Write report", "duration": {"amount": 25, "unit": "minute"}},
		{"id": "2", "content": "Deep work", "description": "no meetings"}
	]`)
	c := NewClientWithBaseURL("good-token", srv.URL)

	tasks, err := c.ActiveTasks(context.Background())
	if err != nil {
		t.Fatalf("ActiveTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Duration.Minutes() != 25 {
		t.Errorf("duration = %d minutes, want 25", tasks[0].Duration.Minutes())
	}
	if tasks[1].Duration.Minutes() != 0 {
		t.Errorf("absent duration = %d minutes, want 0", tasks[1].Duration.Minutes())
	}
}

func TestBadTokenIsUnauthorized(t *testing.T) {
	srv := newTaskServer(t, `[]`)
	c := NewClientWithBaseURL("bad-token", srv.URL)

	if _, err := c.ActiveTasks(context.Background()); err != ErrUnauthorized {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestCloseTask(t *testing.T) {
	srv := newTaskServer(t, `[]`)
	c := NewClientWithBaseURL("good-token", srv.URL)

	if err := c.CloseTask(context.Background(), "42"); err != nil {
		t.Errorf("CloseTask: %v", err)
	}
}

func TestDurationUnits(t *testing.T) {
	cases := []struct {
		d    *Duration
		want int
	}{
		{nil, 0},
		{&Duration{Amount: 45, Unit: "minute"}, 45},
		{&Duration{Amount: 1, Unit: "day"}, 1440},
		{&Duration{Amount: 3, Unit: "fortnight"}, 0},
	}
	for _, c := range cases {
		if got := c.d.Minutes(); got != c.want {
			t.Errorf("Minutes(%+v) = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestPullImportsOnlyNewTasks(t *testing.T) {
	srv := newTaskServer(t, `[
		{"id": "10", "content": "Already here", "duration": {"amount": 20, "unit": "minute"}},
		{"id": "11", "content": "Brand new", "duration": {"amount": 30, "unit": "minute"}},
		{"id": "12", "content": "Untimed"},
		{"id": "13", "content": "Done elsewhere", "is_completed": true}
	]`)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	u, err := st.CreateUser(ctx, "ray@example.com", "Ray", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// One task is already linked to Todoist id 10
	existing := "10"
	task, err := st.CreateTask(ctx, u.ID, mustTask("Already here", 20))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := st.UpdateTask(ctx, task.ID, taskLinkPatch(existing)); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	sy := NewSyncer(NewClientWithBaseURL("good-token", srv.URL), st)
	res, err := sy.Pull(ctx, u.ID)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 2 {
		t.Errorf("result = %+v, want 2 imported and 2 skipped", res)
	}

	tasks, err := st.ListTasks(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}

	byTitle := map[string]int{}
	for _, task := range tasks {
		byTitle[task.Title] = task.PlannedDuration
	}
	if byTitle["Brand new"] != 30 {
		t.Errorf("imported planned time = %d, want 30", byTitle["Brand new"])
	}
	// Untimed tasks fall back to the default planned time
	if byTitle["Untimed"] != 15 {
		t.Errorf("untimed planned time = %d, want default 15", byTitle["Untimed"])
	}

	// A second pull changes nothing
	res, err = sy.Pull(ctx, u.ID)
	if err != nil {
		t.Fatalf("second Pull: %v", err)
	}
	if res.Imported != 0 {
		t.Errorf("second pull imported %d tasks, want 0", res.Imported)
	}
}

func mustTask(title string, planned int) model.Task {
	return model.Task{Title: title, PlannedDuration: planned}
}

func taskLinkPatch(todoistID string) model.TaskPatch {
	return model.TaskPatch{TodoistID: &todoistID}
}

func TestPullUsesSmartTimeFromTitle(t *testing.T) {
	srv := newTaskServer(t, `[{"id": "20", "content": "Review notes 45"}]`)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	u, err := st.CreateUser(ctx, "ray@example.com", "Ray", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sy := NewSyncer(NewClientWithBaseURL("good-token", srv.URL), st)
	if _, err := sy.Pull(ctx, u.ID); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	tasks, _ := st.ListTasks(ctx, u.ID)
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].Title != "Review notes" || tasks[0].PlannedDuration != 45 {
		t.Errorf("imported = %q/%d, want %q/45", tasks[0].Title, tasks[0].PlannedDuration, "Review notes")
	}
}
