package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	store := openTestStore(t)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = tickingClock(start)

	if err := store.StartRun("run-a", 42, 60); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	for _, tick := range []int{0, 31, 75} {
		if err := store.RecordAction("run-a", tick); err != nil {
			t.Fatalf("RecordAction() failed: %v", err)
		}
	}

	r, err := store.Run("run-a")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if r.Finished() {
		t.Error("run should be in progress before FinishRun")
	}

	if err := store.FinishRun("run-a", 3, 400, true); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	r, err = store.Run("run-a")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if r.Seed != 42 || r.TickRate != 60 || r.Score != 3 || r.Ticks != 400 || !r.Ended {
		t.Errorf("got %+v", r)
	}
	if !r.StartedAt.Equal(start.Add(time.Second)) {
		t.Errorf("StartedAt = %v, expected %v", r.StartedAt, start.Add(time.Second))
	}
	if !r.Finished() || !r.FinishedAt.After(r.StartedAt) {
		t.Errorf("FinishedAt = %v, expected after %v", r.FinishedAt, r.StartedAt)
	}

	actions, err := store.Actions("run-a")
	if err != nil {
		t.Fatalf("Actions() failed: %v", err)
	}
	expected := []int{0, 31, 75}
	if len(actions) != len(expected) {
		t.Fatalf("Actions() = %v, expected %v", actions, expected)
	}
	for i := range expected {
		if actions[i] != expected[i] {
			t.Errorf("action %d = %d, expected %d", i, actions[i], expected[i])
		}
	}
}

func TestStoreAbandonedRun(t *testing.T) {
	store := openTestStore(t)

	if err := store.StartRun("run-b", 1, 30); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if err := store.FinishRun("run-b", 0, 12, false); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	r, err := store.Run("run-b")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if r.Ended {
		t.Error("abandoned run should not be marked ended")
	}
	if !r.Finished() {
		t.Error("abandoned run should still be finished")
	}
}

func TestStoreRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	store.now = tickingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	for _, id := range []string{"first", "second", "third"} {
		if err := store.StartRun(id, 1, 60); err != nil {
			t.Fatalf("StartRun(%s) failed: %v", id, err)
		}
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "third" || runs[2].ID != "first" {
		t.Errorf("order = %s, %s, %s; expected newest first", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := store.Runs(2)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(limited))
	}
}

func TestStoreRunsDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 25; i++ {
		if err := store.StartRun(string(rune('a'+i)), int64(i), 60); err != nil {
			t.Fatalf("StartRun() failed: %v", err)
		}
	}

	runs, err := store.Runs(0)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("Expected 20 runs, got %d", len(runs))
	}
}

func TestStoreRunNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Run("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run() = %v, expected ErrRunNotFound", err)
	}
	if err := store.FinishRun("missing", 1, 1, true); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("FinishRun() = %v, expected ErrRunNotFound", err)
	}

	actions, err := store.Actions("missing")
	if err != nil {
		t.Fatalf("Actions() failed: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("Expected no actions, got %v", actions)
	}
}

func TestStoreDuplicateRun(t *testing.T) {
	store := openTestStore(t)

	if err := store.StartRun("dup", 1, 60); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if err := store.StartRun("dup", 2, 60); err == nil {
		t.Error("StartRun() with a used id should fail")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.StartRun("kept", 9, 60); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Run("kept"); err != nil {
		t.Errorf("Run() after reopen = %v", err)
	}
}
