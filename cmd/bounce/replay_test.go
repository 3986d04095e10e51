package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/bounce/internal/games/bounce"
	"github.com/vovakirdan/bounce/internal/storage"
)

func TestReplayMatches(t *testing.T) {
	rec := storage.RunRecord{Score: 3, Ticks: 600, Ended: true}

	tests := []struct {
		name     string
		rec      storage.RunRecord
		res      bounce.ReplayResult
		expected bool
	}{
		{"same outcome", rec, bounce.ReplayResult{Score: 3, Ticks: 600, State: bounce.Ended}, true},
		{"different score", rec, bounce.ReplayResult{Score: 2, Ticks: 600, State: bounce.Ended}, false},
		{"different length", rec, bounce.ReplayResult{Score: 3, Ticks: 601, State: bounce.Ended}, false},
		{"still alive", rec, bounce.ReplayResult{Score: 3, Ticks: 600, State: bounce.Active}, false},
		{"abandoned run", storage.RunRecord{Score: 1, Ticks: 200}, bounce.ReplayResult{Score: 1, Ticks: 200, State: bounce.Active}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matches(tc.rec, tc.res); got != tc.expected {
				t.Errorf("matches() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReplayRunErrors(t *testing.T) {
	store := openTestStore(t)

	// Recorded outcome no real run of ten ticks can reach.
	if err := store.StartRun("forged", 5, 60); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if err := store.RecordAction("forged", 0); err != nil {
		t.Fatalf("RecordAction() failed: %v", err)
	}
	if err := store.FinishRun("forged", 99, 10, true); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	tests := []struct {
		name     string
		id       string
		expected error
	}{
		{"unknown run", "missing", storage.ErrRunNotFound},
		{"mismatch", "forged", errMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := replayRun(store, tc.id); !errors.Is(err, tc.expected) {
				t.Errorf("replayRun(%q) = %v, expected %v", tc.id, err, tc.expected)
			}
		})
	}

	// Errors are returned rather than exiting, so the store stays usable.
	if _, err := store.Run("forged"); err != nil {
		t.Errorf("Run() after failed replays: %v", err)
	}
}
