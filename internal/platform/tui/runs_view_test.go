package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bounce/internal/storage"
)

func sampleRuns() []storage.RunRecord {
	start := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	return []storage.RunRecord{
		{ID: "aaaa1111-0000-0000-0000-000000000000", StartedAt: start, FinishedAt: start.Add(time.Minute), Score: 4, Ticks: 900, Ended: true},
		{ID: "bbbb2222-0000-0000-0000-000000000000", StartedAt: start, FinishedAt: start.Add(time.Second), Ticks: 40},
		{ID: "cccc3333-0000-0000-0000-000000000000", StartedAt: start},
	}
}

func TestRunStatus(t *testing.T) {
	runs := sampleRuns()
	expected := []string{"game over", "abandoned", "unfinished"}
	for i, r := range runs {
		if got := RunStatus(r); got != expected[i] {
			t.Errorf("RunStatus(run %d) = %q, expected %q", i, got, expected[i])
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("aaaa1111-0000"); got != "aaaa1111" {
		t.Errorf("shortID() = %q, expected first group", got)
	}
	if got := shortID("plain"); got != "plain" {
		t.Errorf("shortID() = %q, expected unchanged", got)
	}
}

func TestRunsModelSelect(t *testing.T) {
	m := NewRunsModel(sampleRuns(), 80, 24)

	view := m.View()
	for _, text := range []string{"RUNS", "aaaa1111", "game over", "replay"} {
		if !strings.Contains(view, text) {
			t.Errorf("View() missing %q", text)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(RunsModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(RunsModel)

	if m.Selected() != "bbbb2222-0000-0000-0000-000000000000" {
		t.Errorf("Selected() = %q, expected the second run", m.Selected())
	}
	if cmd == nil {
		t.Error("selecting should quit the browser")
	}
}

func TestRunsModelQuitWithoutSelection(t *testing.T) {
	m := NewRunsModel(sampleRuns(), 80, 24)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(RunsModel)

	if m.Selected() != "" {
		t.Errorf("Selected() = %q, expected none", m.Selected())
	}
	if cmd == nil || m.View() != "" {
		t.Error("q should quit the browser")
	}
}

func TestRunsModelEmpty(t *testing.T) {
	m := NewRunsModel(nil, 80, 24)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(RunsModel)
	if cmd != nil || m.Selected() != "" {
		t.Error("enter on an empty journal should do nothing")
	}
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("empty journal should say so")
	}
}
