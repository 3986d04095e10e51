package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bounce/internal/platform/tui"
	"github.com/vovakirdan/bounce/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List journaled runs",
	Long: `Display the most recent runs in the journal, newest first.

With --browse the runs are shown in an interactive table; pressing Enter
on a run replays it.

Examples:
  bounce runs
  bounce runs --limit 5
  bounce runs --browse`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse runs interactively and replay the chosen one")
}

func runRuns(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run journal: %w", err)
	}
	defer store.Close()

	runs, err := store.Runs(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	if flagBrowse {
		return browse(store, runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bounce play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-6s  %-7s  %s\n", "Run", "Started", "Score", "Ticks", "Status")
	fmt.Printf("  %-36s  %-16s  %-6s  %-7s  %s\n", "---", "-------", "-----", "-----", "------")

	for _, r := range runs {
		fmt.Printf("  %-36s  %-16s  %-6d  %-7d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.Score, r.Ticks, tui.RunStatus(r))
	}
	return nil
}

func browse(store *storage.Store, runs []storage.RunRecord) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	id, err := tui.BrowseRuns(runs, width, height)
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	if id == "" {
		return nil
	}
	return replayRun(store, id)
}
