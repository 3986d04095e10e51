package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bounce/internal/games/bounce"
	"github.com/vovakirdan/bounce/internal/platform/tui"
	"github.com/vovakirdan/bounce/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a journaled run",
	Long: `Replay the recorded inputs of a run headlessly with its seed and tick
rate, then compare the outcome with the journal. The current game config
is used, so a run recorded under a different config may not match.

Exits with status 1 when the replay does not match.

Examples:
  bounce replay 6f1c2d4e-0b7a-4c55-9d0e-3a8f7e2b1c90
  bounce replay <run-id> --log-level debug`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

// errMismatch reports a replay whose outcome differs from the journal.
var errMismatch = errors.New("replay does not match the recording")

func runReplay(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run journal: %w", err)
	}
	defer store.Close()

	return replayRun(store, args[0])
}

// replayRun re-simulates a journaled run and reports whether it matches.
func replayRun(store *storage.Store, id string) error {
	logger, err := newLogger(os.Stderr, "replay")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec, err := store.Run(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		return fmt.Errorf("no run %q in the journal; see 'bounce runs': %w", id, err)
	}
	if err != nil {
		return err
	}
	actions, err := store.Actions(id)
	if err != nil {
		return err
	}

	in := bounce.ReplayInput{
		Seed:     rec.Seed,
		TickRate: rec.TickRate,
		Actions:  actions,
	}
	if rec.Finished() {
		in.MaxTicks = rec.Ticks
	}

	res, err := bounce.Replay(cfg, in, logger)
	if errors.Is(err, bounce.ErrNoActions) {
		fmt.Printf("Run %s never started: nothing to replay.\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (seed %d, %d actions)\n", rec.ID, rec.Seed, len(actions))
	fmt.Printf("  %-10s  %-6s  %-7s  %s\n", "", "Score", "Ticks", "Status")
	fmt.Printf("  %-10s  %-6d  %-7d  %s\n", "recorded", rec.Score, rec.Ticks, tui.RunStatus(rec))
	fmt.Printf("  %-10s  %-6d  %-7d  %s\n", "replayed", res.Score, res.Ticks, res.State)

	if !rec.Finished() {
		fmt.Println("Run was never finished; nothing to compare.")
		return nil
	}
	if !matches(rec, res) {
		fmt.Println("MISMATCH")
		return errMismatch
	}
	fmt.Println("Replay matches the recording.")
	return nil
}

func matches(rec storage.RunRecord, res bounce.ReplayResult) bool {
	return res.Score == rec.Score &&
		res.Ticks == rec.Ticks &&
		(res.State == bounce.Ended) == rec.Ended
}
