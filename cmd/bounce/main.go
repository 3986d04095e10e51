// bounce is a one-button arcade game for the terminal: tap to keep the ball
// in the air, fly through the gaps, and don't touch the obstacles.
//
// Usage:
//
//	bounce play              - Play in this terminal
//	bounce serve             - Start SSH server for remote play
//	bounce runs              - List journaled runs
//	bounce replay <run-id>   - Re-simulate a journaled run
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--config <path>       - Use a custom game config YAML
//	--db <path>           - Set journal path (default: ~/.bounce/runs.db)
//	--log-level <level>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bounce/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

// main is the only exit point, so deferred cleanup in commands always runs.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bounce",
	Short: "Bounce - a one-button arcade game in your terminal",
	Long: `Bounce is a terminal arcade game with a single control: tap to push
the ball upward, pass through the gaps between obstacles to score, and
touch nothing else.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  runs     - List journaled runs
  replay   - Re-simulate a journaled run

Examples:
  bounce play
  bounce play --seed 42 --config ./my-bounce.yaml
  bounce serve --ssh :2222
  bounce runs --limit 5
  bounce replay 6f1c2d4e-...`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bounce/runs.db", "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger builds a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.bounce/bounce.log for appending. The terminal
// belongs to the game while it runs.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot expand home directory: %w", err)
	}
	dir := filepath.Join(home, ".bounce")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "bounce.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// loadConfig loads and validates the game config. Nothing can be played
// with an invalid one.
func loadConfig() (config.BounceConfig, error) {
	cfg, err := config.LoadBounce(flagConfig)
	if err != nil {
		return config.BounceConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.BounceConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// seed returns --seed, or a time-based seed when it is 0.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
