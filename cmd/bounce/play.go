package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bounce/internal/audio"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/games/bounce"
	"github.com/vovakirdan/bounce/internal/platform/tui"
	"github.com/vovakirdan/bounce/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space/Up/W/Enter/Click  - Start, flap, restart after game over
  Q/Ctrl+C                - Quit

Every run is journaled with its seed and inputs so it can be replayed.
Logs go to ~/.bounce/bounce.log.

Examples:
  bounce play
  bounce play --seed 42
  bounce play --config ./my-bounce.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer logFile.Close()
	logger, err := newLogger(logFile, "bounce")
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed(),
	}

	var journal bounce.Journal
	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Play without a journal
		logger.Warn("could not open run journal", "error", err)
	} else {
		defer store.Close()
		journal = store
	}

	var sounds tui.Sounds = tui.Silent{}
	player := audio.NewPlayer(cfg.Audio, logger.WithPrefix("audio"))
	if err := player.Open(); err != nil {
		logger.Warn("audio unavailable", "error", err)
	} else {
		defer player.Close()
		sounds = player
	}

	model, err := tui.NewGame(cfg, rt, tui.GameOptions{
		Sounds:  sounds,
		Journal: journal,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting", "seed", rt.Seed, "fps", rt.TickRate, "size", []int{width, height})
	if err := tui.Run(model); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
