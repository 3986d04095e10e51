package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/config"
)

// Player mixes sound effects and the music loop into one output stream.
// Until Open succeeds nothing reaches a device, but calls are still safe.
type Player struct {
	mu     sync.Mutex
	cfg    config.Audio
	rate   beep.SampleRate
	mixer  *beep.Mixer
	music  *beep.Ctrl
	open   bool
	logger *log.Logger
}

// NewPlayer creates a player for cfg. Call Open to attach it to the speaker.
func NewPlayer(cfg config.Audio, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Open initializes the speaker and starts streaming the mixer.
// A disabled player opens successfully without touching the device.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open || !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.open = true
	p.logger.Debug("speaker open", "rate", int(p.rate))
	return nil
}

// Close stops all sound and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.open = false
	p.music = nil
}

// Play starts a one-shot sound effect.
func (p *Player) Play(id assets.ID) {
	if id == assets.Music {
		p.PlayMusic(id)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		return
	}
	s := Sound(id, p.rate, p.cfg.MasterVolume)
	if s == nil {
		p.logger.Debug("no sound for asset", "id", id)
		return
	}
	p.add(s)
}

// PlayMusic starts the music loop, replacing any loop already playing.
func (p *Player) PlayMusic(id assets.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || !p.cfg.Music {
		return
	}
	p.stopMusic()
	s := Sound(id, p.rate, p.cfg.MasterVolume)
	if s == nil {
		return
	}
	p.music = &beep.Ctrl{Streamer: s}
	p.add(p.music)
}

// StopMusic silences the music loop.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopMusic()
}

// Playing returns the number of streams in the mixer.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

func (p *Player) stopMusic() {
	if p.music == nil {
		return
	}
	if p.open {
		speaker.Lock()
		defer speaker.Unlock()
	}
	// A Ctrl without a streamer drains, so the mixer drops it.
	p.music.Streamer = nil
	p.music = nil
}

func (p *Player) add(s beep.Streamer) {
	if p.open {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.mixer.Add(s)
}
