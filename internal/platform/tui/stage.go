package tui

import (
	"math"
	"strconv"
	"time"

	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/games/bounce"
)

// Sounds plays audio assets. *audio.Player satisfies it.
type Sounds interface {
	Play(id assets.ID)
	PlayMusic(id assets.ID)
	StopMusic()
}

// Silent is a Sounds that plays nothing. SSH sessions use it.
type Silent struct{}

func (Silent) Play(assets.ID)      {}
func (Silent) PlayMusic(assets.ID) {}
func (Silent) StopMusic()          {}

const (
	particleCount = 12
	particleLife  = 600 * time.Millisecond
	particleSpeed = 140.0 // world units per second
)

type particle struct {
	pos core.Vec
	vel core.Vec
	age time.Duration
}

// Stage is the terminal presenter. It keeps what the core asked to show
// (overlays, score, particles, transitions) and draws it on top of the
// scene each frame.
type Stage struct {
	sounds    Sounds
	overlays  map[assets.ID]float64
	particles []particle
	score     int

	transition time.Duration
	remaining  time.Duration
	outgoing   *core.Screen
	last       *core.Screen
}

// NewStage creates a stage that forwards sound to sounds.
// A nil sounds plays nothing.
func NewStage(sounds Sounds) *Stage {
	if sounds == nil {
		sounds = Silent{}
	}
	return &Stage{
		sounds:   sounds,
		overlays: make(map[assets.ID]float64),
	}
}

func (s *Stage) PlaySound(id assets.ID) { s.sounds.Play(id) }
func (s *Stage) PlayMusic(id assets.ID) { s.sounds.PlayMusic(id) }
func (s *Stage) StopMusic()             { s.sounds.StopMusic() }

// EmitEffect bursts particles outward from at. Only the explosion has a
// visual; other ids are ignored.
func (s *Stage) EmitEffect(id assets.ID, at core.Vec) {
	if id != assets.ExplosionEffect {
		return
	}
	for i := 0; i < particleCount; i++ {
		angle := 2 * math.Pi * float64(i) / particleCount
		s.particles = append(s.particles, particle{
			pos: at,
			vel: core.V(math.Cos(angle), math.Sin(angle)).Scale(particleSpeed),
		})
	}
}

func (s *Stage) SetOverlay(id assets.ID, alpha float64) {
	s.overlays[id] = core.ClampF(alpha, 0, 1)
}

func (s *Stage) RemoveOverlay(id assets.ID) {
	delete(s.overlays, id)
}

func (s *Stage) ShowScore(score int) { s.score = score }

// Transition slides the next scene in from the right over d, pushing the
// last drawn frame out to the left.
func (s *Stage) Transition(d time.Duration) {
	s.particles = nil
	if d <= 0 || s.last == nil {
		s.remaining = 0
		s.outgoing = nil
		return
	}
	s.transition = d
	s.remaining = d
	s.outgoing = s.last.Clone()
}

// Overlay returns an overlay's opacity and whether it is shown at all.
func (s *Stage) Overlay(id assets.ID) (float64, bool) {
	a, ok := s.overlays[id]
	return a, ok
}

// Score returns the last score pushed by the core.
func (s *Stage) Score() int { return s.score }

// Particles returns the number of live particles.
func (s *Stage) Particles() int { return len(s.particles) }

// Transitioning reports whether a scene transition is playing.
func (s *Stage) Transitioning() bool { return s.remaining > 0 }

// Advance ages particles and the transition by dt of wall time.
func (s *Stage) Advance(dt time.Duration) {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.age += dt
		if p.age >= particleLife {
			continue
		}
		p.pos = p.pos.Add(p.vel.Scale(dt.Seconds()))
		live = append(live, p)
	}
	s.particles = live

	if s.remaining > 0 {
		s.remaining -= dt
		if s.remaining <= 0 {
			s.remaining = 0
			s.outgoing = nil
		}
	}
}

// Compose draws the stage's overlays, particles and score over a rendered
// scene and returns the frame to display.
func (s *Stage) Compose(scene *core.Screen, view Viewport) *core.Screen {
	for _, p := range s.particles {
		x, y := view.Cell(p.pos)
		r := '*'
		if p.age > particleLife/2 {
			r = '.'
		}
		scene.SetColored(x, y, r, core.ColorOrange)
	}

	s.drawOverlay(scene, assets.LogoOverlay, []string{"BOUNCE", "press space or click"})
	s.drawOverlay(scene, assets.GameOverOverlay, []string{
		"GAME OVER",
		"SCORE: " + strconv.Itoa(s.score),
		"press space to restart",
	})
	scene.DrawText(1, 0, "SCORE: "+strconv.Itoa(s.score), core.ColorBrightWhite)

	frame := scene
	if s.remaining > 0 && s.outgoing != nil {
		progress := 1 - float64(s.remaining)/float64(s.transition)
		w := scene.Width()
		shift := int(progress * float64(w))
		frame = core.NewScreen(w, scene.Height())
		frame.Blit(s.outgoing, -shift)
		frame.Blit(scene, w-shift)
	}
	s.last = frame.Clone()
	return frame
}

// drawOverlay centers lines on screen. Opacity maps to color: hidden at 0,
// dim while fading, bright from one half up.
func (s *Stage) drawOverlay(scene *core.Screen, id assets.ID, lines []string) {
	alpha, ok := s.overlays[id]
	if !ok || alpha <= 0 {
		return
	}
	color := core.ColorBrightYellow
	if id == assets.GameOverOverlay {
		color = core.ColorBrightRed
	}
	if alpha < 0.5 {
		color = core.ColorGray
	}
	top := (scene.Height() - len(lines)) / 2
	for i, line := range lines {
		scene.DrawTextCentered(top+i, line, color)
	}
	if id == assets.GameOverOverlay {
		w := 0
		for _, line := range lines {
			w = core.Max(w, len(line))
		}
		w += 4
		scene.DrawBox(core.NewRect((scene.Width()-w)/2, top-1, w, len(lines)+2), color)
	}
}

var _ bounce.Presenter = (*Stage)(nil)
