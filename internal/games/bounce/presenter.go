package bounce

import (
	"time"

	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/core"
)

// Presenter is the presentation collaborator. The core hands it asset ids
// and numbers; drawing and sound are its business.
type Presenter interface {
	PlaySound(id assets.ID)
	PlayMusic(id assets.ID)
	StopMusic()
	EmitEffect(id assets.ID, at core.Vec)
	// SetOverlay shows an overlay at the given opacity in [0,1].
	SetOverlay(id assets.ID, alpha float64)
	RemoveOverlay(id assets.ID)
	ShowScore(score int)
	// Transition plays the scene change into a freshly built run.
	Transition(d time.Duration)
}

// NopPresenter discards every call. Used for headless runs.
type NopPresenter struct{}

func (NopPresenter) PlaySound(assets.ID)            {}
func (NopPresenter) PlayMusic(assets.ID)            {}
func (NopPresenter) StopMusic()                     {}
func (NopPresenter) EmitEffect(assets.ID, core.Vec) {}
func (NopPresenter) SetOverlay(assets.ID, float64)  {}
func (NopPresenter) RemoveOverlay(assets.ID)        {}
func (NopPresenter) ShowScore(int)                  {}
func (NopPresenter) Transition(time.Duration)       {}

var _ Presenter = NopPresenter{}
