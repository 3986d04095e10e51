package bounce

import (
	"github.com/vovakirdan/bounce/internal/assets"
	"github.com/vovakirdan/bounce/internal/physics"
)

// Outcome is how a contact was classified.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeScored
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeScored:
		return "scored"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// BeginContact implements physics.ContactListener.
func (r *Run) BeginContact(a, b physics.BodyID) {
	r.resolve(a, b)
}

// resolve classifies one contact and applies its effect. The score zone check
// runs first so a zone contact is never treated as a collision, even when
// the player overlaps the zone's obstacle body on the same tick.
func (r *Run) resolve(a, b physics.BodyID) Outcome {
	if r.state.State() != Active {
		return OutcomeIgnored
	}

	ea, okA := r.reg.ByBody(a)
	eb, okB := r.reg.ByBody(b)

	if (okA && ea.Tag == TagScoreZone) || (okB && eb.Tag == TagScoreZone) {
		if okA && ea.Tag == TagPlayer {
			r.reg.Remove(eb.ID)
		} else if okA {
			r.reg.Remove(ea.ID)
		}
		r.presenter.PlaySound(assets.CoinSound)
		score := r.score.Increment()
		r.logger.Debug("score", "run", r.id, "score", score)
		return OutcomeScored
	}

	if !okA || !okB {
		return OutcomeIgnored
	}

	if ea.Tag == TagObstacleBody || eb.Tag == TagObstacleBody {
		r.end()
		return OutcomeTerminal
	}
	return OutcomeIgnored
}
