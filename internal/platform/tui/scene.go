package tui

import (
	"math"

	"github.com/vovakirdan/bounce/internal/config"
	"github.com/vovakirdan/bounce/internal/core"
	"github.com/vovakirdan/bounce/internal/games/bounce"
)

// Viewport maps the playfield (origin bottom-left, y up) onto a character
// grid (origin top-left, y down).
type Viewport struct {
	Field config.Playfield
	Cols  int
	Rows  int
}

// Cell returns the grid cell containing world point p.
func (v Viewport) Cell(p core.Vec) (x, y int) {
	gx, gy := v.grid(p)
	return int(math.Floor(gx)), int(math.Floor(gy))
}

// Rect returns the grid cells covered by box. Anything that occupies part
// of the field gets at least one cell.
func (v Viewport) Rect(b core.Box) core.Rect {
	left, top := v.grid(core.V(b.Min().X, b.Max().Y))
	right, bottom := v.grid(core.V(b.Max().X, b.Min().Y))
	x0, y0 := int(math.Floor(left)), int(math.Floor(top))
	x1, y1 := int(math.Ceil(right)), int(math.Ceil(bottom))
	return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
}

func (v Viewport) grid(p core.Vec) (float64, float64) {
	return p.X / v.Field.Width * float64(v.Cols),
		float64(v.Rows) - p.Y/v.Field.Height*float64(v.Rows)
}

var tagStyle = map[bounce.Tag]struct {
	fill  rune
	color core.Color
}{
	bounce.TagPlayer:       {'@', core.ColorBrightYellow},
	bounce.TagGround:       {'▓', core.ColorGreen},
	bounce.TagObstacleBody: {'█', core.ColorRed},
}

// DrawRun renders the run's entities. Score zones are invisible.
func DrawRun(screen *core.Screen, run *bounce.Run) Viewport {
	view := Viewport{Field: run.Playfield(), Cols: screen.Width(), Rows: screen.Height()}
	screen.Clear()

	entities := run.Entities()
	// Ground first so bodies standing on it stay visible.
	for _, pass := range []func(bounce.Tag) bool{
		func(t bounce.Tag) bool { return t == bounce.TagGround },
		func(t bounce.Tag) bool { return t != bounce.TagGround },
	} {
		for _, e := range entities {
			st, ok := tagStyle[e.Tag]
			if !ok || !pass(e.Tag) {
				continue
			}
			screen.DrawRect(view.Rect(e.Box()), st.fill, st.color)
		}
	}
	return view
}
