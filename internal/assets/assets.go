// Package assets names the sounds, effects and overlays the game asks its
// presentation layer for. The core only ever passes these identifiers; the
// data behind them belongs to whoever renders or plays them.
package assets

// ID is an opaque asset identifier.
type ID string

const (
	CoinSound       ID = "coin sound"
	ExplosionSound  ID = "explosion sound"
	ExplosionEffect ID = "explosion effect"
	LogoOverlay     ID = "logo overlay"
	GameOverOverlay ID = "game-over overlay"
	Music           ID = "music"
)

func (id ID) String() string {
	return string(id)
}
