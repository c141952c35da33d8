// Package player holds the per-game player roster and the balance ledger.
package player

import (
	"fmt"

	"github.com/jdalgaard/rondo/internal/game/dice"
)

// Player is one token on the board. The index in the roster doubles as
// the player identifier throughout the engine.
type Player struct {
	// Index is the player's position in the roster.
	Index int
	// Color is the display color, an hsl() string.
	Color string
	// TileIndex is the player's current tile, always in [0, boxCount).
	TileIndex int
}

// Roster is the ordered list of players for one game. Not safe for
// concurrent use; the turn engine serializes access.
type Roster struct {
	players []Player
}

// NewRoster creates count players, all at tile 0, with hues spaced evenly
// around the color circle from a random starting offset.
//
// Precondition: count >= 1; src must be non-nil.
func NewRoster(count int, src dice.Source) (*Roster, error) {
	if count < 1 {
		return nil, fmt.Errorf("player: count must be >= 1, got %d", count)
	}
	offset := src.Intn(360)
	players := make([]Player, count)
	for i := range players {
		hue := (offset + i*360/count) % 360
		players[i] = Player{
			Index: i,
			Color: fmt.Sprintf("hsl(%d, 70%%, 55%%)", hue),
		}
	}
	return &Roster{players: players}, nil
}

// Count returns the number of players.
func (r *Roster) Count() int { return len(r.players) }

// Get returns a copy of player i.
//
// Precondition: 0 <= i < Count().
func (r *Roster) Get(i int) Player { return r.players[i] }

// Tile returns player i's current tile index.
//
// Precondition: 0 <= i < Count().
func (r *Roster) Tile(i int) int { return r.players[i].TileIndex }

// Move places player i on the given tile.
//
// Precondition: 0 <= i < Count(); tile must already be normalized.
func (r *Roster) Move(i, tile int) {
	r.players[i].TileIndex = tile
}

// All returns a copy of the roster in index order.
func (r *Roster) All() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}
