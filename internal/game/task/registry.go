// Package task tracks the sparse mapping from board tiles to their
// assigned task records.
package task

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/game/dice"
)

// Default roll ranges for freshly assigned tasks.
const (
	DefaultPayoutMin = 5
	DefaultPayoutMax = 11
	DefaultStepsMin  = 1
	DefaultStepsMax  = 12
)

// Record is the mutable state attached to a task tile once landed on.
type Record struct {
	// Payout is credited to the collecting player when StepsRemaining
	// reaches zero through ReduceSteps.
	Payout int
	// StepsRemaining is the outstanding debt on this tile.
	StepsRemaining int
	// Owner is the index of the player who controls this task.
	Owner int
}

// Ranges bounds the random payout and steps drawn for new tasks.
//
// Invariant: PayoutMin <= PayoutMax and StepsMin <= StepsMax, with
// StepsMin >= 1.
type Ranges struct {
	PayoutMin, PayoutMax int
	StepsMin, StepsMax   int
}

// DefaultRanges returns the standard task roll ranges.
func DefaultRanges() Ranges {
	return Ranges{
		PayoutMin: DefaultPayoutMin,
		PayoutMax: DefaultPayoutMax,
		StepsMin:  DefaultStepsMin,
		StepsMax:  DefaultStepsMax,
	}
}

// Registry holds the task records for one game, keyed by tile index.
// Registry is not safe for concurrent use; the turn engine serializes
// access.
type Registry struct {
	records map[int]Record
	ranges  Ranges
	src     dice.Source
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry drawing new-task values from src
// within the given ranges.
//
// Precondition: src and logger must be non-nil; ranges must satisfy its invariant.
func NewRegistry(ranges Ranges, src dice.Source, logger *zap.Logger) *Registry {
	return &Registry{
		records: make(map[int]Record),
		ranges:  ranges,
		src:     src,
		logger:  logger,
	}
}

// Get returns the record at tile, if any.
func (r *Registry) Get(tile int) (Record, bool) {
	rec, ok := r.records[tile]
	return rec, ok
}

// Assign creates a fresh record at tile owned by owner, with payout and
// steps drawn from the configured ranges. Any existing record at the tile
// is overwritten; callers are expected to check Get first.
//
// Postcondition: Get(tile) returns the new record.
func (r *Registry) Assign(tile, owner int) Record {
	rec := Record{
		Payout:         r.rollBetween(r.ranges.PayoutMin, r.ranges.PayoutMax),
		StepsRemaining: r.rollBetween(r.ranges.StepsMin, r.ranges.StepsMax),
		Owner:          owner,
	}
	r.records[tile] = rec
	r.logger.Debug("task assigned",
		zap.Int("tile", tile),
		zap.Int("owner", owner),
		zap.Int("payout", rec.Payout),
		zap.Int("steps", rec.StepsRemaining),
	)
	return rec
}

// ReduceSteps decreases the debt at tile by n, clamping at zero. When the
// debt reaches zero the record is deleted and the pre-delete record is
// returned so the caller can credit its payout.
//
// Precondition: n >= 0.
// Postcondition: deleted reports whether the record was removed; ok is
// false when no record exists at tile (nothing changes).
func (r *Registry) ReduceSteps(tile, n int) (deleted bool, rec Record, ok bool) {
	rec, ok = r.records[tile]
	if !ok {
		return false, Record{}, false
	}
	rec.StepsRemaining -= n
	if rec.StepsRemaining <= 0 {
		rec.StepsRemaining = 0
		delete(r.records, tile)
		r.logger.Debug("task completed",
			zap.Int("tile", tile),
			zap.Int("owner", rec.Owner),
			zap.Int("payout", rec.Payout),
		)
		return true, rec, true
	}
	r.records[tile] = rec
	return false, rec, true
}

// IncreaseSteps extends the debt at tile by n. Used when a visiting player
// pays into an opponent's task, which lengthens the debt rather than
// shortening it.
//
// Precondition: n >= 0.
// Postcondition: ok is false when no record exists at tile.
func (r *Registry) IncreaseSteps(tile, n int) (Record, bool) {
	rec, ok := r.records[tile]
	if !ok {
		return Record{}, false
	}
	rec.StepsRemaining += n
	r.records[tile] = rec
	return rec, true
}

// Clear removes the record at tile outright. Used by pass-through
// transfers after the mover has been credited the payout.
func (r *Registry) Clear(tile int) {
	delete(r.records, tile)
}

// Count returns the number of live task records.
func (r *Registry) Count() int { return len(r.records) }

// All returns a snapshot of every live record keyed by tile index.
func (r *Registry) All() map[int]Record {
	out := make(map[int]Record, len(r.records))
	for tile, rec := range r.records {
		out[tile] = rec
	}
	return out
}

// Tiles returns the tile indices with live records in ascending order.
func (r *Registry) Tiles() []int {
	tiles := make([]int, 0, len(r.records))
	for tile := range r.records {
		tiles = append(tiles, tile)
	}
	sort.Ints(tiles)
	return tiles
}

// rollBetween draws a uniform value in [lo, hi].
func (r *Registry) rollBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}
