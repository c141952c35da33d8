// Package track models the circular board: tile index arithmetic and the
// placement of task tiles around the ring.
package track

import (
	"fmt"
	"math"
	"sort"

	"github.com/jdalgaard/rondo/internal/game/dice"
)

// MaxTaskDensity is the hard cap on the fraction of tiles that may carry
// tasks. Tile 0 (home) never carries one.
const MaxTaskDensity = 0.25

// Track is the immutable circular board layout for one game.
//
// Invariant: every task tile index is in [1, Size()).
type Track struct {
	size      int
	taskTiles map[int]bool
}

// New builds a track with boxCount tiles and up to taskCount task tiles.
// taskCount is clamped to floor(boxCount*MaxTaskDensity); task tiles are
// placed by even spacing with random jitter, de-duplicated by probing
// forward to the next free non-home slot.
//
// Precondition: src must be non-nil.
// Postcondition: The track has exactly min(taskCount, floor(boxCount/4))
// distinct task tiles, none of them tile 0.
func New(boxCount, taskCount int, src dice.Source) (*Track, error) {
	if boxCount < 2 {
		return nil, fmt.Errorf("track: boxCount must be >= 2, got %d", boxCount)
	}
	maxTasks := int(float64(boxCount) * MaxTaskDensity)
	if taskCount > maxTasks {
		taskCount = maxTasks
	}
	if taskCount < 0 {
		taskCount = 0
	}

	tr := &Track{
		size:      boxCount,
		taskTiles: make(map[int]bool, taskCount),
	}
	tr.sampleTaskTiles(taskCount, src)
	return tr, nil
}

// sampleTaskTiles picks k distinct tile indices using the even-spacing-plus-
// jitter scheme. The scattered-but-spread placement is deliberate: uniform
// random sampling clusters tiles and changes game balance.
func (t *Track) sampleTaskTiles(k int, src dice.Source) {
	if k == 0 {
		return
	}
	spacing := float64(t.size) / float64(k)
	jitterMax := int(math.Ceil(spacing))
	for i := 0; i < k; i++ {
		idx := t.Normalize(int(float64(i)*spacing) + src.Intn(jitterMax))
		// Linear probe past home and already-taken slots. Terminates
		// because k <= size/4 leaves free non-home slots.
		for idx == 0 || t.taskTiles[idx] {
			idx = t.Normalize(idx + 1)
		}
		t.taskTiles[idx] = true
	}
}

// Size returns the number of tiles on the track.
func (t *Track) Size() int { return t.size }

// Normalize maps any integer onto a valid tile index.
//
// Postcondition: Return value is in [0, Size()) and congruent to i mod Size().
func (t *Track) Normalize(i int) int {
	return ((i % t.size) + t.size) % t.size
}

// DistanceForward returns the number of forward (increasing-index, wrapping)
// steps from tile `from` to tile `to`.
//
// Postcondition: Return value is in [0, Size()).
func (t *Track) DistanceForward(from, to int) int {
	return t.Normalize(to - from)
}

// IsTaskTile reports whether tile i may carry a task.
func (t *Track) IsTaskTile(i int) bool {
	return t.taskTiles[t.Normalize(i)]
}

// TaskTiles returns the task tile indices in ascending order.
//
// Postcondition: The returned slice is a copy; mutating it does not
// affect the track.
func (t *Track) TaskTiles() []int {
	tiles := make([]int, 0, len(t.taskTiles))
	for i := range t.taskTiles {
		tiles = append(tiles, i)
	}
	sort.Ints(tiles)
	return tiles
}

// TaskTileCount returns the number of task tiles on the track.
func (t *Track) TaskTileCount() int { return len(t.taskTiles) }
