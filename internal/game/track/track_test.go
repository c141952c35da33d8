package track_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jdalgaard/rondo/internal/game/dice"
	"github.com/jdalgaard/rondo/internal/game/track"
)

// zeroSrc is a deterministic Source that always returns 0 (no jitter).
type zeroSrc struct{}

func (zeroSrc) Intn(_ int) int { return 0 }

// maxSrc always returns n-1, the largest jitter the sampler can draw.
type maxSrc struct{}

func (maxSrc) Intn(n int) int { return n - 1 }

func TestNew_RejectsTinyBoard(t *testing.T) {
	_, err := track.New(1, 0, zeroSrc{})
	require.Error(t, err)
	_, err = track.New(0, 0, zeroSrc{})
	require.Error(t, err)
}

// TestNew_TaskCountClamped verifies the 25% density cap.
func TestNew_TaskCountClamped(t *testing.T) {
	tr, err := track.New(20, 50, zeroSrc{})
	require.NoError(t, err)
	assert.Equal(t, 5, tr.TaskTileCount(), "50 requested must clamp to floor(20*0.25)")
}

// TestNew_ExactCountAndNoHomeTile verifies the sampler places exactly k
// distinct tiles and never uses tile 0, for both jitter extremes.
func TestNew_ExactCountAndNoHomeTile(t *testing.T) {
	for name, src := range map[string]dice.Source{"no-jitter": zeroSrc{}, "max-jitter": maxSrc{}} {
		t.Run(name, func(t *testing.T) {
			tr, err := track.New(40, 10, src)
			require.NoError(t, err)
			tiles := tr.TaskTiles()
			assert.Len(t, tiles, 10)
			seen := make(map[int]bool)
			for _, tile := range tiles {
				assert.NotEqual(t, 0, tile, "home tile must never be a task tile")
				assert.False(t, seen[tile], "task tiles must be distinct")
				assert.GreaterOrEqual(t, tile, 1)
				assert.Less(t, tile, 40)
				seen[tile] = true
			}
		})
	}
}

// TestNew_ZeroTasks verifies a track with no task tiles is legal.
func TestNew_ZeroTasks(t *testing.T) {
	tr, err := track.New(3, 5, zeroSrc{})
	require.NoError(t, err)
	assert.Equal(t, 0, tr.TaskTileCount(), "floor(3*0.25) == 0")
}

// TestNormalize_Property: Normalize(x) ∈ [0, N) and ≡ x (mod N).
func TestNormalize_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 500).Draw(rt, "boxCount")
		x := rapid.IntRange(-100000, 100000).Draw(rt, "x")

		tr, err := track.New(n, 0, zeroSrc{})
		require.NoError(rt, err)

		got := tr.Normalize(x)
		assert.GreaterOrEqual(rt, got, 0)
		assert.Less(rt, got, n)
		assert.Equal(rt, ((x%n)+n)%n, got)
	})
}

// TestDistanceForward verifies distance is the modular forward step count.
func TestDistanceForward(t *testing.T) {
	tr, err := track.New(10, 0, zeroSrc{})
	require.NoError(t, err)

	assert.Equal(t, 0, tr.DistanceForward(4, 4))
	assert.Equal(t, 3, tr.DistanceForward(2, 5))
	assert.Equal(t, 7, tr.DistanceForward(5, 2), "wrapping distance")
	assert.Equal(t, 9, tr.DistanceForward(1, 0))
}

// TestDistanceForward_Property: DistanceForward(a, (a+k) mod N) == k for 0 <= k < N.
func TestDistanceForward_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 300).Draw(rt, "boxCount")
		a := rapid.IntRange(0, n-1).Draw(rt, "a")
		k := rapid.IntRange(0, n-1).Draw(rt, "k")

		tr, err := track.New(n, 0, zeroSrc{})
		require.NoError(rt, err)
		assert.Equal(rt, k, tr.DistanceForward(a, tr.Normalize(a+k)))
	})
}

// TestSampling_CapProperty: |taskTiles| == min(requested, floor(N/4)) with 0 excluded.
func TestSampling_CapProperty(t *testing.T) {
	src := dice.NewSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 200).Draw(rt, "boxCount")
		requested := rapid.IntRange(0, 80).Draw(rt, "requested")

		tr, err := track.New(n, requested, src)
		require.NoError(rt, err)

		want := requested
		if cap := n / 4; want > cap {
			want = cap
		}
		assert.Equal(rt, want, tr.TaskTileCount())
		assert.False(rt, tr.IsTaskTile(0), "home tile must never carry a task")
	})
}
