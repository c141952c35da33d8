package player_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/jdalgaard/rondo/internal/game/player"
)

// fixedSrc always returns the same value from Intn.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func TestNewRoster_RejectsZeroPlayers(t *testing.T) {
	_, err := player.NewRoster(0, fixedSrc{})
	require.Error(t, err)
}

// TestNewRoster_EvenHues verifies colors are spaced evenly from the random offset.
func TestNewRoster_EvenHues(t *testing.T) {
	r, err := player.NewRoster(4, fixedSrc{val: 30})
	require.NoError(t, err)
	require.Equal(t, 4, r.Count())

	for i, wantHue := range []int{30, 120, 210, 300} {
		p := r.Get(i)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, fmt.Sprintf("hsl(%d, 70%%, 55%%)", wantHue), p.Color)
		assert.Equal(t, 0, p.TileIndex, "all players start at home")
	}
}

// TestNewRoster_HueWraps verifies hues stay in [0, 360).
func TestNewRoster_HueWraps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(rt, "count")
		offset := rapid.IntRange(0, 359).Draw(rt, "offset")
		r, err := player.NewRoster(count, fixedSrc{val: offset})
		require.NoError(rt, err)
		for i := 0; i < count; i++ {
			var hue int
			_, err := fmt.Sscanf(r.Get(i).Color, "hsl(%d,", &hue)
			require.NoError(rt, err)
			assert.GreaterOrEqual(rt, hue, 0)
			assert.Less(rt, hue, 360)
		}
	})
}

func TestRoster_Move(t *testing.T) {
	r, err := player.NewRoster(2, fixedSrc{})
	require.NoError(t, err)
	r.Move(1, 7)
	assert.Equal(t, 7, r.Tile(1))
	assert.Equal(t, 0, r.Tile(0), "other players unaffected")
}

func TestRoster_AllIsCopy(t *testing.T) {
	r, err := player.NewRoster(2, fixedSrc{})
	require.NoError(t, err)
	all := r.All()
	all[0].TileIndex = 99
	assert.Equal(t, 0, r.Tile(0))
}

// TestLedger_CreditAndBalance verifies credits accumulate per player.
func TestLedger_CreditAndBalance(t *testing.T) {
	l := player.NewLedger(3, zaptest.NewLogger(t))
	l.Credit(1, 7)
	l.Credit(1, 5)
	l.Credit(2, 3)

	assert.True(t, l.Balance(0).IsZero())
	assert.Equal(t, "12", l.Balance(1).String())
	assert.Equal(t, "3", l.Balance(2).String())
}

// TestLedger_Winner returns the first index at or past the target.
func TestLedger_Winner(t *testing.T) {
	l := player.NewLedger(3, zap.NewNop())
	target := decimal.NewFromInt(10)

	_, ok := l.Winner(target)
	assert.False(t, ok, "no winner on zero balances")

	l.Credit(2, 10)
	l.Credit(1, 25)
	idx, ok := l.Winner(target)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "lowest qualifying index wins ties")
}

// TestLedger_Winner_Property: the winner is always the first index whose
// cumulative credits reach the target.
func TestLedger_Winner_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "players")
		target := rapid.IntRange(1, 50).Draw(rt, "target")
		credits := rapid.SliceOfN(rapid.IntRange(0, 20), 0, 30).Draw(rt, "credits")

		l := player.NewLedger(count, zap.NewNop())
		totals := make([]int, count)
		for i, amount := range credits {
			p := i % count
			l.Credit(p, amount)
			totals[p] += amount
		}

		wantIdx, wantOK := 0, false
		for i, total := range totals {
			if total >= target {
				wantIdx, wantOK = i, true
				break
			}
		}

		idx, ok := l.Winner(decimal.NewFromInt(int64(target)))
		assert.Equal(rt, wantOK, ok)
		if wantOK {
			assert.Equal(rt, wantIdx, idx)
		}
	})
}
