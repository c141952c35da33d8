package turn_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/jdalgaard/rondo/internal/game/dice"
	"github.com/jdalgaard/rondo/internal/game/task"
	"github.com/jdalgaard/rondo/internal/game/turn"
)

// TestRandomPlay_Invariants drives whole games with arbitrary (but legal)
// choices and verifies the structural invariants after every action:
// tiles stay normalized, steps never go negative, balances never shrink,
// the turn only rotates between rolls, and at most one GameWon is ever
// emitted.
func TestRandomPlay_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		boxCount := rapid.IntRange(8, 40).Draw(rt, "boxCount")
		players := rapid.IntRange(1, 4).Draw(rt, "players")
		target := rapid.IntRange(5, 60).Draw(rt, "target")

		roller := dice.NewLoggedRoller(dice.NewSource(), zap.NewNop())
		g, err := turn.NewGame(turn.Setup{
			BoxCount:  boxCount,
			Players:   players,
			TaskCount: boxCount / 4,
			Target:    target,
			Ranges:    task.DefaultRanges(),
		}, roller, zap.NewNop())
		require.NoError(rt, err)

		wonEvents := 0
		prevBalances := make([]decimal.Decimal, players)

		check := func(events []turn.Event) {
			snap := g.Snapshot()
			assert.GreaterOrEqual(rt, snap.StepsLeft, 0)
			for i, p := range snap.Players {
				assert.GreaterOrEqual(rt, p.Tile, 0)
				assert.Less(rt, p.Tile, boxCount)
				bal, err := decimal.NewFromString(p.Balance)
				require.NoError(rt, err)
				assert.True(rt, bal.Cmp(prevBalances[i]) >= 0,
					"balances are credit-only")
				prevBalances[i] = bal
			}
			for _, tv := range snap.Tasks {
				assert.Greater(rt, tv.StepsRemaining, 0,
					"zero-step records must be deleted")
				assert.NotEqual(rt, 0, tv.Tile, "no task on the home tile")
			}
			for _, ev := range events {
				if ev.Type == turn.EventGameWon {
					wonEvents++
				}
			}
			assert.LessOrEqual(rt, wonEvents, 1, "a game is won at most once")
		}

		for step := 0; step < 200; step++ {
			snap := g.Snapshot()
			switch snap.Phase {
			case "idle":
				before := snap.CurrentPlayer
				events, err := g.Roll()
				require.NoError(rt, err)
				check(events)
				after := g.Snapshot()
				if after.Phase == "selecting_stop" || after.Phase == "awaiting_task" {
					assert.Equal(rt, before, after.CurrentPlayer,
						"the turn never rotates mid-roll")
				}

			case "selecting_stop":
				options := make([]int, 0, len(snap.Highlights)+1)
				for _, h := range snap.Highlights {
					options = append(options, h.Tile)
				}
				require.NotNil(rt, snap.Destination)
				options = append(options, *snap.Destination)
				tile := rapid.SampledFrom(options).Draw(rt, "stop")
				events, err := g.ChooseStop(tile)
				require.NoError(rt, err)
				check(events)

			case "awaiting_task":
				require.NotNil(rt, snap.Pending)
				steps := rapid.IntRange(snap.Pending.MinSteps, snap.Pending.MaxSteps).
					Draw(rt, "steps")
				events, err := g.ResolveTask(steps)
				require.NoError(rt, err)
				check(events)

			case "game_over":
				require.NotNil(rt, g.Snapshot().Winner)
				return
			}
		}
	})
}
