package turn

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/game/dice"
	"github.com/jdalgaard/rondo/internal/game/player"
	"github.com/jdalgaard/rondo/internal/game/task"
	"github.com/jdalgaard/rondo/internal/game/track"
)

// Setup carries the validated parameters for one game. Boundary clamping
// happens in the API layer; NewGame only enforces hard invariants.
type Setup struct {
	// BoxCount is the number of tiles on the circular track.
	BoxCount int
	// Players is the number of tokens, all starting at tile 0.
	Players int
	// TaskCount is the requested number of task tiles; the track clamps
	// it to a quarter of the board.
	TaskCount int
	// Target is the balance at which a player wins.
	Target int
	// Ranges bounds the random payout and steps of new tasks.
	Ranges task.Ranges
}

// Game owns all mutable state for one match and drives the turn state
// machine. All exported methods are safe for concurrent use; every
// mutation happens synchronously inside the calling method and the
// ordered events it produced are returned to the caller.
type Game struct {
	mu     sync.Mutex
	logger *zap.Logger
	roller *dice.Roller

	track  *track.Track
	tasks  *task.Registry
	roster *player.Roster
	ledger *player.Ledger
	target decimal.Decimal

	phase      Phase
	current    int
	diceA      int
	diceB      int
	stepsLeft  int
	highlights []Highlight
	fullDest   int
	pending    *PendingChoice
	winner     int
}

// NewGame initializes a fresh game in PhaseIdle with player 0 to move.
//
// Precondition: roller and logger must be non-nil.
func NewGame(setup Setup, roller *dice.Roller, logger *zap.Logger) (*Game, error) {
	if setup.Target < 1 {
		return nil, fmt.Errorf("turn: target must be >= 1, got %d", setup.Target)
	}
	tr, err := track.New(setup.BoxCount, setup.TaskCount, roller.Source())
	if err != nil {
		return nil, err
	}
	roster, err := player.NewRoster(setup.Players, roller.Source())
	if err != nil {
		return nil, err
	}
	g := &Game{
		logger: logger,
		roller: roller,
		track:  tr,
		tasks:  task.NewRegistry(setup.Ranges, roller.Source(), logger),
		roster: roster,
		ledger: player.NewLedger(setup.Players, logger),
		target: decimal.NewFromInt(int64(setup.Target)),
		phase:  PhaseIdle,
	}
	logger.Info("game created",
		zap.Int("box_count", tr.Size()),
		zap.Int("task_tiles", tr.TaskTileCount()),
		zap.Int("players", roster.Count()),
		zap.Int("target", setup.Target),
	)
	return g, nil
}

// Phase returns the current state-machine phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Roll starts the current player's turn: rolls two dice, applies
// pass-through transfers along the full path, and either moves straight
// to the destination (no task tiles reachable) or offers stop choices.
//
// Postcondition: Returns the ordered events produced, or ErrWrongPhase /
// ErrGameOver with no state change.
func (g *Game) Roll() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	if g.phase != PhaseIdle {
		return nil, ErrWrongPhase
	}

	g.diceA, g.diceB = g.roller.RollPair()
	g.stepsLeft = g.diceA + g.diceB

	events := []Event{{
		Type:      EventRolled,
		Player:    g.current,
		Dice:      []int{g.diceA, g.diceB},
		StepsLeft: g.stepsLeft,
	}}
	g.logger.Info("turn rolled",
		zap.Int("player", g.current),
		zap.Int("first", g.diceA),
		zap.Int("second", g.diceB),
	)

	g.beginSegment(&events)
	return events, nil
}

// ChooseStop moves the current player to a highlighted tile or the
// full-roll destination, consuming the forward distance from the
// remaining steps, and opens the task dialog when the tile carries one.
//
// Postcondition: Returns the ordered events produced; ErrNotAllowed when
// the tile is neither highlighted nor the destination (no state change).
func (g *Game) ChooseStop(tile int) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	if g.phase != PhaseSelectingStop {
		return nil, ErrWrongPhase
	}

	tile = g.track.Normalize(tile)
	if !g.stopAllowed(tile) {
		return nil, ErrNotAllowed
	}

	cur := g.roster.Tile(g.current)
	var d int
	if tile == g.fullDest {
		// The full destination always consumes the entire remainder,
		// including rolls that wrap the whole board.
		d = g.stepsLeft
	} else {
		d = g.track.DistanceForward(cur, tile)
		if d == 0 || d > g.stepsLeft {
			return nil, ErrNotAllowed
		}
	}

	var events []Event
	g.stepsLeft -= d
	g.moveTo(tile, d, &events)
	g.highlights = nil

	if g.track.IsTaskTile(tile) {
		g.openChoice(tile, &events)
	} else {
		// Only the full destination can be a non-task stop, and it
		// always consumes the whole roll.
		g.endTurn(&events)
	}
	return events, nil
}

// ResolveTask applies the player's dialog choice. steps is clamped into
// the pending bounds; it is ignored for new-task acknowledgements.
//
// Postcondition: Returns the ordered events produced; the turn continues
// with any remaining steps or rotates to the next player.
func (g *Game) ResolveTask(steps int) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseGameOver {
		return nil, ErrGameOver
	}
	if g.phase != PhaseAwaitingTask || g.pending == nil {
		return nil, ErrWrongPhase
	}

	pc := *g.pending
	if steps < pc.MinSteps {
		steps = pc.MinSteps
	}
	if steps > pc.MaxSteps {
		steps = pc.MaxSteps
	}

	var events []Event
	switch pc.Kind {
	case ChoiceNewTask:
		// Acknowledge only; the record was created when the dialog opened.

	case ChoiceOwnTask:
		deleted, rec, ok := g.tasks.ReduceSteps(pc.Tile, steps)
		if ok {
			events = append(events, Event{
				Type:      EventTaskReduced,
				Player:    g.current,
				Tile:      pc.Tile,
				Steps:     steps,
				Remaining: rec.StepsRemaining,
			})
			if deleted {
				g.ledger.Credit(g.current, rec.Payout)
				events = append(events, Event{
					Type:   EventTaskPaidOut,
					Player: g.current,
					Tile:   pc.Tile,
					Amount: rec.Payout,
				})
				g.logger.Info("task collected",
					zap.Int("player", g.current),
					zap.Int("tile", pc.Tile),
					zap.Int("payout", rec.Payout),
				)
			}
		}
		if g.stepsLeft -= steps; g.stepsLeft < 0 {
			g.stepsLeft = 0
		}

	case ChoiceOpponentTask:
		if rec, ok := g.tasks.IncreaseSteps(pc.Tile, steps); ok {
			events = append(events, Event{
				Type:      EventTaskExtended,
				Player:    g.current,
				Tile:      pc.Tile,
				Owner:     rec.Owner,
				Steps:     steps,
				Remaining: rec.StepsRemaining,
			})
		}
	}

	g.pending = nil
	if g.checkWinner(&events) {
		return events, nil
	}
	g.beginSegment(&events)
	return events, nil
}

// Snapshot returns the full read-model of the game.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// beginSegment resolves the remainder of the current roll from the
// player's current tile: pass-through transfers first, then either a
// direct move to the destination or a stop-selection window.
//
// Precondition: g.mu held.
func (g *Game) beginSegment(events *[]Event) {
	if g.stepsLeft <= 0 {
		g.endTurn(events)
		return
	}

	cur := g.roster.Tile(g.current)
	dest := g.track.Normalize(cur + g.stepsLeft)

	g.applyPassThrough(cur, events)
	if g.checkWinner(events) {
		return
	}

	highlights := g.computeHighlights(cur)
	if len(highlights) == 0 {
		steps := g.stepsLeft
		g.stepsLeft = 0
		g.moveTo(dest, steps, events)
		g.endTurn(events)
		return
	}

	g.highlights = highlights
	g.fullDest = dest
	g.phase = PhaseSelectingStop
	*events = append(*events, Event{
		Type:        EventHighlighted,
		Player:      g.current,
		Highlights:  highlights,
		Destination: dest,
	})
}

// applyPassThrough credits the mover the full payout of every opponent
// task strictly between the current tile and the full-roll destination,
// clearing each record. Transfers happen left to right along the path,
// before any movement or choice, and are not interactive.
//
// Precondition: g.mu held.
func (g *Game) applyPassThrough(cur int, events *[]Event) {
	for d := 1; d < g.stepsLeft; d++ {
		tile := g.track.Normalize(cur + d)
		rec, ok := g.tasks.Get(tile)
		if !ok || rec.Owner == g.current {
			continue
		}
		g.ledger.Credit(g.current, rec.Payout)
		g.tasks.Clear(tile)
		*events = append(*events, Event{
			Type:   EventPassThrough,
			Player: g.current,
			Tile:   tile,
			Owner:  rec.Owner,
			Amount: rec.Payout,
		})
		g.logger.Info("pass-through transfer",
			zap.Int("player", g.current),
			zap.Int("tile", tile),
			zap.Int("owner", rec.Owner),
			zap.Int("amount", rec.Payout),
		)
	}
}

// computeHighlights returns the task tiles reachable with the remaining
// roll, ring-coded by ownership of any live record.
//
// Precondition: g.mu held.
func (g *Game) computeHighlights(cur int) []Highlight {
	var hl []Highlight
	seen := make(map[int]bool)
	for d := 1; d <= g.stepsLeft; d++ {
		tile := g.track.Normalize(cur + d)
		// Rolls of a full lap or more revisit tiles; offer each stop
		// once, and never the tile the token already stands on.
		if tile == cur || seen[tile] || !g.track.IsTaskTile(tile) {
			continue
		}
		seen[tile] = true
		ring := RingGold
		if rec, ok := g.tasks.Get(tile); ok {
			if rec.Owner == g.current {
				ring = RingBlue
			} else {
				ring = RingPurple
			}
		}
		hl = append(hl, Highlight{Tile: tile, Ring: ring})
	}
	return hl
}

// stopAllowed reports whether tile is a legal stop for the current
// selection window.
//
// Precondition: g.mu held; phase == PhaseSelectingStop.
func (g *Game) stopAllowed(tile int) bool {
	if tile == g.fullDest {
		return true
	}
	for _, h := range g.highlights {
		if h.Tile == tile {
			return true
		}
	}
	return false
}

// moveTo applies the authoritative token move and emits the movement
// event with its animation duration hint.
//
// Precondition: g.mu held; steps >= 1.
func (g *Game) moveTo(tile, steps int, events *[]Event) {
	from := g.roster.Tile(g.current)
	g.roster.Move(g.current, tile)
	*events = append(*events, Event{
		Type:       EventMoved,
		Player:     g.current,
		FromTile:   from,
		ToTile:     tile,
		Steps:      steps,
		DurationMs: int(MoveDuration(steps).Milliseconds()),
	})
}

// openChoice builds the pending task dialog for the tile the player
// stopped on. A tile whose task vanished is treated as unowned.
//
// Precondition: g.mu held; tile is a task tile.
func (g *Game) openChoice(tile int, events *[]Event) {
	pc := PendingChoice{Tile: tile, Player: g.current}
	rec, ok := g.tasks.Get(tile)
	switch {
	case !ok:
		rec = g.tasks.Assign(tile, g.current)
		pc.Kind = ChoiceNewTask
		*events = append(*events, Event{
			Type:      EventTaskAssigned,
			Player:    g.current,
			Tile:      tile,
			Amount:    rec.Payout,
			Remaining: rec.StepsRemaining,
		})

	case rec.Owner == g.current:
		pc.Kind = ChoiceOwnTask
		pc.MinSteps = 1
		pc.MaxSteps = clampSteps(minInt(g.stepsLeft, rec.StepsRemaining))

	default:
		pc.Kind = ChoiceOpponentTask
		pc.MinSteps = 1
		pc.MaxSteps = clampSteps(g.stepsLeft)
	}

	g.pending = &pc
	g.phase = PhaseAwaitingTask
}

// endTurn rotates to the next player and clears the per-roll state.
//
// Precondition: g.mu held.
func (g *Game) endTurn(events *[]Event) {
	g.current = (g.current + 1) % g.roster.Count()
	g.diceA, g.diceB = 0, 0
	g.stepsLeft = 0
	g.highlights = nil
	g.phase = PhaseIdle
	*events = append(*events, Event{
		Type:       EventTurnEnded,
		Player:     g.current,
		NextPlayer: g.current,
	})
}

// checkWinner scans the ledger and, on the first balance at or past the
// target, moves the game to its terminal phase. Once terminal, no entry
// point runs again, so EventGameWon is emitted at most once per game.
//
// Precondition: g.mu held.
func (g *Game) checkWinner(events *[]Event) bool {
	idx, ok := g.ledger.Winner(g.target)
	if !ok {
		return false
	}
	g.winner = idx
	g.phase = PhaseGameOver
	g.highlights = nil
	g.pending = nil
	*events = append(*events, Event{Type: EventGameWon, Player: idx})
	g.logger.Info("game won",
		zap.Int("player", idx),
		zap.String("balance", g.ledger.Balance(idx).String()),
	)
	return true
}

// clampSteps bounds a chooser maximum to [1, 12].
func clampSteps(n int) int {
	if n < 1 {
		return 1
	}
	if n > task.DefaultStepsMax {
		return task.DefaultStepsMax
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
