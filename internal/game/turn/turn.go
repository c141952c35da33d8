// Package turn implements the authoritative turn and movement engine:
// dice resolution, multi-segment movement with early stops on task tiles,
// pass-through transfers, task resolution, and win detection.
package turn

import (
	"errors"
	"time"
)

// Phase is the engine's current state-machine phase.
type Phase int

const (
	// PhaseIdle waits for the current player to roll.
	PhaseIdle Phase = iota
	// PhaseSelectingStop waits for the player to pick a highlighted tile
	// or the full-roll destination.
	PhaseSelectingStop
	// PhaseAwaitingTask waits for the player to resolve the task dialog
	// on the tile they stopped on.
	PhaseAwaitingTask
	// PhaseGameOver is terminal; a winner has been found.
	PhaseGameOver
)

// String returns the snake_case phase label used on the wire.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelectingStop:
		return "selecting_stop"
	case PhaseAwaitingTask:
		return "awaiting_task"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ChoiceKind distinguishes the three task dialogs.
type ChoiceKind int

const (
	// ChoiceNewTask acknowledges a freshly assigned task; no steps apply.
	ChoiceNewTask ChoiceKind = iota
	// ChoiceOwnTask pays steps into the player's own task to collect it.
	ChoiceOwnTask
	// ChoiceOpponentTask adds steps to another player's task debt.
	ChoiceOpponentTask
)

// String returns the snake_case kind label used on the wire.
func (k ChoiceKind) String() string {
	switch k {
	case ChoiceNewTask:
		return "new_task"
	case ChoiceOwnTask:
		return "own_task"
	case ChoiceOpponentTask:
		return "opponent_task"
	default:
		return "unknown"
	}
}

// PendingChoice is the continuation for an open task dialog. The UI
// resolves it with a single ResolveTask call; there is no cancel.
type PendingChoice struct {
	Kind ChoiceKind `json:"kind"`
	// Tile is the task tile being resolved.
	Tile int `json:"tile"`
	// Player is the resolver (always the current player).
	Player int `json:"player"`
	// MinSteps and MaxSteps bound the chooser. Both are 0 for new-task
	// acknowledgements.
	MinSteps int `json:"min_steps"`
	MaxSteps int `json:"max_steps"`
}

// Ring classifies a highlighted tile for rendering.
type Ring string

const (
	// RingGold marks a task tile with no live record.
	RingGold Ring = "gold"
	// RingBlue marks a task tile owned by the mover.
	RingBlue Ring = "blue"
	// RingPurple marks a task tile owned by an opponent.
	RingPurple Ring = "purple"
)

// Highlight is one tile offered as an early stopping point for the
// current roll.
type Highlight struct {
	Tile int  `json:"tile"`
	Ring Ring `json:"ring"`
}

// Engine entry-point errors. Wrong-phase and not-allowed calls leave all
// state unchanged.
var (
	ErrWrongPhase = errors.New("turn: action not allowed in current phase")
	ErrGameOver   = errors.New("turn: game is over")
	ErrNotAllowed = errors.New("turn: tile is not a legal stop")
)

// Movement duration hint bounds, in milliseconds. The authoritative tile
// index changes synchronously; clients animate toward it.
const (
	msPerStep = 180
	minMoveMs = 350
	maxMoveMs = 1600
)

// MoveDuration returns the suggested client animation duration for a move
// of the given number of steps.
//
// Postcondition: Return value is in [350ms, 1600ms].
func MoveDuration(steps int) time.Duration {
	ms := msPerStep * steps
	if ms < minMoveMs {
		ms = minMoveMs
	}
	if ms > maxMoveMs {
		ms = maxMoveMs
	}
	return time.Duration(ms) * time.Millisecond
}
