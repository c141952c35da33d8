package turn

// EventType tags what happened when one engine transition was applied.
type EventType string

const (
	// EventRolled carries the dice pair and total steps for the roll.
	EventRolled EventType = "rolled"
	// EventPassThrough records an opponent task captured in passing:
	// the mover is credited the full payout and the record is cleared.
	EventPassThrough EventType = "pass_through"
	// EventMoved records an authoritative token move with a client
	// animation duration hint.
	EventMoved EventType = "moved"
	// EventHighlighted carries the early-stop choices for the roll.
	EventHighlighted EventType = "highlighted"
	// EventTaskAssigned records a fresh task created on first landing.
	EventTaskAssigned EventType = "task_assigned"
	// EventTaskReduced records steps paid into the resolver's own task.
	EventTaskReduced EventType = "task_reduced"
	// EventTaskExtended records steps added to an opponent's task debt.
	EventTaskExtended EventType = "task_extended"
	// EventTaskPaidOut records a completed task's payout credit.
	EventTaskPaidOut EventType = "task_paid_out"
	// EventTurnEnded records round-robin advancement to the next player.
	EventTurnEnded EventType = "turn_ended"
	// EventGameWon is terminal; emitted at most once per game.
	EventGameWon EventType = "game_won"
)

// Event is one entry in the ordered record of what a single engine call
// did. Fields beyond Type and Player are populated per event type and
// omitted from JSON when unused.
type Event struct {
	Type   EventType `json:"type"`
	Player int       `json:"player"`

	// Dice and StepsLeft accompany EventRolled.
	Dice      []int `json:"dice,omitempty"`
	StepsLeft int   `json:"steps_left,omitempty"`

	// Tile identifies the affected tile for pass-through, task, and
	// highlight destination events.
	Tile int `json:"tile,omitempty"`
	// Owner is the task owner prior to the event, where relevant.
	Owner int `json:"owner,omitempty"`
	// Amount is a balance credit (pass-through, payout).
	Amount int `json:"amount,omitempty"`
	// Steps is the step count applied by a resolution.
	Steps int `json:"steps,omitempty"`
	// Remaining is the task debt left after a reduce/extend.
	Remaining int `json:"remaining,omitempty"`

	// FromTile, ToTile, and DurationMs accompany EventMoved.
	FromTile   int `json:"from_tile,omitempty"`
	ToTile     int `json:"to_tile,omitempty"`
	DurationMs int `json:"duration_ms,omitempty"`

	// Highlights and Destination accompany EventHighlighted.
	Highlights  []Highlight `json:"highlights,omitempty"`
	Destination int         `json:"destination,omitempty"`

	// NextPlayer accompanies EventTurnEnded.
	NextPlayer int `json:"next_player,omitempty"`
}
