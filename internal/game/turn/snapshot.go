package turn

// PlayerView is one player's public state.
type PlayerView struct {
	Index   int    `json:"index"`
	Color   string `json:"color"`
	Tile    int    `json:"tile"`
	Balance string `json:"balance"`
}

// TaskView is one live task record.
type TaskView struct {
	Tile           int `json:"tile"`
	Payout         int `json:"payout"`
	StepsRemaining int `json:"steps_remaining"`
	Owner          int `json:"owner"`
}

// Snapshot is the full read-model of a game, sufficient for a client to
// render the board from scratch.
type Snapshot struct {
	Phase         string         `json:"phase"`
	BoxCount      int            `json:"box_count"`
	TaskTiles     []int          `json:"task_tiles"`
	Players       []PlayerView   `json:"players"`
	Tasks         []TaskView     `json:"tasks"`
	CurrentPlayer int            `json:"current_player"`
	Dice          []int          `json:"dice,omitempty"`
	StepsLeft     int            `json:"steps_left"`
	Highlights    []Highlight    `json:"highlights,omitempty"`
	Destination   *int           `json:"destination,omitempty"`
	Pending       *PendingChoice `json:"pending,omitempty"`
	Target        string         `json:"target"`
	Winner        *int           `json:"winner,omitempty"`
}

// snapshotLocked builds the read-model.
//
// Precondition: g.mu held.
func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:         g.phase.String(),
		BoxCount:      g.track.Size(),
		TaskTiles:     g.track.TaskTiles(),
		CurrentPlayer: g.current,
		StepsLeft:     g.stepsLeft,
		Target:        g.target.String(),
	}

	for _, p := range g.roster.All() {
		snap.Players = append(snap.Players, PlayerView{
			Index:   p.Index,
			Color:   p.Color,
			Tile:    p.TileIndex,
			Balance: g.ledger.Balance(p.Index).String(),
		})
	}

	for _, tile := range g.tasks.Tiles() {
		rec, _ := g.tasks.Get(tile)
		snap.Tasks = append(snap.Tasks, TaskView{
			Tile:           tile,
			Payout:         rec.Payout,
			StepsRemaining: rec.StepsRemaining,
			Owner:          rec.Owner,
		})
	}

	if g.diceA != 0 {
		snap.Dice = []int{g.diceA, g.diceB}
	}
	if g.phase == PhaseSelectingStop {
		snap.Highlights = append([]Highlight(nil), g.highlights...)
		dest := g.fullDest
		snap.Destination = &dest
	}
	if g.pending != nil {
		pc := *g.pending
		snap.Pending = &pc
	}
	if g.phase == PhaseGameOver {
		w := g.winner
		snap.Winner = &w
	}
	return snap
}
