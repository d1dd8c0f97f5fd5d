package communication

import (
	"connect/game"
	"fmt"
)

// LastMove is the JSON form of game.Placement.
type LastMove struct {
	Row    int         `json:"row"`
	Column int         `json:"column"`
	Symbol game.Symbol `json:"symbol"`
	Placer game.Symbol `json:"placer"`
}

// Snapshot is the state of one game as exchanged with hosts: the board rows
// top first, the most recent placement, whose turn it is and the outcome.
type Snapshot struct {
	ID       string          `json:"id,omitempty"`
	Game     string          `json:"game"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Board    [][]game.Symbol `json:"board"`
	LastMove *LastMove       `json:"lastMove,omitempty"`
	Turn     game.Symbol     `json:"turn"`
	Status   game.Status     `json:"status"`
	Winners  []game.Symbol   `json:"winners,omitempty"`
	// Moves counts the tokens on the board and orders snapshots of a session.
	Moves    int             `json:"moves"`
}

func NewSnapshot(id string, rules game.Rules, g *game.Grid, turn game.Symbol) Snapshot {
	outcome := rules.Outcome(g)
	s := Snapshot{
		ID:      id,
		Game:    rules.Name(),
		Width:   g.Width(),
		Height:  g.Height(),
		Board:   g.Rows(),
		Turn:    turn,
		Status:  outcome.Status,
		Winners: outcome.Winners,
		Moves:   g.Count(),
	}
	if last, ok := g.LastMove(); ok {
		s.LastMove = &LastMove{Row: last.Row, Column: last.Column, Symbol: last.Symbol, Placer: last.Placer}
	}
	return s
}

func (s Snapshot) Rules() (game.Rules, error) {
	return game.NewRules(s.Game)
}

// Grid rebuilds the board. Width and height, when set, must match the rows.
func (s Snapshot) Grid() (*game.Grid, error) {
	var last *game.Placement
	if s.LastMove != nil {
		last = &game.Placement{Row: s.LastMove.Row, Column: s.LastMove.Column, Symbol: s.LastMove.Symbol, Placer: s.LastMove.Placer}
	}
	g, err := game.LoadGrid(s.Board, last)
	if err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}
	if (s.Width != 0 && s.Width != g.Width()) || (s.Height != 0 && s.Height != g.Height()) {
		return nil, fmt.Errorf("invalid board: rows are %dx%d, snapshot says %dx%d", g.Width(), g.Height(), s.Width, s.Height)
	}
	return g, nil
}

type CreateSessionRequest struct {
	Game       string      `json:"game"`
	Size       string      `json:"size,omitempty"`       // "standard" or "large"
	Difficulty string      `json:"difficulty,omitempty"` // "easy" or "hard"
	First      game.Symbol `json:"first,omitempty"`
}

type MoveRequest struct {
	Column int         `json:"column"`
	Symbol game.Symbol `json:"symbol,omitempty"`
}

// MoveResponse reports a move that was played or suggested, with the game
// state after it.
type MoveResponse struct {
	Move     game.Move `json:"move"`
	Snapshot Snapshot  `json:"state"`
}

// BestMoveRequest asks for a move on a position that belongs to no session.
// Player defaults to the snapshot's turn.
type BestMoveRequest struct {
	State      Snapshot    `json:"state"`
	Player     game.Symbol `json:"player,omitempty"`
	Difficulty string      `json:"difficulty,omitempty"`
}

type BestMoveResponse struct {
	Move  game.Move `json:"move"`
	Score int       `json:"score"`
	Depth int       `json:"depth"`
}

type OutcomeResponse struct {
	Status  game.Status   `json:"status"`
	Winners []game.Symbol `json:"winners,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
