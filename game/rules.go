package game

import "fmt"

// Variant names accepted by NewRules.
const (
	Connect4Name = "connect4"
	TootOttoName = "toot-otto"
)

// Rules is the variant-specific part of a game: which tokens a player may
// drop, how a finished position is recognised, and how an unfinished one is
// scored. The grid itself is shared by every variant.
type Rules interface {
	Name() string
	// Dimensions returns the width and height of a board preset.
	Dimensions(size BoardSize) (width, height int)
	// Players returns both player symbols; the first one moves first.
	Players() [2]Symbol
	Opponent(player Symbol) Symbol
	// Tokens lists the symbols player may drop, in search order.
	Tokens(player Symbol) []Symbol
	// Resolve validates m for placer and fills in a defaulted token.
	Resolve(m Move, placer Symbol) (Move, error)
	Outcome(g *Grid) Outcome
	// Evaluate scores a non-terminal position in favour of perspective.
	Evaluate(g *Grid, perspective Symbol) int
	// Depth maps a difficulty to a search depth.
	Depth(d Difficulty) int
}

func NewRules(name string) (Rules, error) {
	switch name {
	case Connect4Name, "":
		return Connect4{}, nil
	case TootOttoName, "toototto", "otto":
		return TootOtto{}, nil
	}
	return nil, fmt.Errorf("unknown game %q", name)
}

// NewBoard creates an empty grid sized for rules and size.
func NewBoard(rules Rules, size BoardSize) *Grid {
	return NewGrid(rules.Dimensions(size))
}

// Moves enumerates every legal move for player: columns ascending, tokens in
// the order given by rules.Tokens.
func Moves(g *Grid, rules Rules, player Symbol) []Move {
	tokens := rules.Tokens(player)
	columns := g.LegalColumns()
	moves := make([]Move, 0, len(columns)*len(tokens))
	for _, col := range columns {
		for _, tok := range tokens {
			moves = append(moves, Move{Column: col, Symbol: tok})
		}
	}
	return moves
}
