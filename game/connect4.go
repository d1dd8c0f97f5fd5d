package game

import "fmt"

// directions through a cell: horizontal, vertical, and both diagonals
var lines = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Connect4 is the single-token game: four identical tokens in a line win.
type Connect4 struct{}

func (Connect4) Name() string { return Connect4Name }

func (Connect4) Dimensions(size BoardSize) (int, int) {
	if size == Large {
		return 10, 7
	}
	return 7, 6
}

func (Connect4) Players() [2]Symbol { return [2]Symbol{X, O} }

func (Connect4) Opponent(player Symbol) Symbol {
	if player == X {
		return O
	}
	return X
}

func (Connect4) Tokens(player Symbol) []Symbol { return []Symbol{player} }

func (Connect4) Resolve(m Move, placer Symbol) (Move, error) {
	if placer != X && placer != O {
		return m, fmt.Errorf("%w: player %q", ErrInvalidSymbol, placer)
	}
	if m.Symbol == Empty {
		m.Symbol = placer
	}
	if m.Symbol != placer {
		return m, fmt.Errorf("%w: %s cannot drop %q", ErrInvalidSymbol, placer, m.Symbol)
	}
	return m, nil
}

// Outcome only inspects lines through the last placement, since no other cell
// can have completed a run.
func (Connect4) Outcome(g *Grid) Outcome {
	var winners []Symbol
	if last, ok := g.LastMove(); ok && anchoredRun(g, last.Row, last.Column) {
		winners = []Symbol{last.Symbol}
	}
	return outcomeOf(winners, g)
}

// anchoredRun reports whether any four-cell window containing (row, col)
// holds four copies of that cell's symbol.
func anchoredRun(g *Grid, row, col int) bool {
	sym := g.At(row, col)
	if sym == Empty {
		return false
	}
	for _, d := range lines {
		for k := 0; k < 4; k++ {
			r, c := row-k*d[0], col-k*d[1]
			if !g.inBounds(r, c) || !g.inBounds(r+3*d[0], c+3*d[1]) {
				continue
			}
			run := true
			for i := 0; i < 4 && run; i++ {
				run = g.At(r+i*d[0], c+i*d[1]) == sym
			}
			if run {
				return true
			}
		}
	}
	return false
}

func (c Connect4) Evaluate(g *Grid, perspective Symbol) int {
	return evaluateWindows(g, perspective, c.Opponent(perspective))
}

func (Connect4) Depth(d Difficulty) int {
	if d == Hard {
		return 6
	}
	return 4
}
