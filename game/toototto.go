package game

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// scan directions from a cell: right, up, up-right, up-left. A pattern read
// backwards is the same pattern, so the other four directions are covered.
var scans = [4][2]int{{0, 1}, {-1, 0}, {-1, 1}, {-1, -1}}

// TootOtto is the dual-token game. Otto (O) wins with O-T-T-O, Toot (T) wins
// with T-O-O-T, and either player may drop either token.
type TootOtto struct{}

func (TootOtto) Name() string { return TootOttoName }

func (TootOtto) Dimensions(size BoardSize) (int, int) {
	if size == Large {
		return 9, 6
	}
	return 6, 4
}

func (TootOtto) Players() [2]Symbol { return [2]Symbol{T, O} }

func (TootOtto) Opponent(player Symbol) Symbol {
	if player == O {
		return T
	}
	return O
}

func (TootOtto) Tokens(Symbol) []Symbol { return []Symbol{O, T} }

func (TootOtto) Resolve(m Move, placer Symbol) (Move, error) {
	if placer != O && placer != T {
		return m, fmt.Errorf("%w: player %q", ErrInvalidSymbol, placer)
	}
	if m.Symbol != O && m.Symbol != T {
		return m, fmt.Errorf("%w: token %q", ErrInvalidSymbol, m.Symbol)
	}
	return m, nil
}

// Outcome scans the whole board. Every symbol that closes an A-B-B-A run is a
// winner; when both do, the game is a tie.
func (t TootOtto) Outcome(g *Grid) Outcome {
	var winners []Symbol
	for row := g.height - 1; row >= 0; row-- {
		for col := 0; col < g.width; col++ {
			sym := g.At(row, col)
			if sym == Empty || slices.Contains(winners, sym) {
				continue
			}
			opposite := t.Opponent(sym)
			for _, d := range scans {
				if g.At(row+d[0], col+d[1]) == opposite &&
					g.At(row+2*d[0], col+2*d[1]) == opposite &&
					g.At(row+3*d[0], col+3*d[1]) == sym {
					winners = append(winners, sym)
					break
				}
			}
		}
	}
	return outcomeOf(winners, g)
}

func (t TootOtto) Evaluate(g *Grid, perspective Symbol) int {
	return evaluatePatterns(g, perspective, t.Opponent(perspective))
}

func (TootOtto) Depth(d Difficulty) int {
	if d == Hard {
		return 5
	}
	return 3
}
