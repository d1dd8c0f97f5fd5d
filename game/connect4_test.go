package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func play(t *testing.T, g *Grid, moves ...Move) {
	t.Helper()
	for _, m := range moves {
		_, err := g.Place(m.Column, m.Symbol, m.Symbol)
		require.NoError(t, err)
	}
}

func TestConnect4Outcome(t *testing.T) {
	rules := Connect4{}

	t.Run("four in column 3 wins vertically", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		require.Equal(t, 7, g.Width())
		require.Equal(t, 6, g.Height())

		for i := 0; i < 3; i++ {
			play(t, g, Move{Column: 3, Symbol: X}, Move{Column: 0, Symbol: O})
			require.Equal(t, Ongoing, rules.Outcome(g).Status)
		}
		play(t, g, Move{Column: 3, Symbol: X})

		got := rules.Outcome(g)
		require.Equal(t, Outcome{Status: Win, Winners: []Symbol{X}}, got)
		require.Equal(t, X, got.Winner())
		for _, row := range []int{5, 4, 3, 2} {
			require.Equal(t, X, g.At(row, 3), "Winning run should occupy row %d", row)
		}
	})

	t.Run("four in a row wins horizontally", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		for c := 0; c < 3; c++ {
			play(t, g, Move{Column: c, Symbol: X}, Move{Column: c, Symbol: O})
		}
		play(t, g, Move{Column: 3, Symbol: X})

		require.Equal(t, X, rules.Outcome(g).Winner())
	})

	t.Run("rising diagonal wins when the top cell is placed last", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		play(t, g,
			Move{Column: 0, Symbol: X},
			Move{Column: 1, Symbol: O}, Move{Column: 1, Symbol: X},
			Move{Column: 2, Symbol: O}, Move{Column: 2, Symbol: O}, Move{Column: 2, Symbol: X},
			Move{Column: 3, Symbol: O}, Move{Column: 3, Symbol: O}, Move{Column: 3, Symbol: O},
		)
		require.Equal(t, Ongoing, rules.Outcome(g).Status)

		play(t, g, Move{Column: 3, Symbol: X})

		require.Equal(t, X, rules.Outcome(g).Winner())
	})

	t.Run("falling diagonal wins when the middle cell is placed last", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		play(t, g,
			Move{Column: 6, Symbol: O},
			Move{Column: 5, Symbol: X}, Move{Column: 5, Symbol: O},
			Move{Column: 4, Symbol: X}, Move{Column: 4, Symbol: X},
			Move{Column: 3, Symbol: X}, Move{Column: 3, Symbol: X}, Move{Column: 3, Symbol: X}, Move{Column: 3, Symbol: O},
		)
		require.Equal(t, Ongoing, rules.Outcome(g).Status)

		play(t, g, Move{Column: 4, Symbol: O})

		require.Equal(t, O, rules.Outcome(g).Winner())
	})

	t.Run("empty board has no winner", func(t *testing.T) {
		require.Equal(t, Outcome{Status: Ongoing}, rules.Outcome(NewBoard(rules, Large)))
	})

	t.Run("full board without a run is a draw", func(t *testing.T) {
		rows := make([][]Symbol, 6)
		for r := range rows {
			rows[r] = make([]Symbol, 7)
			for c := range rows[r] {
				if (c+r/2)%2 == 0 {
					rows[r][c] = X
				} else {
					rows[r][c] = O
				}
			}
		}
		g, err := LoadGrid(rows, &Placement{Row: 0, Column: 6, Symbol: X, Placer: X})
		require.NoError(t, err)
		require.True(t, g.IsFull())

		for r := 0; r < 6; r++ {
			for c := 0; c < 7; c++ {
				require.False(t, anchoredRun(g, r, c), "No cell should be part of a run")
			}
		}
		require.Equal(t, Outcome{Status: Draw}, rules.Outcome(g))
	})
}

func TestConnect4Resolve(t *testing.T) {
	rules := Connect4{}

	t.Run("defaults the token to the placer", func(t *testing.T) {
		m, err := rules.Resolve(Move{Column: 2}, O)
		require.NoError(t, err)
		require.Equal(t, Move{Column: 2, Symbol: O}, m)
	})

	t.Run("rejects the opponent's token", func(t *testing.T) {
		_, err := rules.Resolve(Move{Column: 2, Symbol: X}, O)
		require.ErrorIs(t, err, ErrInvalidSymbol)
	})

	t.Run("rejects TOOT-OTTO tokens", func(t *testing.T) {
		_, err := rules.Resolve(Move{Column: 2, Symbol: T}, X)
		require.ErrorIs(t, err, ErrInvalidSymbol)
	})
}

func TestConnect4Evaluate(t *testing.T) {
	rules := Connect4{}

	t.Run("empty board scores zero", func(t *testing.T) {
		require.Zero(t, rules.Evaluate(NewBoard(rules, Standard), X))
	})

	t.Run("center tokens earn a bonus", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		play(t, g, Move{Column: 3, Symbol: X})

		require.Equal(t, centerToken, rules.Evaluate(g, X))
		require.Zero(t, rules.Evaluate(g, O))
	})

	t.Run("open three and two score for the owner and penalise the opponent", func(t *testing.T) {
		g := NewBoard(rules, Standard)
		play(t, g, Move{Column: 0, Symbol: X}, Move{Column: 1, Symbol: X}, Move{Column: 2, Symbol: X})

		require.Equal(t, windowThree+windowTwo, rules.Evaluate(g, X))
		require.Equal(t, windowOppThree, rules.Evaluate(g, O))
	})
}
