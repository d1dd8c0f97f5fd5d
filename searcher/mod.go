package searcher

import (
	"connect/game"
	"math"
)

// Terminal scores, from the searching agent's perspective.
const (
	WinScore  = math.MaxInt32
	LossScore = -WinScore
	DrawScore = 0
)

type Searcher interface {
	// FindBestMove returns the best move for perspective, who is to move, and
	// the score backing it.
	FindBestMove(g *game.Grid, rules game.Rules, perspective game.Symbol) (int, game.Move)
}

func terminalScore(outcome game.Outcome, perspective game.Symbol) int {
	switch outcome.Status {
	case game.Win:
		if outcome.Winner() == perspective {
			return WinScore
		}
		return LossScore
	default:
		return DrawScore
	}
}
