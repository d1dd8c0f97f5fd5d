package agent

import (
	"connect/experiments/metrics"
	"connect/game"
	"connect/searcher"
)

type minimaxAgent struct {
	minimax    *searcher.Minimax
	difficulty game.Difficulty
}

// NewMinimaxAgent returns an agent that searches to the depth rules assign to
// difficulty.
func NewMinimaxAgent(rules game.Rules, difficulty game.Difficulty, options ...searcher.Option) Agent {
	return minimaxAgent{
		minimax:    searcher.ForDifficulty(rules, difficulty, options...),
		difficulty: difficulty,
	}
}

func (a minimaxAgent) FindMove(g *game.Grid, rules game.Rules, player game.Symbol) (game.Move, metrics.SearchMetric) {
	_, move := a.minimax.FindBestMove(g, rules, player)
	return move, a.minimax.LastMetric()
}

func (a minimaxAgent) Describe() metrics.AgentConfig {
	return metrics.AgentConfig{
		Kind:       "minimax",
		Difficulty: a.difficulty.String(),
		Depth:      a.minimax.Depth(),
	}
}
