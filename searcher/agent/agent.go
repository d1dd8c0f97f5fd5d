package agent

import (
	"connect/experiments/metrics"
	"connect/game"
)

type Agent interface {
	// FindMove returns the move to play for player and performance metrics (if collected) from the search
	FindMove(g *game.Grid, rules game.Rules, player game.Symbol) (game.Move, metrics.SearchMetric)
	// Describe reports how the agent is configured, for experiment records
	Describe() metrics.AgentConfig
}
