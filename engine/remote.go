package engine

import (
	"connect/experiments/metrics"
	"connect/game"
	"fmt"
	"time"
)

// MoveService computes moves outside this process, such as a game server's
// best-move endpoint.
type MoveService interface {
	BestMove(g *game.Grid, rules game.Rules, player game.Symbol, difficulty game.Difficulty) (game.Move, error)
}

// RemotePlayer asks a MoveService for every move.
type RemotePlayer struct {
	service    MoveService
	difficulty game.Difficulty
}

func NewRemotePlayer(service MoveService, difficulty game.Difficulty) *RemotePlayer {
	return &RemotePlayer{
		service:    service,
		difficulty: difficulty,
	}
}

func (p *RemotePlayer) NextMove(g *game.Grid, rules game.Rules, me game.Symbol) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	move, err := p.service.BestMove(g, rules, me, p.difficulty)
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("failed to request move: %w", err)
	}
	return move, metrics.SearchMetric{
		Depth:    rules.Depth(p.difficulty),
		Duration: time.Since(start),
	}, nil
}
