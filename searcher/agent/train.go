package agent

import (
	"connect/experiments/metrics"
	"connect/game"
	"time"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly sampled legal
// move. A nil rng is seeded from the clock.
func NewRandomAgent(rng *rand.Rand) Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(g *game.Grid, rules game.Rules, player game.Symbol) (game.Move, metrics.SearchMetric) {
	moves := game.Moves(g, rules, player)
	if len(moves) == 0 {
		panic("agent: no legal moves")
	}
	return sample(a.rng, moves), metrics.SearchMetric{}
}

func (a randomAgent) Describe() metrics.AgentConfig {
	return metrics.AgentConfig{Kind: "random"}
}

func sample(rng *rand.Rand, moves []game.Move) game.Move {
	return moves[rng.Intn(len(moves))]
}
