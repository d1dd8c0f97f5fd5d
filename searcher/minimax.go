package searcher

import (
	"connect/experiments/metrics"
	"connect/game"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *Minimax)

// Minimax is a depth-limited minimax search with alpha-beta pruning. It
// explores the game tree by placing and lifting tokens on the caller's grid,
// which is left exactly as it was found.
type Minimax struct {
	depth   int
	rng     *rand.Rand
	metrics metrics.Collector
	last    metrics.SearchMetric
}

// WithRand injects the generator used to pick each node's first candidate.
func WithRand(rng *rand.Rand) Option {
	return func(m *Minimax) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *Minimax) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(depth int, options ...Option) *Minimax {
	if depth < 1 {
		depth = 1
	}
	m := &Minimax{ // Default values
		depth:   depth,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// ForDifficulty builds a search whose depth is fixed by rules for d.
func ForDifficulty(rules game.Rules, d game.Difficulty, options ...Option) *Minimax {
	return NewMinimax(rules.Depth(d), options...)
}

func (m *Minimax) Depth() int {
	return m.depth
}

// LastMetric reports the statistics of the most recent search. It is empty
// unless the search was built WithMetrics.
func (m *Minimax) LastMetric() metrics.SearchMetric {
	return m.last
}

func (m *Minimax) FindBestMove(g *game.Grid, rules game.Rules, perspective game.Symbol) (int, game.Move) {
	return m.Search(g, rules, perspective, perspective)
}

// Search picks a move for toMove while scoring every position in favour of
// perspective. Calling it on a grid without a legal column is a programming
// error and panics.
func (m *Minimax) Search(g *game.Grid, rules game.Rules, toMove, perspective game.Symbol) (int, game.Move) {
	if len(g.LegalColumns()) == 0 {
		panic("searcher: no legal moves")
	}

	m.metrics.Start(m.depth)
	m.metrics.AddNode()
	s := &search{
		grid:        g,
		rules:       rules,
		perspective: perspective,
		rng:         m.rng,
		metrics:     m.metrics,
	}
	score, move := s.expand(m.depth, math.MinInt, math.MaxInt, toMove)
	m.last = m.metrics.Complete()

	log.Debug().Msgf("%s depth %d: move %s score %d", rules.Name(), m.depth, move, score)
	return score, move
}

// search holds the state shared by every frame of one decision.
type search struct {
	grid        *game.Grid
	rules       game.Rules
	perspective game.Symbol
	rng         *rand.Rand
	metrics     metrics.Collector
}

func (s *search) node(depth, alpha, beta int, toMove game.Symbol) int {
	s.metrics.AddNode()

	outcome := s.rules.Outcome(s.grid)
	if outcome.Terminal() {
		return terminalScore(outcome, s.perspective)
	}
	if depth == 0 {
		s.metrics.AddLeaf()
		return s.rules.Evaluate(s.grid, s.perspective)
	}

	score, _ := s.expand(depth, alpha, beta, toMove)
	return score
}

// expand scores every move of toMove. A uniformly drawn candidate is tried
// first and the remaining moves follow in ascending order; a later move only
// replaces the best one when strictly better.
func (s *search) expand(depth, alpha, beta int, toMove game.Symbol) (int, game.Move) {
	moves := game.Moves(s.grid, s.rules, toMove)
	first := s.rng.Intn(len(moves))
	next := s.rules.Opponent(toMove)
	maximizing := toMove == s.perspective

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	bestMove := moves[first]

	for k := -1; k < len(moves); k++ {
		var move game.Move
		switch {
		case k == -1:
			move = moves[first]
		case k == first:
			continue
		default:
			move = moves[k]
		}

		var score int
		play(s.grid, move, toMove, func() {
			score = s.node(depth-1, alpha, beta, next)
		})

		if maximizing {
			if score > best {
				best = score
				bestMove = move
			}
			alpha = max(alpha, best)
		} else {
			if score < best {
				best = score
				bestMove = move
			}
			beta = min(beta, best)
		}
		if alpha >= beta {
			s.metrics.AddCutoff()
			break
		}
	}
	return best, bestMove
}

// play drops move for placer, runs fn, and lifts the token again on every
// exit path of fn.
func play(g *game.Grid, move game.Move, placer game.Symbol, fn func()) {
	if _, err := g.Place(move.Column, move.Symbol, placer); err != nil {
		panic(fmt.Sprintf("searcher: illegal move %s: %v", move, err))
	}
	defer func() {
		if err := g.RemoveTop(move.Column); err != nil {
			panic(fmt.Sprintf("searcher: unbalanced move %s: %v", move, err))
		}
	}()
	fn()
}
