package engine

import (
	"connect/experiments/metrics"
	"connect/game"
	"connect/searcher/agent"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

// WithFirst makes player move first instead of the variant's first player.
func WithFirst(player game.Symbol) Option {
	return func(e *Engine) {
		e.turn = player
	}
}

// WithAI sets the agent consulted by RequestAIMove.
func WithAI(a agent.Agent) Option {
	return func(e *Engine) {
		e.ai = a
	}
}

// WithPlayer seats p as the side playing symbol in Run.
func WithPlayer(symbol game.Symbol, p Player) Option {
	return func(e *Engine) {
		e.players[symbol] = p
	}
}

// WithGrid resumes play on an existing grid.
func WithGrid(g *game.Grid) Option {
	return func(e *Engine) {
		e.grid = g
	}
}

// Engine owns one game: its grid, whose turn it is and the current outcome.
// It is not safe for concurrent use.
type Engine struct {
	rules   game.Rules
	grid    *game.Grid
	turn    game.Symbol
	outcome game.Outcome
	ai      agent.Agent
	players map[game.Symbol]Player
}

func New(rules game.Rules, size game.BoardSize, options ...Option) (*Engine, error) {
	e := &Engine{ // Default values
		rules:   rules,
		turn:    rules.Players()[0],
		players: make(map[game.Symbol]Player, 2),
	}
	for _, option := range options {
		option(e)
	}

	if e.turn != rules.Players()[0] && e.turn != rules.Players()[1] {
		return nil, fmt.Errorf("%w: %q does not play %s", game.ErrInvalidSymbol, e.turn, rules.Name())
	}
	for symbol := range e.players {
		if symbol != rules.Players()[0] && symbol != rules.Players()[1] {
			return nil, fmt.Errorf("%w: %q does not play %s", game.ErrInvalidSymbol, symbol, rules.Name())
		}
	}
	if e.grid == nil {
		e.grid = game.NewBoard(rules, size)
	}
	if e.ai == nil {
		e.ai = agent.NewMinimaxAgent(rules, game.Easy)
	}
	e.outcome = rules.Outcome(e.grid)
	return e, nil
}

func (e *Engine) Rules() game.Rules {
	return e.rules
}

// Grid returns the live grid. Callers must not mutate it.
func (e *Engine) Grid() *game.Grid {
	return e.grid
}

func (e *Engine) Turn() game.Symbol {
	return e.turn
}

func (e *Engine) Outcome() game.Outcome {
	return e.outcome
}

// ApplyMove plays m for the side to move. A refused move leaves the game as it
// was; see IsRejection. The turn passes to the opponent while the game goes on.
func (e *Engine) ApplyMove(m game.Move) (game.Outcome, error) {
	if e.outcome.Terminal() {
		return e.outcome, ErrGameOver
	}
	resolved, err := e.rules.Resolve(m, e.turn)
	if err != nil {
		return e.outcome, fmt.Errorf("move %s rejected: %w", m, err)
	}
	if _, err := e.grid.Place(resolved.Column, resolved.Symbol, e.turn); err != nil {
		return e.outcome, fmt.Errorf("move %s rejected: %w", m, err)
	}

	e.outcome = e.rules.Outcome(e.grid)
	if !e.outcome.Terminal() {
		e.turn = e.rules.Opponent(e.turn)
	}
	return e.outcome, nil
}

// RequestAIMove asks the engine's agent for a move for the side to move. The
// move is not applied.
func (e *Engine) RequestAIMove() (game.Move, metrics.SearchMetric, error) {
	if e.outcome.Terminal() {
		return game.Move{}, metrics.SearchMetric{}, ErrGameOver
	}
	move, metric := e.ai.FindMove(e.grid, e.rules, e.turn)
	return move, metric, nil
}

// Run asks the seated players for moves until the game ends. A refused move is
// logged and the same player is asked again.
func (e *Engine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		Game:           e.rules.Name(),
		StartingPlayer: e.turn.String(),
		StartTime:      time.Now(),
	}
	for _, symbol := range e.rules.Players() {
		if e.players[symbol] == nil {
			return e.outcome, gameMetric, nil, fmt.Errorf("%w %s", ErrMissingPlayer, symbol)
		}
	}

	log.Info().Msgf("%s: player %s is starting", e.rules.Name(), e.turn)

	var moveMetrics []metrics.MoveMetric
	rejections := 0
	for !e.outcome.Terminal() {
		symbol := e.turn
		p := e.players[symbol]

		move, searchMetric, err := p.NextMove(e.grid, e.rules, symbol)
		if err != nil {
			return e.outcome, e.finish(gameMetric, moveMetrics), moveMetrics, fmt.Errorf("player %s: %w", symbol, err)
		}

		_, err = e.ApplyMove(move)
		if IsRejection(err) {
			rejections++
			log.Warn().Msgf("player %s: %v", symbol, err)
			if listener, ok := p.(RejectionListener); ok {
				listener.Rejected(move, err)
			}
			if rejections >= MaxRejections {
				return e.outcome, e.finish(gameMetric, moveMetrics), moveMetrics, fmt.Errorf("player %s: %w", symbol, ErrTooManyRejections)
			}
			continue
		}
		if err != nil {
			return e.outcome, e.finish(gameMetric, moveMetrics), moveMetrics, err
		}
		rejections = 0

		played, _ := e.grid.LastMove()
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         len(moveMetrics) + 1,
			Player:       symbol.String(),
			Move:         game.Move{Column: played.Column, Symbol: played.Symbol}.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("step %d: player %s played %d%c", len(moveMetrics), symbol, played.Column, played.Symbol)
	}

	log.Info().Msgf("%s: game over, %s after %d moves", e.rules.Name(), e.outcome, len(moveMetrics))
	return e.outcome, e.finish(gameMetric, moveMetrics), moveMetrics, nil
}

func (e *Engine) finish(gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric) metrics.GameMetric {
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Status = e.outcome.Status.String()
	if e.outcome.Status == game.Win {
		gameMetric.Winner = e.outcome.Winner().String()
	}
	gameMetric.TotalMoves = len(moveMetrics)
	return gameMetric
}

// AgentAdapter seats an agent.Agent as a Player.
type AgentAdapter struct {
	Agent agent.Agent
}

func (a AgentAdapter) NextMove(g *game.Grid, rules game.Rules, me game.Symbol) (game.Move, metrics.SearchMetric, error) {
	move, metric := a.Agent.FindMove(g, rules, me)
	return move, metric, nil
}
