package gamemaster

import (
	"connect/communication"
	"connect/engine"
	"connect/game"
	"connect/searcher/agent"
	"sync"

	"github.com/rs/zerolog/log"
)

// Session is one game in progress. Calls on a session are serialized.
type Session struct {
	ID     string
	Config Config

	mu     sync.Mutex
	engine *engine.Engine
}

func newSession(id string, config Config, rules game.Rules, ai agent.Agent) (*Session, error) {
	options := []engine.Option{engine.WithAI(ai)}
	if config.First != game.Empty {
		options = append(options, engine.WithFirst(config.First))
	}
	e, err := engine.New(rules, config.Size, options...)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Config: config, engine: e}, nil
}

// Play applies m for the side to move.
func (s *Session) Play(m game.Move) (communication.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.engine.ApplyMove(m); err != nil {
		return s.snapshot(), err
	}
	log.Debug().Msgf("session %s: %s", s.ID, s.engine.Outcome())
	return s.snapshot(), nil
}

// PlayAI lets the session's agent move for the side to move.
func (s *Session) PlayAI() (game.Move, communication.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	move, metric, err := s.engine.RequestAIMove()
	if err != nil {
		return move, s.snapshot(), err
	}
	if _, err := s.engine.ApplyMove(move); err != nil {
		return move, s.snapshot(), err
	}
	log.Debug().Msgf("session %s: AI played %s (%d nodes in %s)", s.ID, move, metric.Nodes, metric.Duration)
	return move, s.snapshot(), nil
}

// Suggest asks the session's agent for a move without playing it.
func (s *Session) Suggest() (game.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	move, _, err := s.engine.RequestAIMove()
	return move, err
}

func (s *Session) Snapshot() communication.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() communication.Snapshot {
	return communication.NewSnapshot(s.ID, s.engine.Rules(), s.engine.Grid(), s.engine.Turn())
}
