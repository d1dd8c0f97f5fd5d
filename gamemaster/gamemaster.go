package gamemaster

import (
	"connect/communication"
	"connect/game"
	"connect/searcher/agent"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrSessionNotFound = errors.New("session not found")

// AgentFactory builds the AI opponent of a new session.
type AgentFactory func(rules game.Rules, difficulty game.Difficulty) agent.Agent

type Option func(r *Registry)

func WithAgentFactory(factory AgentFactory) Option {
	return func(r *Registry) {
		r.newAgent = factory
	}
}

// Config selects the game a session plays.
type Config struct {
	Game       string
	Size       game.BoardSize
	Difficulty game.Difficulty
	First      game.Symbol // Empty for the variant's first player
}

// ParseConfig reads a session config from its API form.
func ParseConfig(req communication.CreateSessionRequest) (Config, error) {
	size, err := game.ParseBoardSize(req.Size)
	if err != nil {
		return Config{}, err
	}
	difficulty, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Game:       req.Game,
		Size:       size,
		Difficulty: difficulty,
		First:      req.First,
	}, nil
}

// Registry holds every live session, keyed by a generated id. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	newAgent AgentFactory
}

func NewRegistry(options ...Option) *Registry {
	r := &Registry{ // Default values
		sessions: make(map[string]*Session),
		newAgent: func(rules game.Rules, difficulty game.Difficulty) agent.Agent {
			return agent.NewMinimaxAgent(rules, difficulty)
		},
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Registry) Create(config Config) (*Session, error) {
	rules, err := game.NewRules(config.Game)
	if err != nil {
		return nil, err
	}
	s, err := newSession(uuid.NewString(), config, rules, r.newAgent(rules, config.Difficulty))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	log.Info().Msgf("session %s: new %s %s game, %s AI", s.ID, rules.Name(), config.Size, config.Difficulty)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

func (r *Registry) Dispose(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	log.Info().Msgf("session %s: disposed", id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
