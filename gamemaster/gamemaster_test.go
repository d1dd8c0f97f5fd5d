package gamemaster

import (
	"connect/communication"
	"connect/engine"
	"connect/game"
	"connect/searcher"
	"connect/searcher/agent"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func seededRegistry() *Registry {
	return NewRegistry(WithAgentFactory(func(rules game.Rules, difficulty game.Difficulty) agent.Agent {
		return agent.NewMinimaxAgent(rules, difficulty, searcher.WithSeed(1))
	}))
}

func TestRegistry(t *testing.T) {
	t.Run("creating, finding and disposing sessions", func(t *testing.T) {
		r := seededRegistry()

		a, err := r.Create(Config{Game: game.Connect4Name})
		require.NoError(t, err)
		b, err := r.Create(Config{Game: game.TootOttoName, Size: game.Large})
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
		require.Equal(t, 2, r.Len())

		got, err := r.Get(b.ID)
		require.NoError(t, err)
		require.Same(t, b, got)

		require.NoError(t, r.Dispose(a.ID))
		_, err = r.Get(a.ID)
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.ErrorIs(t, r.Dispose(a.ID), ErrSessionNotFound)
		require.Equal(t, 1, r.Len())
	})

	t.Run("refusing bad configs", func(t *testing.T) {
		r := seededRegistry()

		_, err := r.Create(Config{Game: "checkers"})
		require.Error(t, err)

		_, err = r.Create(Config{Game: game.Connect4Name, First: game.T})
		require.ErrorIs(t, err, game.ErrInvalidSymbol)
		require.Zero(t, r.Len())
	})

	t.Run("parsing the API form", func(t *testing.T) {
		config, err := ParseConfig(communication.CreateSessionRequest{Game: "toot-otto", Size: "large", Difficulty: "hard", First: game.O})
		require.NoError(t, err)
		require.Equal(t, Config{Game: "toot-otto", Size: game.Large, Difficulty: game.Hard, First: game.O}, config)

		_, err = ParseConfig(communication.CreateSessionRequest{Difficulty: "brutal"})
		require.Error(t, err)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		r := seededRegistry()
		var wg sync.WaitGroup
		ids := make([]string, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s, err := r.Create(Config{Game: game.Connect4Name})
				if err != nil {
					return
				}
				ids[i] = s.ID
				for c := 0; c < i%7+1; c++ {
					s.Play(game.Move{Column: c})
				}
			}(i)
		}
		wg.Wait()

		for i, id := range ids {
			s, err := r.Get(id)
			require.NoError(t, err)
			require.Equal(t, i%7+1, countTokens(s.Snapshot()))
		}
	})
}

func countTokens(s communication.Snapshot) int {
	n := 0
	for _, row := range s.Board {
		for _, sym := range row {
			if sym != game.Empty {
				n++
			}
		}
	}
	return n
}

func TestSession(t *testing.T) {
	t.Run("human and AI alternate", func(t *testing.T) {
		s, err := seededRegistry().Create(Config{Game: game.Connect4Name, Difficulty: game.Easy})
		require.NoError(t, err)

		snapshot, err := s.Play(game.Move{Column: 3})
		require.NoError(t, err)
		require.Equal(t, game.O, snapshot.Turn)

		move, snapshot, err := s.PlayAI()
		require.NoError(t, err)
		require.Equal(t, game.O, move.Symbol)
		require.Equal(t, game.X, snapshot.Turn)
		require.Equal(t, 2, countTokens(snapshot))
		require.Equal(t, move.Column, snapshot.LastMove.Column)
	})

	t.Run("a suggestion does not change the game", func(t *testing.T) {
		s, err := seededRegistry().Create(Config{Game: game.TootOttoName})
		require.NoError(t, err)

		move, err := s.Suggest()
		require.NoError(t, err)

		require.Contains(t, []game.Symbol{game.O, game.T}, move.Symbol)
		require.Zero(t, countTokens(s.Snapshot()))
	})

	t.Run("moves after the end are refused", func(t *testing.T) {
		s, err := seededRegistry().Create(Config{Game: game.Connect4Name, First: game.O})
		require.NoError(t, err)
		for _, c := range []int{3, 0, 3, 0, 3, 0, 3} {
			_, err := s.Play(game.Move{Column: c})
			require.NoError(t, err)
		}

		snapshot, err := s.Play(game.Move{Column: 5})
		require.ErrorIs(t, err, engine.ErrGameOver)
		require.Equal(t, game.Win, snapshot.Status)
		require.Equal(t, []game.Symbol{game.O}, snapshot.Winners)

		_, _, err = s.PlayAI()
		require.ErrorIs(t, err, engine.ErrGameOver)
	})
}
