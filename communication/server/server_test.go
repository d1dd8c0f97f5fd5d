package server

import (
	"connect/communication"
	"connect/communication/client"
	"connect/game"
	"connect/gamemaster"
	"connect/searcher"
	"connect/searcher/agent"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*Server, *client.Client) {
	t.Helper()
	registry := gamemaster.NewRegistry(gamemaster.WithAgentFactory(func(rules game.Rules, difficulty game.Difficulty) agent.Agent {
		return agent.NewMinimaxAgent(rules, difficulty, searcher.WithSeed(1))
	}))
	srv := NewServer(registry, WithSearchSeed(1))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, client.NewClient(ts.URL)
}

func newTestServer(t *testing.T) *client.Client {
	t.Helper()
	_, c := startServer(t)
	return c
}

func requireStatus(t *testing.T, code int, err error) {
	t.Helper()
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr), "want a status error, got %v", err)
	require.Equal(t, code, statusErr.Code)
}

func TestSessions(t *testing.T) {
	c := newTestServer(t)

	t.Run("playing a session against the AI", func(t *testing.T) {
		snapshot, err := c.CreateSession(communication.CreateSessionRequest{Game: "connect4", Difficulty: "easy"})
		require.NoError(t, err)
		require.NotEmpty(t, snapshot.ID)
		require.Equal(t, 7, snapshot.Width)
		require.Equal(t, game.X, snapshot.Turn)

		played, err := c.Play(snapshot.ID, game.Move{Column: 3})
		require.NoError(t, err)
		require.Equal(t, game.Move{Column: 3, Symbol: game.X}, played.Move)
		require.Equal(t, game.O, played.Snapshot.Turn)

		reply, err := c.PlayAI(snapshot.ID)
		require.NoError(t, err)
		require.Equal(t, game.O, reply.Move.Symbol)
		require.Equal(t, game.X, reply.Snapshot.Turn)

		fetched, err := c.Session(snapshot.ID)
		require.NoError(t, err)
		require.Equal(t, reply.Snapshot, fetched)

		require.NoError(t, c.DeleteSession(snapshot.ID))
		_, err = c.Session(snapshot.ID)
		requireStatus(t, http.StatusNotFound, err)
	})

	t.Run("mapping refused moves to status codes", func(t *testing.T) {
		snapshot, err := c.CreateSession(communication.CreateSessionRequest{Game: "toot-otto"})
		require.NoError(t, err)
		require.Equal(t, game.T, snapshot.Turn)

		_, err = c.Play(snapshot.ID, game.Move{Column: 6, Symbol: game.O})
		requireStatus(t, http.StatusBadRequest, err)
		_, err = c.Play(snapshot.ID, game.Move{Column: 0, Symbol: game.X})
		requireStatus(t, http.StatusBadRequest, err)

		for _, tok := range []game.Symbol{game.O, game.T, game.T, game.O} {
			_, err := c.Play(snapshot.ID, game.Move{Column: 0, Symbol: tok})
			require.NoError(t, err)
		}
		_, err = c.Play(snapshot.ID, game.Move{Column: 0, Symbol: game.O})
		requireStatus(t, http.StatusConflict, err)

		final, err := c.Session(snapshot.ID)
		require.NoError(t, err)
		require.Equal(t, game.Win, final.Status)
		require.Equal(t, []game.Symbol{game.O}, final.Winners)

		_, err = c.PlayAI(snapshot.ID)
		requireStatus(t, http.StatusConflict, err)
	})

	t.Run("rejecting unknown sessions and configs", func(t *testing.T) {
		_, err := c.Play("missing", game.Move{Column: 1})
		requireStatus(t, http.StatusNotFound, err)
		requireStatus(t, http.StatusNotFound, c.DeleteSession("missing"))

		_, err = c.CreateSession(communication.CreateSessionRequest{Game: "go"})
		requireStatus(t, http.StatusBadRequest, err)
		_, err = c.CreateSession(communication.CreateSessionRequest{Game: "connect4", Size: "huge"})
		requireStatus(t, http.StatusBadRequest, err)
	})
}

func TestStatelessSearch(t *testing.T) {
	c := newTestServer(t)

	t.Run("best move on an empty board is a legal column", func(t *testing.T) {
		rules := game.Connect4{}
		g := game.NewBoard(rules, game.Standard)

		move, err := c.BestMove(g, rules, game.X, game.Easy)

		require.NoError(t, err)
		require.GreaterOrEqual(t, move.Column, 0)
		require.Less(t, move.Column, g.Width())
	})

	t.Run("best move completes a dual-token run", func(t *testing.T) {
		rules := game.TootOtto{}
		g := game.NewBoard(rules, game.Standard)
		for _, tok := range []game.Symbol{game.T, game.O, game.O} {
			_, err := g.Place(2, tok, game.O)
			require.NoError(t, err)
		}

		move, err := c.BestMove(g, rules, game.T, game.Easy)

		require.NoError(t, err)
		require.Equal(t, game.Move{Column: 2, Symbol: game.T}, move)
	})

	t.Run("concurrent requests each get their own generator", func(t *testing.T) {
		rules := game.Connect4{}
		g := game.NewBoard(rules, game.Standard)
		_, want := searcher.ForDifficulty(rules, game.Easy, searcher.WithSeed(1)).FindBestMove(g.Copy(), rules, game.X)

		moves := make([]game.Move, 8)
		errs := make([]error, len(moves))
		var wg sync.WaitGroup
		for i := range moves {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				moves[i], errs[i] = c.BestMove(g, rules, game.X, game.Easy)
			}(i)
		}
		wg.Wait()

		for i := range moves {
			require.NoError(t, errs[i])
			require.Equal(t, want, moves[i], "Every request should replay the seeded search")
		}
	})

	t.Run("no best move for a finished game", func(t *testing.T) {
		rules := game.TootOtto{}
		g := game.NewBoard(rules, game.Standard)
		for _, tok := range []game.Symbol{game.T, game.O, game.O, game.T} {
			_, err := g.Place(2, tok, game.O)
			require.NoError(t, err)
		}

		_, err := c.BestMove(g, rules, game.O, game.Hard)

		requireStatus(t, http.StatusConflict, err)
	})

	t.Run("resolving an outcome", func(t *testing.T) {
		rules := game.TootOtto{}
		g := game.NewBoard(rules, game.Standard)
		for _, tok := range []game.Symbol{game.O, game.T, game.T, game.O} {
			_, err := g.Place(0, tok, game.T)
			require.NoError(t, err)
		}

		outcome, err := c.Outcome(communication.NewSnapshot("", rules, g, game.T))

		require.NoError(t, err)
		require.Equal(t, game.Win, outcome.Status)
		require.Equal(t, []game.Symbol{game.O}, outcome.Winners)
	})

	t.Run("rejecting malformed states", func(t *testing.T) {
		_, err := c.Outcome(communication.Snapshot{Game: "connect4"})
		requireStatus(t, http.StatusBadRequest, err)

		_, err = c.Outcome(communication.Snapshot{Game: "ludo", Board: [][]game.Symbol{{game.Empty}}})
		requireStatus(t, http.StatusBadRequest, err)
	})
}

func TestWatch(t *testing.T) {
	c := newTestServer(t)
	snapshot, err := c.CreateSession(communication.CreateSessionRequest{Game: "connect4"})
	require.NoError(t, err)

	updates := make(chan communication.Snapshot, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(snapshot.ID, func(s communication.Snapshot) bool {
			updates <- s
			return s.LastMove == nil
		})
	}()

	select {
	case first := <-updates:
		require.Equal(t, snapshot, first, "The current state is sent on connect")
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err = c.Play(snapshot.ID, game.Move{Column: 4})
	require.NoError(t, err)

	select {
	case next := <-updates:
		require.Equal(t, 4, next.LastMove.Column)
		require.Equal(t, game.O, next.Turn)
	case <-time.After(5 * time.Second):
		t.Fatal("no update after the move")
	}
	require.NoError(t, <-done)
}

func TestWatchSkipsStaleSnapshots(t *testing.T) {
	srv, c := startServer(t)
	snapshot, err := c.CreateSession(communication.CreateSessionRequest{Game: "connect4"})
	require.NoError(t, err)

	updates := make(chan communication.Snapshot, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(snapshot.ID, func(s communication.Snapshot) bool {
			updates <- s
			return s.Moves < 2
		})
	}()

	receive := func() communication.Snapshot {
		select {
		case s := <-updates:
			return s
		case <-time.After(5 * time.Second):
			t.Fatal("no snapshot")
			return communication.Snapshot{}
		}
	}

	require.Zero(t, receive().Moves)
	first, err := c.Play(snapshot.ID, game.Move{Column: 4})
	require.NoError(t, err)
	require.Equal(t, 1, receive().Moves)

	srv.hub.broadcast(snapshot)
	srv.hub.broadcast(first.Snapshot)
	_, err = c.Play(snapshot.ID, game.Move{Column: 2})
	require.NoError(t, err)

	next := receive()
	require.Equal(t, 2, next.Moves, "Snapshots older than the last one sent should be skipped")
	require.Equal(t, 2, next.LastMove.Column)
	require.NoError(t, <-done)
}
