package client

import (
	"bytes"
	"connect/communication"
	"connect/game"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type Option func(c *Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// Client talks to a game server over its REST API.
type Client struct {
	serverURL string
	http      *http.Client
}

func NewClient(serverURL string, options ...Option) *Client {
	c := &Client{ // Default values
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: time.Minute},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) CreateSession(req communication.CreateSessionRequest) (communication.Snapshot, error) {
	var snapshot communication.Snapshot
	err := c.do(http.MethodPost, "/api/sessions", req, &snapshot)
	return snapshot, err
}

func (c *Client) Session(id string) (communication.Snapshot, error) {
	var snapshot communication.Snapshot
	err := c.do(http.MethodGet, "/api/sessions/"+url.PathEscape(id), nil, &snapshot)
	return snapshot, err
}

func (c *Client) DeleteSession(id string) error {
	return c.do(http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Play(id string, move game.Move) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	req := communication.MoveRequest{Column: move.Column, Symbol: move.Symbol}
	err := c.do(http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/moves", req, &resp)
	return resp, err
}

func (c *Client) PlayAI(id string) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	err := c.do(http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/ai-move", nil, &resp)
	return resp, err
}

// BestMove asks the server to search a position that belongs to no session.
func (c *Client) BestMove(g *game.Grid, rules game.Rules, player game.Symbol, difficulty game.Difficulty) (game.Move, error) {
	var resp communication.BestMoveResponse
	req := communication.BestMoveRequest{
		State:      communication.NewSnapshot("", rules, g, player),
		Player:     player,
		Difficulty: difficulty.String(),
	}
	if err := c.do(http.MethodPost, "/api/best-move", req, &resp); err != nil {
		return game.Move{}, err
	}
	return resp.Move, nil
}

func (c *Client) Outcome(state communication.Snapshot) (communication.OutcomeResponse, error) {
	var resp communication.OutcomeResponse
	err := c.do(http.MethodPost, "/api/outcome", state, &resp)
	return resp, err
}

// Watch streams the snapshots of session id to fn until the connection
// closes or fn returns false.
func (c *Client) Watch(id string, fn func(communication.Snapshot) bool) error {
	wsURL := "ws" + strings.TrimPrefix(c.serverURL, "http") + "/ws/sessions/" + url.PathEscape(id)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to watch session %s: %w", id, err)
	}
	defer conn.Close()

	for {
		var snapshot communication.Snapshot
		if err := conn.ReadJSON(&snapshot); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("failed to read update: %w", err)
		}
		if !fn(snapshot) {
			return nil
		}
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
