package server

import (
	"connect/communication"
	"connect/engine"
	"connect/game"
	"connect/gamemaster"
	"connect/searcher"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Option func(s *Server)

// WithSearchSeed makes the stateless best-move endpoint deterministic. Every
// request seeds its own generator, so concurrent searches share no state.
func WithSearchSeed(seed uint64) Option {
	return func(s *Server) {
		s.searchSeed = &seed
	}
}

// Server exposes the session registry and the stateless search over HTTP.
type Server struct {
	registry   *gamemaster.Registry
	hub        *hub
	router     *mux.Router
	searchSeed *uint64
}

func NewServer(registry *gamemaster.Registry, options ...Option) *Server {
	s := &Server{
		registry: registry,
		hub:      newHub(),
		router:   mux.NewRouter(),
	}
	for _, option := range options {
		option(s)
	}

	s.router.Use(logRequests)
	s.router.HandleFunc("/api/sessions", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/sessions/{id}/moves", s.handleMove).Methods(http.MethodPost)
	s.router.HandleFunc("/api/sessions/{id}/ai-move", s.handleAIMove).Methods(http.MethodPost)
	s.router.HandleFunc("/api/best-move", s.handleBestMove).Methods(http.MethodPost)
	s.router.HandleFunc("/api/outcome", s.handleOutcome).Methods(http.MethodPost)
	s.router.HandleFunc("/ws/sessions/{id}", s.handleWatch)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Msgf("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().Msgf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req communication.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	config, err := gamemaster.ParseConfig(req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.registry.Create(config)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.registry.Dispose(id); err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	s.hub.closeSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	var req communication.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	move := game.Move{Column: req.Column, Symbol: req.Symbol}
	snapshot, err := session.Play(move)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	s.hub.broadcast(snapshot)
	played := move
	if snapshot.LastMove != nil {
		played = game.Move{Column: snapshot.LastMove.Column, Symbol: snapshot.LastMove.Symbol}
	}
	respondWithJSON(w, http.StatusOK, communication.MoveResponse{Move: played, Snapshot: snapshot})
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	move, snapshot, err := session.PlayAI()
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	s.hub.broadcast(snapshot)
	respondWithJSON(w, http.StatusOK, communication.MoveResponse{Move: move, Snapshot: snapshot})
}

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var req communication.BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	rules, g, ok := loadState(w, req.State)
	if !ok {
		return
	}
	difficulty, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	player := req.Player.Or(req.State.Turn)
	if player != rules.Players()[0] && player != rules.Players()[1] {
		respondWithError(w, http.StatusBadRequest, "player "+player.String()+" does not play "+rules.Name())
		return
	}
	if rules.Outcome(g).Terminal() {
		respondWithError(w, http.StatusConflict, engine.ErrGameOver.Error())
		return
	}

	var options []searcher.Option
	if s.searchSeed != nil {
		options = append(options, searcher.WithSeed(*s.searchSeed))
	}
	search := searcher.ForDifficulty(rules, difficulty, options...)
	score, move := search.FindBestMove(g, rules, player)
	respondWithJSON(w, http.StatusOK, communication.BestMoveResponse{Move: move, Score: score, Depth: search.Depth()})
}

func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	var state communication.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	rules, g, ok := loadState(w, state)
	if !ok {
		return
	}
	outcome := rules.Outcome(g)
	respondWithJSON(w, http.StatusOK, communication.OutcomeResponse{Status: outcome.Status, Winners: outcome.Winners})
}

func loadState(w http.ResponseWriter, state communication.Snapshot) (game.Rules, *game.Grid, bool) {
	rules, err := state.Rules()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	g, err := state.Grid()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return rules, g, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gamemaster.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidColumn), errors.Is(err, game.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrColumnFull), errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, communication.ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Msgf("failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
