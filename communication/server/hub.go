package server

import (
	"connect/communication"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// watcher is a websocket client and the move count of the last snapshot it
// was sent.
type watcher struct {
	conn  *websocket.Conn
	moves int
}

// hub tracks the websocket watchers of each session.
type hub struct {
	mu       sync.Mutex
	watchers map[string][]*watcher
}

func newHub() *hub {
	return &hub{watchers: make(map[string][]*watcher)}
}

// subscribe sends the current snapshot to conn and registers it for updates.
func (h *hub) subscribe(id string, conn *websocket.Conn, current func() communication.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	snapshot := current()
	if err := conn.WriteJSON(snapshot); err != nil {
		return err
	}
	h.watchers[id] = append(h.watchers[id], &watcher{conn: conn, moves: snapshot.Moves})
	return nil
}

func (h *hub) remove(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id, conn)
}

func (h *hub) removeLocked(id string, conn *websocket.Conn) {
	watchers := h.watchers[id]
	for i, w := range watchers {
		if w.conn == conn {
			h.watchers[id] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(h.watchers[id]) == 0 {
		delete(h.watchers, id)
	}
}

// broadcast sends snapshot to every watcher of its session, dropping those
// that fail. Watchers that already saw a later move skip it, since handlers
// broadcast after releasing the session lock and may arrive out of order.
func (h *hub) broadcast(snapshot communication.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range append([]*watcher(nil), h.watchers[snapshot.ID]...) {
		if snapshot.Moves <= w.moves {
			log.Debug().Msgf("session %s: skipping stale snapshot at move %d", snapshot.ID, snapshot.Moves)
			continue
		}
		if err := w.conn.WriteJSON(snapshot); err != nil {
			log.Warn().Msgf("session %s: dropping watcher: %v", snapshot.ID, err)
			h.removeLocked(snapshot.ID, w.conn)
			w.conn.Close()
			continue
		}
		w.moves = snapshot.Moves
	}
}

func (h *hub) closeSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, w := range h.watchers[id] {
		w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session disposed"))
		w.conn.Close()
	}
	delete(h.watchers, id)
}

// handleWatch streams the session's snapshot, first as it is now and then
// after every change, until the client goes away.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := s.registry.Get(id)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Msgf("session %s: failed to upgrade connection: %v", id, err)
		return
	}

	if err := s.hub.subscribe(id, conn, session.Snapshot); err != nil {
		conn.Close()
		return
	}
	log.Debug().Msgf("session %s: watcher connected from %s", id, r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.remove(id, conn)
	conn.Close()
}
