package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans notification payloads out to connected websocket clients, each
// tagged with the audience it subscribed as. Writes are serialized by the
// hub lock; a failed write drops the connection.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]string
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]string)}
}

// HandleWS upgrades the request and registers the connection under the given
// audience. The connection is held open until the client closes it.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, audience string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = audience
	h.mu.Unlock()
	log.Info().Str("audience", audience).Msg("websocket client connected")

	go h.drain(conn)
	return nil
}

// drain consumes inbound frames until the peer goes away, then unregisters.
func (h *Hub) drain(conn *websocket.Conn) {
	defer func() {
		h.remove(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast delivers a payload to every connection in the audience.
func (h *Hub) Broadcast(audience string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, a := range h.conns {
		if a != audience {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn().Err(err).Str("audience", audience).Msg("websocket write failed, dropping client")
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// ClientCount reports connected clients for an audience.
func (h *Hub) ClientCount(audience string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, a := range h.conns {
		if a == audience {
			n++
		}
	}
	return n
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}
