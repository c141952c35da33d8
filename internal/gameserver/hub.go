package gameserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait is the per-message write deadline.
	writeWait = 10 * time.Second
	// pongWait bounds how long a client may go silent before the read
	// pump gives up on it.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = 50 * time.Second
	// sendBuffer is the per-client outbound queue depth. Clients that
	// fall further behind are dropped.
	sendBuffer = 64
)

// wsClient is one spectator connection subscribed to a game's event stream.
type wsClient struct {
	gameID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans broadcast payloads out to every connection watching a game.
// All methods are safe for concurrent use.
type Hub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[string]map[*wsClient]bool // gameID → client set
	closed  bool
}

// NewHub creates an empty Hub.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]map[*wsClient]bool),
	}
}

// Register attaches a connection to the given game's broadcast set and
// starts its read and write pumps.
//
// Precondition: conn must be a live websocket connection.
// Postcondition: The connection receives every subsequent Broadcast for
// gameID until it disconnects or falls too far behind.
func (h *Hub) Register(gameID string, conn *websocket.Conn) *wsClient {
	client := &wsClient{
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return client
	}
	if h.clients[gameID] == nil {
		h.clients[gameID] = make(map[*wsClient]bool)
	}
	h.clients[gameID][client] = true
	h.mu.Unlock()

	h.logger.Debug("websocket client registered",
		zap.String("game_id", gameID),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	go h.writePump(client)
	go h.readPump(client)
	return client
}

// Broadcast queues a payload for every connection watching the game.
// Slow clients are dropped rather than allowed to stall the caller.
func (h *Hub) Broadcast(gameID string, payload []byte) {
	h.mu.RLock()
	var slow []*wsClient
	for client := range h.clients[gameID] {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("dropping slow websocket client",
			zap.String("game_id", gameID),
		)
		h.remove(client)
	}
}

// CloseGame disconnects every client watching the game.
//
// Postcondition: No clients remain registered for gameID.
func (h *Hub) CloseGame(gameID string) {
	h.mu.Lock()
	clients := h.clients[gameID]
	delete(h.clients, gameID)
	h.mu.Unlock()

	for client := range clients {
		close(client.send)
	}
}

// Close disconnects all clients across all games.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[*wsClient]bool)
	h.closed = true
	h.mu.Unlock()

	for _, clients := range all {
		for client := range clients {
			close(client.send)
		}
	}
}

// ClientCount returns the number of connections watching the game.
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	clients, ok := h.clients[client.gameID]
	if ok && clients[client] {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.gameID)
		}
		close(client.send)
	}
	h.mu.Unlock()
}

// readPump discards inbound frames; the stream is one-way. Its job is to
// notice disconnects and keep the pong deadline fresh.
func (h *Hub) readPump(client *wsClient) {
	defer func() {
		h.remove(client)
		_ = client.conn.Close()
	}()
	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
