// Package websocket streams live tile-drop games to spectators.
// A Hub tracks the games being played and fans their events out to every
// websocket client watching them.
package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Spectators only send control frames.
	maxMessageSize = 512

	// Per-client queue; a client that falls this far behind is dropped.
	sendBuffer = 256

	// Hub inbox; publishes beyond this are dropped rather than stalling a game.
	broadcastBuffer = 1024
)

// Message types sent to spectators.
const (
	TypeSnapshot = "snapshot" // full state, sent on connect
	TypeEvents   = "events"   // one tick of events and the state they led to
	TypeClosed   = "closed"   // the game session ended
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating is read-only, so any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON frame sent to spectators.
type Message struct {
	Type      string           `json:"type"`
	SessionID string           `json:"session_id"`
	Snapshot  *tdcore.Snapshot `json:"snapshot,omitempty"`
	Events    []tdcore.Event   `json:"events,omitempty"`
}

// SessionInfo describes a game being streamed.
type SessionInfo struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Player     string    `json:"player"`
	StartedAt  time.Time `json:"started_at"`
	Spectators int       `json:"spectators"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	GameOver   bool      `json:"game_over"`
}

// Client is one spectator connection.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type session struct {
	info SessionInfo
	last *tdcore.Snapshot
}

// Hub maintains the active sessions and their spectators.
type Hub struct {
	logger *log.Logger

	// Spectators by session ID. Owned by the Run goroutine.
	clients map[string]map[*Client]bool

	// Session metadata and the latest snapshot, shared with HTTP handlers.
	mu       sync.RWMutex
	sessions map[string]*session

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
}

// NewHub creates a hub. A nil logger discards logs.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[string]map[*Client]bool),
		sessions:   make(map[string]*session),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
				delete(h.clients, id)
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// Open starts streaming a new game session and returns its sink.
func (h *Hub) Open(gameID, player string) *Sink {
	id := uuid.NewString()

	h.mu.Lock()
	h.sessions[id] = &session{info: SessionInfo{
		ID:        id,
		GameID:    gameID,
		Player:    player,
		StartedAt: time.Now(),
	}}
	h.mu.Unlock()

	h.logger.Info("session opened", "session", id, "game", gameID, "player", player)
	return &Sink{hub: h, id: id}
}

// Sessions lists the open sessions, oldest first.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s.info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Session returns one session and its latest snapshot.
func (h *Hub) Session(id string) (SessionInfo, *tdcore.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[id]
	if !ok {
		return SessionInfo{}, nil, false
	}
	return s.info, s.last, true
}

// publish records the snapshot and queues the message without blocking.
func (h *Hub) publish(id string, snap tdcore.Snapshot, events []tdcore.Event) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		s.last = &snap
		s.info.Score = snap.Score
		s.info.Level = snap.Level
		s.info.GameOver = snap.GameOver
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	h.enqueue(&Message{Type: TypeEvents, SessionID: id, Snapshot: &snap, Events: events})
}

func (h *Hub) close(id string) {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return
	}

	h.logger.Info("session closed", "session", id)
	h.enqueue(&Message{Type: TypeClosed, SessionID: id})
}

func (h *Hub) enqueue(m *Message) {
	select {
	case h.broadcast <- m:
	default:
		h.logger.Warn("spectator queue full, dropping update", "session", m.SessionID, "type", m.Type)
	}
}

// ServeWS upgrades the request and subscribes the client to a session.
// The current snapshot, if any, is sent first.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}

	if _, snap, ok := h.Session(sessionID); ok && snap != nil {
		if data, err := json.Marshal(&Message{Type: TypeSnapshot, SessionID: sessionID, Snapshot: snap}); err == nil {
			client.send <- data
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *Client) {
	if h.clients[client.sessionID] == nil {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true
	n := len(h.clients[client.sessionID])
	h.setSpectators(client.sessionID, n)

	h.logger.Debug("spectator joined", "session", client.sessionID, "spectators", n)
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.clients[client.sessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.setSpectators(client.sessionID, len(clients))

	h.logger.Debug("spectator left", "session", client.sessionID, "spectators", len(clients))
}

func (h *Hub) setSpectators(id string, n int) {
	h.mu.Lock()
	if s, ok := h.sessions[id]; ok {
		s.info.Spectators = n
	}
	h.mu.Unlock()
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("cannot marshal spectator message", "error", err)
		return
	}

	for client := range h.clients[message.SessionID] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.unregisterClient(client)
		}
	}

	if message.Type == TypeClosed {
		for client := range h.clients[message.SessionID] {
			h.unregisterClient(client)
		}
	}
}

// readPump discards client frames and keeps the read deadline fresh.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages one frame each, plus periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
