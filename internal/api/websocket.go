package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"maze-chase/internal/command"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// EventGameState is pushed with every new snapshot
	EventGameState = "game:state"

	writeWait      = 2 * time.Second
	maxMessageSize = 512
)

// CommandSink receives commands read from WebSocket clients.
type CommandSink interface {
	Enqueue(cmd command.Command) bool
}

type wsClient struct {
	conn   *websocket.Conn
	ip     string
	format Format
}

type outbound struct {
	event string
	data  interface{}
}

// WebSocketHub manages all WebSocket connections with DoS protection.
// Run is the only goroutine that writes to client connections.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan outbound
	register   chan *wsClient
	unregister chan *websocket.Conn
	stopChan   chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	wsLimiter *WebSocketRateLimiter
	commands  CommandSink
}

// NewWebSocketHub creates a hub. Inbound text frames are parsed as
// commands and handed to sink; a nil sink ignores them.
func NewWebSocketHub(origins []string, sink CommandSink) *WebSocketHub {
	if origins == nil {
		origins = DefaultCORSOrigins
	}
	h := &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		commands:   sink,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if IsAllowedOrigin(origin, origins) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run processes registrations and broadcasts until Stop is called
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.remove(conn)

		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// send encodes msg once per format in use and writes it to every client
func (h *WebSocketHub) send(msg outbound) {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var encoded [2][]byte
	for _, c := range clients {
		payload := encoded[c.format]
		if payload == nil {
			var err error
			payload, err = EncodeMessage(c.format, msg.event, msg.data)
			if err != nil {
				log.Printf("⚠️ WebSocket encode error: %v", err)
				return
			}
			encoded[c.format] = payload
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(c.format.messageType(), payload); err != nil {
			h.remove(c.conn)
			continue
		}
		IncrementWSMessages()
	}
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("📱 Client disconnected (%d remaining)", count)
		UpdateWSConnections(count)
	}
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, client := range h.clients {
		h.wsLimiter.Release(client.ip)
		conn.Close()
		delete(h.clients, conn)
	}
	UpdateWSConnections(0)
}

// Stop closes every connection and ends Run
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// Broadcast queues a message for all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	select {
	case h.broadcast <- outbound{event: event, data: data}:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes each new snapshot to clients every interval.
// Snapshots whose sequence has not changed are skipped.
func (h *WebSocketHub) StartBroadcastLoop(engine EngineInterface, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		var lastSeq uint64

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := engine.GetSnapshot()
			if snap == nil || snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast(EventGameState, snap)
		}
	}()
}

// HandleWebSocket upgrades the connection. ?format=msgpack selects binary
// msgpack frames; JSON text frames are the default.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &wsClient{conn: conn, ip: ip, format: ParseFormat(r.URL.Query().Get("format"))}
	select {
	case h.register <- client:
	case <-h.stopChan:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go h.readLoop(client)
}

// readLoop turns inbound frames into commands until the connection fails
func (h *WebSocketHub) readLoop(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c.conn:
		case <-h.stopChan:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if h.commands == nil {
			continue
		}

		cmd, ok := command.Parse(commandText(message))
		if !ok {
			continue
		}
		cmd.ClientID = c.ip
		cmd.ReceivedAt = time.Now()
		h.commands.Enqueue(cmd)
	}
}

// commandText accepts either a bare command ("up", "!restart") or a
// JSON object {"command": "up"}.
func commandText(message []byte) string {
	text := strings.TrimSpace(string(message))
	if !strings.HasPrefix(text, "{") {
		return text
	}
	var msg struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		return ""
	}
	return msg.Command
}
