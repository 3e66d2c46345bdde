// Package monitor exposes a live view of the client's downloaded records
// over a WebSocket: an upgrade-per-connection server, a JSON envelope per
// message, a write queue drained by a dedicated goroutine, and periodic
// pings to detect dead connections. This runs as the server side rather
// than a reconnecting client, since this module has no cloud to dial out
// to.
package monitor

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType tags the kind of record or event a monitor message carries.
type MessageType string

const (
	MsgTypeRecord    MessageType = "record"
	MsgTypeState     MessageType = "state"
	MsgTypeError     MessageType = "error"
	MsgTypeHello     MessageType = "hello"
	MsgTypeHeartbeat MessageType = "heartbeat"
)

// Message is one frame sent to every connected monitor client.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Config configures the monitor server.
type Config struct {
	ListenAddr   string
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

// DefaultConfig returns the documented default monitor configuration.
func DefaultConfig() Config {
	return Config{
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   100,
	}
}

// Bridge accepts WebSocket connections and fans out every Broadcast call to
// all of them. It does not itself know about Client or records -- callers
// push JSON-ready payloads, keeping this package free of a pcmiclient
// import cycle.
type Bridge struct {
	config   Config
	upgrader websocket.Upgrader
	http     *http.Server

	mu      sync.Mutex
	clients map[*bridgeConn]struct{}
}

// bridgeConn is one connected monitor client's outbound queue.
type bridgeConn struct {
	conn     *websocket.Conn
	sendChan chan *Message
	stopChan chan struct{}
}

// New builds a Bridge. Call Start to begin listening.
func New(config Config) *Bridge {
	if config.PingInterval == 0 {
		config = DefaultConfig()
	}
	return &Bridge{
		config:   config,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*bridgeConn]struct{}),
	}
}

// Start begins listening on config.ListenAddr in a background goroutine.
func (s *Bridge) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleConnection)

	s.http = &http.Server{Addr: s.config.ListenAddr, Handler: mux}
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("monitor server stopped: %v", err)
		}
	}()
	return nil
}

// Stop closes the HTTP server and every connected client.
func (s *Bridge) Stop() error {
	s.mu.Lock()
	for c := range s.clients {
		close(c.stopChan)
		c.conn.Close()
	}
	s.clients = make(map[*bridgeConn]struct{})
	s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	return s.http.Close()
}

// Broadcast sends payload, tagged with msgType, to every connected monitor
// client. Slow clients drop the message rather than block the caller.
func (s *Bridge) Broadcast(msgType MessageType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := &Message{Type: msgType, Timestamp: time.Now().Unix(), Payload: data}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.sendChan <- msg:
		default:
			log.Printf("monitor client send queue full, dropping %s message", msgType)
		}
	}
	return nil
}

// ConnectionCount returns the number of currently connected monitor
// clients.
func (s *Bridge) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Bridge) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor upgrade failed: %v", err)
		return
	}

	mc := &bridgeConn{
		conn:     conn,
		sendChan: make(chan *Message, s.config.SendBuffer),
		stopChan: make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[mc] = struct{}{}
	s.mu.Unlock()

	hello := Message{Type: MsgTypeHello, Timestamp: time.Now().Unix()}
	helloData, _ := json.Marshal(hello)
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	conn.WriteMessage(websocket.TextMessage, helloData)

	go s.readLoop(mc)
	go s.writeLoop(mc)
}

func (s *Bridge) readLoop(c *bridgeConn) {
	defer s.removeClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Bridge) writeLoop(c *bridgeConn) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case <-c.stopChan:
			return
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Bridge) removeClient(c *bridgeConn) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}
