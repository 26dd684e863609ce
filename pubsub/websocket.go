package pubsub

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/inconshreveable/log15"
)

const redialBackoff = 2 * time.Second

var errNotConnected = errors.New("pubsub: bus is not connected")

// Hub relays bus frames between connected nodes. The root node mounts it on
// its HTTP server; peers dial in as websocket clients. Every frame is fanned
// out to all connections, the originating one included: clients drop their
// own frames by sender id.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewHub creates an empty relay hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The bus carries only already-signed consensus payloads.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and relays frames until the peer hangs up.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Bus upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	log.Debug("Bus peer connected", "remote", r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			log.Debug("Bus peer disconnected", "remote", r.RemoteAddr, "err", err)
			return
		}
		h.relay(frame)
	}
}

func (h *Hub) relay(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Bus is a websocket client on a Hub, implementing Broadcaster. A lost
// connection is redialed in the background; frames published while offline
// are dropped (the transport is best-effort).
type Bus struct {
	url string
	id  string

	mu      sync.Mutex // guards conn writes and handler registration
	conn    *websocket.Conn
	handler map[string][]func([]byte)
	quit    chan struct{}
	once    sync.Once
}

// Dial connects to a hub and starts the receive loop.
func Dial(url string) (*Bus, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	b := &Bus{
		url:     url,
		id:      uuid.NewString(),
		conn:    conn,
		handler: make(map[string][]func([]byte)),
		quit:    make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

// Publish sends payload on the given channel.
func (b *Bus) Publish(channel string, payload []byte) error {
	frame, err := json.Marshal(&envelope{Sender: b.id, Channel: channel, Payload: payload})
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return errNotConnected
	}
	return b.conn.WriteMessage(websocket.TextMessage, frame)
}

// Subscribe registers a handler for a channel. Handlers run on the receive
// goroutine and must not block.
func (b *Bus) Subscribe(channel string, handler func([]byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler[channel] = append(b.handler[channel], handler)
}

// Close tears down the connection and stops the receive loop.
func (b *Bus) Close() error {
	b.once.Do(func() { close(b.quit) })
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		err := b.conn.Close()
		b.conn = nil
		return err
	}
	return nil
}

func (b *Bus) readLoop() {
	for {
		b.mu.Lock()
		conn := b.conn
		b.mu.Unlock()
		if conn == nil {
			if !b.redial() {
				return
			}
			continue
		}

		_, frame, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-b.quit:
				return
			default:
			}
			log.Warn("Bus connection lost", "url", b.url, "err", err)
			b.mu.Lock()
			b.conn = nil
			b.mu.Unlock()
			continue
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			log.Warn("Dropping malformed bus frame", "err", err)
			continue
		}
		if env.Sender == b.id {
			continue // own publish echoed back by the hub
		}
		b.mu.Lock()
		handlers := append(([]func([]byte))(nil), b.handler[env.Channel]...)
		b.mu.Unlock()
		for _, h := range handlers {
			h(env.Payload)
		}
	}
}

// redial reconnects with a fixed backoff. Returns false when the bus closed.
func (b *Bus) redial() bool {
	select {
	case <-b.quit:
		return false
	case <-time.After(redialBackoff):
	}
	conn, _, err := websocket.DefaultDialer.Dial(b.url, nil)
	if err != nil {
		log.Warn("Bus redial failed", "url", b.url, "err", err)
		return true
	}
	log.Info("Bus reconnected", "url", b.url)
	b.mu.Lock()
	b.conn = conn
	b.mu.Unlock()
	return true
}
