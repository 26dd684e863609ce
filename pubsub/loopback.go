package pubsub

import "sync"

// LoopbackHub is an in-process bus for single-node operation and tests. Each
// participant attaches as its own client; publishes fan out synchronously to
// every other client subscribed on the channel, mirroring the network bus's
// no-self-delivery behavior.
type LoopbackHub struct {
	mu      sync.RWMutex
	clients []*LoopbackClient
}

// NewLoopbackHub creates an empty in-process bus.
func NewLoopbackHub() *LoopbackHub {
	return &LoopbackHub{}
}

// NewClient attaches a new participant to the hub.
func (h *LoopbackHub) NewClient() *LoopbackClient {
	c := &LoopbackClient{hub: h, handlers: make(map[string][]func([]byte))}
	h.mu.Lock()
	h.clients = append(h.clients, c)
	h.mu.Unlock()
	return c
}

func (h *LoopbackHub) relay(from *LoopbackClient, channel string, payload []byte) {
	h.mu.RLock()
	clients := append([]*LoopbackClient(nil), h.clients...)
	h.mu.RUnlock()
	for _, c := range clients {
		if c != from {
			c.deliver(channel, payload)
		}
	}
}

// LoopbackClient is one participant's handle on a LoopbackHub.
type LoopbackClient struct {
	hub      *LoopbackHub
	mu       sync.RWMutex
	handlers map[string][]func([]byte)
}

// Publish delivers payload to every other client subscribed on channel.
func (c *LoopbackClient) Publish(channel string, payload []byte) error {
	c.hub.relay(c, channel, payload)
	return nil
}

// Subscribe registers a handler for a channel.
func (c *LoopbackClient) Subscribe(channel string, handler func([]byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[channel] = append(c.handlers[channel], handler)
}

// Close implements Broadcaster; a loopback client holds no resources.
func (c *LoopbackClient) Close() error { return nil }

func (c *LoopbackClient) deliver(channel string, payload []byte) {
	c.mu.RLock()
	handlers := append(([]func([]byte))(nil), c.handlers[channel]...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(payload)
	}
}
