// Package broker is a reusable fan-out hub: a registry of live connections
// with broadcast support, driven entirely through wsconn's hook contract
// rather than reaching into a connection's internals. It supplements this
// project's core with the kind of component its own purpose statement
// names as a motivating use case (chat relays, fan-out brokers) but that
// the frame/handshake/event-loop core intentionally stops short of
// designing.
package broker

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coregx/wsrelay/wsproto"
)

// Client is a single registered connection: its send function (as handed
// to a ChannelsHook by wsconn.Conn) plus the correlation ID it is
// addressed by in logs and broadcasts.
type Client struct {
	ID   uuid.UUID
	send func([]byte) error
}

// Broker is a single-goroutine event loop over register/unregister/
// broadcast events, the same structure as a classic Go chat-room hub:
// only that goroutine writes the client map, so registration,
// unregistration, and broadcasting are serialized by the channels that
// feed the loop. A mutex still guards the map so that ClientCount can read
// it from other goroutines.
type Broker struct {
	log zerolog.Logger

	register   chan *Client
	unregister chan uuid.UUID
	broadcast  chan []byte

	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	closed  bool
}

// New creates a Broker. Run must be called (typically in a goroutine)
// before Register/Unregister/Broadcast have any effect.
func New(log zerolog.Logger) *Broker {
	return &Broker{
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan uuid.UUID),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]*Client),
	}
}

// Run drives the event loop until Close is called. Intended to be started
// with `go broker.Run()`.
func (b *Broker) Run() {
	b.wg.Add(1)
	defer b.wg.Done()

	for {
		select {
		case c := <-b.register:
			b.mu.Lock()
			b.clients[c.ID] = c
			b.mu.Unlock()
			b.log.Debug().Stringer("client_id", c.ID).Msg("client registered")

		case id := <-b.unregister:
			b.mu.Lock()
			delete(b.clients, id)
			b.mu.Unlock()
			b.log.Debug().Stringer("client_id", id).Msg("client unregistered")

		case msg := <-b.broadcast:
			b.mu.RLock()
			for _, c := range b.clients {
				if err := c.send(msg); err != nil {
					b.log.Warn().Stringer("client_id", c.ID).Err(err).Msg("dropping client after failed send")
					go b.Unregister(c.ID)
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			return
		}
	}
}

// NewClient registers a fresh client addressed by a newly generated UUID
// and returns it, so a ChannelsHook implementation can stash the ID
// alongside the send function it was handed.
func (b *Broker) NewClient(send func([]byte) error) *Client {
	c := &Client{ID: uuid.New(), send: send}
	b.Register(c)
	return c
}

// Register adds a client to the broker. No-op once the broker is closed.
func (b *Broker) Register(c *Client) {
	if b.isClosed() {
		return
	}
	b.register <- c
}

// Unregister removes a client by ID. No-op once the broker is closed.
func (b *Broker) Unregister(id uuid.UUID) {
	if b.isClosed() {
		return
	}
	b.unregister <- id
}

// Broadcast queues a message for delivery to every registered client;
// delivery happens on the event-loop goroutine. It returns without waiting
// for delivery while fewer than 256 messages are queued, and blocks until
// the event loop takes one once that buffer is full.
func (b *Broker) Broadcast(msg []byte) {
	if b.isClosed() {
		return
	}
	b.broadcast <- msg
}

// BroadcastText is a convenience wrapper encoding s as a text frame before
// broadcasting it.
func (b *Broker) BroadcastText(s string) {
	b.Broadcast(wsproto.EncodeText(s))
}

// ClientCount reports the number of currently registered clients.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broker) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close stops the event loop and waits for Run to exit. Safe to call
// multiple times.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.wg.Wait()
}
