package walletevents

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WSBridge relays every event on a Bus to a set of connected websocket
// clients, so a UI process can observe api-connect/balance-update/etc.
// without linking the wallet package directly. One bridge serves many
// connections; each connection gets its own write goroutine so a slow
// client can't stall event delivery to the others.
type WSBridge struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan wireEvent
}

// wireEvent is the JSON shape pushed to every connected client.
type wireEvent struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// NewWSBridge constructs a bridge and subscribes it to every Kind on bus.
func NewWSBridge(bus *Bus) *WSBridge {
	b := &WSBridge{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}

	for _, kind := range allKinds {
		kind := kind
		bus.Subscribe(kind, func(ev Event) {
			b.broadcast(kind, ev.Payload)
		})
	}
	return b
}

// ServeHTTP upgrades the connection and registers it for event delivery
// until the client disconnects.
func (b *WSBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &wsClient{conn: conn, send: make(chan wireEvent, 64)}
	b.mu.Lock()
	b.clients[client] = struct{}{}
	b.mu.Unlock()

	go b.writePump(client)
	go b.readPump(client)
}

// readPump only exists to notice disconnects; this bridge takes no input
// from clients.
func (b *WSBridge) readPump(client *wsClient) {
	defer b.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *WSBridge) writePump(client *wsClient) {
	defer client.conn.Close()
	for ev := range client.send {
		if err := client.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (b *WSBridge) remove(client *wsClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.send)
	}
}

func (b *WSBridge) broadcast(kind Kind, payload interface{}) {
	ev := wireEvent{Kind: string(kind), Payload: payload}

	// Pre-marshal nothing here; WriteJSON per-client handles encoding, but
	// skip clients whose send buffer is full rather than blocking the bus's
	// synchronous Emit.
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		select {
		case client.send <- ev:
		default:
		}
	}
}
