// Package ws implements the WebSocket transport that feeds the hub: it owns
// the connection handles the hub borrows, translating inbound frames into
// typed hub calls and outbound hub events into JSON frames.
//
// Each client runs the usual two-goroutine pump pair. The write pump is the
// only goroutine that touches the underlying conn for writes (gorilla conns
// allow one concurrent writer); the read pump dispatches inbound events and
// tears the client down when the transport drops.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/duetapp/go-duet-backend/internal/hub"
)

// envelope is the wire frame in both directions: a named event plus its
// payload. Inbound Data stays raw until the dispatcher knows the event's
// expected shape.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound is a queued server → client frame. Data is marshaled lazily in the
// write pump so the hub never blocks on serialization.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Client is one live WebSocket connection. It satisfies hub.Conn: Send queues
// a frame without blocking and drops it when the client cannot keep up, which
// matches the hub's fire-and-forget delivery contract.
type Client struct {
	hub  *hub.Hub
	conn *websocket.Conn
	opts Options
	log  zerolog.Logger

	send chan outbound
	done chan struct{}
	once sync.Once
}

func newClient(h *hub.Hub, conn *websocket.Conn, opts Options, log zerolog.Logger) *Client {
	return &Client{
		hub:  h,
		conn: conn,
		opts: opts,
		log:  log,
		send: make(chan outbound, opts.SendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues an event for delivery. Never blocks: when the outbound buffer
// is full the frame is dropped and logged, on the theory that a client too
// slow to drain its buffer is better served by the next sync handshake than
// by backpressure into the relay engine.
func (c *Client) Send(event string, data any) {
	select {
	case c.send <- outbound{Event: event, Data: data}:
	case <-c.done:
	default:
		c.log.Warn().Str("event", event).Msg("outbound buffer full, frame dropped")
	}
}

// shutdown makes client teardown idempotent; the transport can report a
// disconnect more than once.
func (c *Client) shutdown() {
	c.once.Do(func() {
		c.hub.Disconnect(c)
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump serializes queued frames onto the conn and keeps the connection
// alive with pings. Runs in its own goroutine, one per client.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.pingInterval())
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.writeTimeout()))
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Debug().Err(err).Msg("write failed, closing connection")
				c.shutdown()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.writeTimeout()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// readPump consumes inbound frames until the transport drops, then tears the
// client down (which detaches it from the hub exactly once).
func (c *Client) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(c.opts.maxMessageBytes())
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.pongTimeout()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.pongTimeout()))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			c.log.Warn().Err(err).Msg("malformed frame dropped")
			continue
		}
		c.dispatch(env)
	}
}
