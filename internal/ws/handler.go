// Package ws, HTTP upgrade handler.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/duetapp/go-duet-backend/internal/hub"
)

// Options tunes the transport. Zero values fall back to the defaults below,
// so a zero Options is usable as-is.
type Options struct {
	// SendBuffer is the per-client outbound frame buffer; frames beyond it
	// are dropped.
	SendBuffer int

	// MaxMessageBytes caps one inbound frame.
	MaxMessageBytes int64

	// PingInterval and PongTimeout drive liveness detection. PingInterval
	// must be below PongTimeout or the peer is declared dead between pings.
	PingInterval time.Duration
	PongTimeout  time.Duration

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration

	// CheckOrigin overrides the upgrade origin check. Nil allows every
	// origin.
	CheckOrigin func(r *http.Request) bool
}

func (o Options) sendBuffer() int {
	if o.SendBuffer > 0 {
		return o.SendBuffer
	}
	return 64
}

func (o Options) maxMessageBytes() int64 {
	if o.MaxMessageBytes > 0 {
		return o.MaxMessageBytes
	}
	return 64 << 10
}

func (o Options) pingInterval() time.Duration {
	if o.PingInterval > 0 {
		return o.PingInterval
	}
	return 30 * time.Second
}

func (o Options) pongTimeout() time.Duration {
	if o.PongTimeout > 0 {
		return o.PongTimeout
	}
	return 75 * time.Second
}

func (o Options) writeTimeout() time.Duration {
	if o.WriteTimeout > 0 {
		return o.WriteTimeout
	}
	return 10 * time.Second
}

// Handler returns the Gin handler that upgrades GET /ws and runs the client
// pumps. The handler goroutine becomes the read pump; a second goroutine
// writes. Teardown always funnels through Client.shutdown, so a duplicate
// disconnect from the transport is harmless.
func Handler(h *hub.Hub, opts Options) gin.HandlerFunc {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = opts.sendBuffer()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4 << 10,
		WriteBufferSize: 4 << 10,
		CheckOrigin:     opts.CheckOrigin,
	}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Str("remote", c.ClientIP()).Msg("websocket upgrade failed")
			return
		}

		clientLog := log.With().Str("remote", c.ClientIP()).Logger()
		client := newClient(h, conn, opts, clientLog)
		clientLog.Info().Msg("websocket client connected")

		go client.writePump()
		client.readPump()
		clientLog.Info().Msg("websocket client disconnected")
	}
}
