// Package server is the hub's network face: websocket transport, the
// per-session protocol dispatcher, and the HTTP surface around them.
package server

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"d-hub/errors"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	// maxMessageSize bounds inbound frames; queries are tiny.
	maxMessageSize = 4096
)

// wsClient adapts one websocket connection into an EventSink. Deliver is
// a non-blocking buffered enqueue so a slow reader backs up its own
// buffer, never the broadcaster; the write pump drains the buffer and
// keeps the connection alive with pings.
type wsClient struct {
	log  *slog.Logger
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newWSClient(log *slog.Logger, conn *websocket.Conn, buffer int) *wsClient {
	if buffer <= 0 {
		buffer = 256
	}
	conn.SetReadLimit(maxMessageSize)
	return &wsClient{
		log:  log,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Deliver enqueues one serialized event for the write pump.
func (c *wsClient) Deliver(payload []byte) error {
	select {
	case <-c.done:
		return errors.ErrSessionClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errors.ErrSlowConsumer
	}
}

// Close shuts the connection down. Safe to call from the broadcaster, the
// read pump and the hub shutdown path concurrently.
func (c *wsClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump drains the send buffer onto the wire. One writer per
// connection: nothing else may call conn.Write*.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Debug("Write failed", "err", err)
				}
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

// isExpectedCloseError reports closures that happen on every orderly
// disconnect and are not worth logging.
func isExpectedCloseError(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

// readPump feeds inbound frames to handle until the connection dies.
// Only text frames reach the dispatcher; binary frames are accepted by
// the transport and dropped here.
func (c *wsClient) readPump(handle func(raw []byte)) {
	defer c.Close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) && !isExpectedCloseError(err) {
				c.log.Debug("Read failed", "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			c.log.Debug("Ignoring non-text frame", "messageType", messageType)
			continue
		}
		handle(raw)
	}
}
