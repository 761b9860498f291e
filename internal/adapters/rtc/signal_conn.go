package rtc

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("signaling connection closed")
)

const writeWait = 5 * time.Second

// signalConn owns the signaling socket. Writes go through send and a
// single write pump.
type signalConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newSignalConn(conn *websocket.Conn) *signalConn {
	return &signalConn{conn: conn, send: make(chan []byte, 32)}
}

func (c *signalConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *signalConn) sendJSON(m message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.TrySend(b)
}

// closeSend stops accepting messages; the write pump flushes what is
// queued and then closes the socket.
func (c *signalConn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *signalConn) Close() {
	c.closeSend()
	_ = c.conn.Close()
}

// writePump drains send and emits a protocol ping every pingPeriod.
func (c *signalConn) writePump(ctx context.Context, pingPeriod time.Duration) {
	var tick <-chan time.Time
	if pingPeriod > 0 {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}
	ping, _ := json.Marshal(message{Type: msgPing})
	defer func() { _ = c.conn.Close() }()

	for {
		var data []byte
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "rtc.signal").Msg("writePump ctx done")
			return
		case <-tick:
			data = ping
		case b, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "rtc.signal").Msg("writePump channel closed")
				return
			}
			data = b
		}
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Error().Err(err).Str("module", "rtc.signal").Msg("writePump set deadline")
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Error().Err(err).Str("module", "rtc.signal").Msg("writePump write error")
			return
		}
	}
}

// readPump decodes inbound messages until the socket fails, then reports
// the cause to onDone.
func (c *signalConn) readPump(handle func(message), onDone func(err error)) {
	var err error
	defer func() {
		c.Close()
		onDone(err)
	}()
	for {
		var data []byte
		_, data, err = c.conn.ReadMessage()
		if err != nil {
			return
		}
		var m message
		if uerr := json.Unmarshal(data, &m); uerr != nil {
			log.Error().Err(uerr).Str("module", "rtc.signal").Msg("bad json")
			continue
		}
		handle(m)
	}
}
