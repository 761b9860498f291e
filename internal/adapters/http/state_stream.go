package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/app"
)

const (
	writeWait      = 5 * time.Second
	readLimit      = 512
	defaultPingGap = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateStream pushes every snapshot to the socket until either side goes
// away. Client frames are read and dropped.
func (h *handlers) stateStream(c *gin.Context) {
	client := c.GetString(clientTokenKey)
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "adapters.http").Str("client", client).Msg("state stream opened")
	if h.streams != nil {
		h.streams.IncrementStreamConnections()
		defer h.streams.DecrementStreamConnections()
	}

	snaps, unsubscribe := h.call.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go readPump(ctx, cancel, ws)
	writePump(ctx, ws, snaps, h.pingPeriod)
	log.Info().Str("module", "adapters.http").Str("client", client).Msg("state stream closed")
}

func readPump(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn) {
	defer cancel()
	ws.SetReadLimit(readLimit)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("state stream read")
			}
			return
		}
	}
}

func writePump(ctx context.Context, ws *websocket.Conn, snaps <-chan app.Snapshot, pingPeriod time.Duration) {
	if pingPeriod <= 0 {
		pingPeriod = defaultPingGap
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer func() { _ = ws.Close() }()

	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("marshal snapshot")
				continue
			}
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "adapters.http").Msg("state stream write")
				return
			}
		}
	}
}
