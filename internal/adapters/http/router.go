// Package http is the view layer: a gin router over the session controller
// plus a WebSocket stream of call snapshots.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/app/session"
	"github.com/aimaster-dev/healthBridge/internal/config"
)

const (
	clientTokenCookie = "ct"
	clientTokenKey    = "client_token"
	nameKey           = "name"
)

// StreamMetrics counts open snapshot streams.
type StreamMetrics interface {
	IncrementStreamConnections()
	DecrementStreamConnections()
}

type Options struct {
	// Metrics serves GET /metrics when set.
	Metrics        http.Handler
	StreamMetrics  StreamMetrics
	JoinTimeout    time.Duration
	PingPeriod     time.Duration
	JoinRateLimit  int
	JoinRateWindow time.Duration
}

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientTokenCookie)
		if token == "" {
			token = genClientToken()
			c.SetCookie(clientTokenCookie, token, 3600*24*7, "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, call *session.Controller, opts Options) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("HealthBridgeSessions", store))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	h := &handlers{
		call:        call,
		limiter:     NewJoinRateLimiter(opts.JoinRateLimit, opts.JoinRateWindow),
		joinTimeout: opts.JoinTimeout,
		pingPeriod:  opts.PingPeriod,
		streams:     opts.StreamMetrics,
	}

	api := r.Group("/api")
	api.GET("/state", h.state)
	api.GET("/devices", h.devices)
	api.PUT("/devices/:category", h.selectDevice)
	api.PUT("/tracks/:kind", h.setEnabled)
	api.POST("/call/join", h.join)
	api.POST("/call/leave", h.leave)
	api.GET("/ws/state", h.stateStream)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
