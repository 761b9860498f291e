package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aimaster-dev/healthBridge/internal/app/session"
	"github.com/aimaster-dev/healthBridge/internal/domain"
)

const defaultJoinTimeout = 20 * time.Second

type handlers struct {
	call        *session.Controller
	limiter     *JoinRateLimiter
	joinTimeout time.Duration
	pingPeriod  time.Duration
	streams     StreamMetrics
}

type JoinRequest struct {
	Channel string `json:"channel"`
	Name    string `json:"name"`
}

type SelectDeviceRequest struct {
	ID string `json:"id"`
}

type EnableRequest struct {
	Enabled *bool `json:"enabled"`
}

type DevicesResponse struct {
	Devices  domain.DeviceList `json:"devices"`
	Selected domain.Selections `json:"selected"`
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handlers) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.call.Snapshot())
}

func (h *handlers) devices(c *gin.Context) {
	list, sel := h.call.Devices()
	c.JSON(http.StatusOK, DevicesResponse{Devices: list, Selected: sel})
}

func (h *handlers) join(c *gin.Context) {
	token := c.GetString(clientTokenKey)
	if !h.limiter.Allow(token) {
		log.Warn().Str("module", "adapters.http").Str("client", token).Msg("join rate limited")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many join attempts"})
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid body"})
		return
	}

	sess := sessions.Default(c)
	name := domain.DisplayName(req.Name)
	if name == "" {
		name, _ = sess.Get(nameKey).(string)
	} else {
		sess.Set(nameKey, name)
		if err := sess.Save(); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
		}
	}

	handle, err := h.call.Join(req.Channel, name)
	switch {
	case errors.Is(err, domain.ErrInvalidChannel):
		fail(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, domain.ErrAlreadyActive):
		fail(c, http.StatusConflict, err)
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err)
		return
	}

	timeout := h.joinTimeout
	if timeout <= 0 {
		timeout = defaultJoinTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	err = handle.Wait(ctx)
	if err != nil && ctx.Err() != nil && !handle.Cancel() {
		// The join settled between the timeout and Cancel; report that.
		err = handle.Wait(c.Request.Context())
	}
	switch {
	case err == nil:
		c.JSON(http.StatusOK, h.call.Snapshot())
	case errors.Is(err, domain.ErrConnectFailed):
		fail(c, http.StatusBadGateway, err)
	case errors.Is(err, domain.ErrJoinCancelled):
		fail(c, http.StatusConflict, err)
	case ctx.Err() != nil:
		log.Warn().Str("module", "adapters.http").Str("channel", req.Channel).Msg("join timed out")
		fail(c, http.StatusGatewayTimeout, err)
	default:
		fail(c, http.StatusInternalServerError, err)
	}
}

func (h *handlers) leave(c *gin.Context) {
	h.call.Leave(c.Request.Context())
	c.JSON(http.StatusOK, h.call.Snapshot())
}

func (h *handlers) selectDevice(c *gin.Context) {
	category, err := domain.ParseDeviceCategory(c.Param("category"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	var req SelectDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid id"})
		return
	}
	if err := h.call.SetDeviceSelection(c.Request.Context(), category, req.ID); err != nil {
		if errors.Is(err, domain.ErrUnknownDevice) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	h.devices(c)
}

func (h *handlers) setEnabled(c *gin.Context) {
	kind, err := domain.ParseMediaKind(c.Param("kind"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	var req EnableRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid enabled"})
		return
	}
	if !h.call.SetEnabled(kind, *req.Enabled) {
		c.JSON(http.StatusConflict, gin.H{"error": "no open " + string(kind) + " track"})
		return
	}
	c.JSON(http.StatusOK, h.call.Snapshot())
}
