package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/aimaster-dev/healthBridge/internal/adapters/http"
	"github.com/aimaster-dev/healthBridge/internal/adapters/media"
	"github.com/aimaster-dev/healthBridge/internal/adapters/rtc"
	"github.com/aimaster-dev/healthBridge/internal/app"
	"github.com/aimaster-dev/healthBridge/internal/app/session"
	"github.com/aimaster-dev/healthBridge/internal/config"
	"github.com/aimaster-dev/healthBridge/internal/core"
	"github.com/aimaster-dev/healthBridge/internal/domain"
	"github.com/aimaster-dev/healthBridge/internal/metric"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	devices, err := media.New()
	if err != nil {
		log.Fatal().Err(err).Msg("capture devices")
	}
	transport, err := rtc.New(rtc.Config{
		SignalURL:   cfg.SignalURL,
		ICEServers:  cfg.ICEServers,
		PingPeriod:  cfg.PingPeriod,
		ReadLimit:   cfg.ReadLimit,
		MediaEngine: devices.PopulateMediaEngine,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("rtc transport")
	}

	var metrics *metric.Metrics
	opts := session.Options{
		Token:     cfg.JoinToken(),
		Policy:    app.NewPublishPolicy(cfg.RequireAudioAndVideo),
		Callbacks: callbacks(),
	}
	routerOpts := router.Options{
		JoinTimeout:    cfg.JoinTimeout,
		PingPeriod:     cfg.PingPeriod,
		JoinRateLimit:  cfg.JoinRateLimit,
		JoinRateWindow: cfg.JoinRateInterval,
	}
	if cfg.MetricsEnabled {
		metrics = metric.New()
		opts.Metrics = metrics
		routerOpts.Metrics = metrics.Handler()
		routerOpts.StreamMetrics = metrics
	}

	call := session.New(transport, devices, devices, opts)
	if err := call.Start(ctx); err != nil {
		log.Error().Err(err).Msg("device enumeration failed, starting without devices")
	}

	if cfg.Channel != "" {
		go autoJoin(ctx, call, cfg)
	}

	r := router.SetupRouter(cfg, call, routerOpts)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("call agent started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	call.Close(shutdownCtx)
	log.Info().Msg("Server exited gracefully")
}

func autoJoin(ctx context.Context, call *session.Controller, cfg *config.Config) {
	handle, err := call.Join(cfg.Channel, cfg.DisplayName)
	if err != nil {
		log.Error().Err(err).Str("channel", cfg.Channel).Msg("auto join")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.JoinTimeout)
	defer cancel()
	if err := handle.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			handle.Cancel()
		}
		log.Error().Err(err).Str("channel", cfg.Channel).Msg("auto join")
	}
}

func callbacks() session.Callbacks {
	return session.Callbacks{
		OnConnected: func(channel string, self domain.ParticipantID) {
			log.Info().Str("channel", channel).Str("uid", string(self)).Msg("in call")
		},
		OnAbort: func(err error) {
			log.Warn().Err(err).Msg("call ended")
		},
		OnRemoteTrack: func(uid domain.ParticipantID, kind domain.MediaKind, _ core.RemoteTrack) {
			log.Info().Str("uid", string(uid)).Str("kind", string(kind)).Msg("remote track ready")
		},
		OnRemoteTrackRemoved: func(uid domain.ParticipantID, kind domain.MediaKind) {
			log.Info().Str("uid", string(uid)).Str("kind", string(kind)).Msg("remote track gone")
		},
	}
}
