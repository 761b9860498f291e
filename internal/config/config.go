package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	SignalURL   string   `mapstructure:"signal_url"`
	AppID       string   `mapstructure:"app_id"`
	Token       string   `mapstructure:"token"`
	Channel     string   `mapstructure:"channel"`
	DisplayName string   `mapstructure:"display_name"`
	ICEServers  []string `mapstructure:"ice_servers"`

	RequireAudioAndVideo bool          `mapstructure:"require_audio_and_video"`
	JoinTimeout          time.Duration `mapstructure:"join_timeout"`
	PingPeriod           time.Duration `mapstructure:"ping_period"`
	ReadLimit            int64         `mapstructure:"read_limit"`

	JoinRateLimit    int           `mapstructure:"join_rate_limit"`
	JoinRateInterval time.Duration `mapstructure:"join_rate_interval"`
	MetricsEnabled   bool          `mapstructure:"metrics_enabled"`
}

// JoinToken is the token handed to the transport: the explicit token, or
// the app id when none is configured.
func (c *Config) JoinToken() string {
	if c.Token != "" {
		return c.Token
	}
	return c.AppID
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if u, err := url.Parse(c.SignalURL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		errs = append(errs, fmt.Errorf("signal_url %q must be a ws:// or wss:// url", c.SignalURL))
	}
	if c.JoinTimeout <= 0 {
		errs = append(errs, errors.New("join_timeout must be positive"))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be positive"))
	}
	if c.JoinRateLimit < 1 || c.JoinRateInterval <= 0 {
		errs = append(errs, errors.New("join_rate_limit and join_rate_interval must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default). Every key
// can be overridden from the environment with the HB_ prefix.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("HB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "")
	v.SetDefault("signal_url", "ws://localhost:7880/signal")
	v.SetDefault("app_id", "")
	v.SetDefault("token", "")
	v.SetDefault("channel", "")
	v.SetDefault("display_name", "")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("require_audio_and_video", true)
	v.SetDefault("join_timeout", "20s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("join_rate_limit", 5)
	v.SetDefault("join_rate_interval", "1m")
	v.SetDefault("metrics_enabled", true)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("signal_url", cfg.SignalURL).
		Msg("config ready")
	return &cfg, nil
}
