package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/remote"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	GridSize       float64 `envconfig:"GRID_SIZE" default:"20"`
	CanvasWidth    float64 `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight   float64 `envconfig:"CANVAS_HEIGHT" default:"720"`
	MaxCanvasSize  float64 `envconfig:"MAX_CANVAS_SIZE" default:"8192"`
	JWTSecret      string  `envconfig:"JWT_SECRET"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	TransformKey   string  `envconfig:"TRANSFORM_KEY" default:"t"`
	DetachKey      string  `envconfig:"DETACH_KEY" default:"Enter"`
	FontPath       string  `envconfig:"FONT_PATH"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`

	PingPeriod     time.Duration `envconfig:"WS_PING_PERIOD" default:"30s"`
	WriteWait      time.Duration `envconfig:"WS_WRITE_WAIT" default:"10s"`
	MaxMessageSize int64         `envconfig:"WS_MAX_MESSAGE_SIZE" default:"65536"`
	MaxRejected    int           `envconfig:"WS_MAX_REJECTED" default:"16"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("GRID_SIZE must be positive, got %v", c.GridSize)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", c.CanvasWidth, c.CanvasHeight)
	}
	if c.MaxCanvasSize <= 0 {
		return fmt.Errorf("MAX_CANVAS_SIZE must be positive, got %v", c.MaxCanvasSize)
	}
	if c.CanvasWidth > c.MaxCanvasSize || c.CanvasHeight > c.MaxCanvasSize {
		return fmt.Errorf("canvas size %vx%v exceeds MAX_CANVAS_SIZE %v", c.CanvasWidth, c.CanvasHeight, c.MaxCanvasSize)
	}
	if c.PingPeriod <= 0 || c.WriteWait <= 0 {
		return fmt.Errorf("websocket timeouts must be positive, got ping %v write %v", c.PingPeriod, c.WriteWait)
	}
	if c.MaxMessageSize <= 0 || c.MaxRejected <= 0 {
		return fmt.Errorf("WS_MAX_MESSAGE_SIZE and WS_MAX_REJECTED must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// EngineOptions maps the canvas settings onto engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		GridSize:     c.GridSize,
		Width:        c.CanvasWidth,
		Height:       c.CanvasHeight,
		TransformKey: c.TransformKey,
		DetachKey:    c.DetachKey,
		MaxSize:      c.MaxCanvasSize,
	}
}

// ConnOptions maps the websocket settings onto hub connection options.
func (c *Config) ConnOptions() remote.ConnOptions {
	return remote.ConnOptions{
		PingPeriod:     c.PingPeriod,
		WriteWait:      c.WriteWait,
		MaxMessageSize: c.MaxMessageSize,
		MaxRejected:    c.MaxRejected,
	}
}

// Origins splits ALLOWED_ORIGINS into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}
