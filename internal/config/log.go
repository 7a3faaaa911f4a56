package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sethvargo/go-envconfig"
)

type LogConfig struct {
	Level string `env:"CKDTOOL_LOG_LEVEL, default=warn"`
}

func NewLogConfigFromEnv() (*LogConfig, error) {
	var cfg LogConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel parses Level as one of debug, info, warn or error.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid CKDTOOL_LOG_LEVEL %q: %w", c.Level, err)
	}
	return level, nil
}
