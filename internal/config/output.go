package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// OutputConfig controls where recooked containers are written.
// An empty Dir means an "output" directory next to the executable.
type OutputConfig struct {
	Dir string `env:"CKDTOOL_OUTPUT_DIR"`
}

func NewOutputConfigFromEnv() (*OutputConfig, error) {
	var cfg OutputConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
