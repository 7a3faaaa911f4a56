package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// ToolsConfig names the external executables looked up on the search path.
type ToolsConfig struct {
	Decoder string `env:"CKDTOOL_VGMSTREAM, default=vgmstream-cli"`
	Encoder string `env:"CKDTOOL_XMA_ENCODER, default=xma2encode"`
}

func NewToolsConfigFromEnv() (*ToolsConfig, error) {
	var cfg ToolsConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	if cfg.Decoder == "" || cfg.Encoder == "" {
		return nil, fmt.Errorf("CKDTOOL_VGMSTREAM and CKDTOOL_XMA_ENCODER must not be empty")
	}
	return &cfg, nil
}
