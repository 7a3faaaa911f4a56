package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// MinioConfig configures the optional archive of recooked containers.
// The archive is disabled when Endpoint is empty.
type MinioConfig struct {
	Endpoint string `env:"MINIO_ENDPOINT"`
	Username string `env:"MINIO_USERNAME"`
	Password string `env:"MINIO_PASSWORD"`
	Bucket   string `env:"MINIO_BUCKET, default=ckdtool"`
	Secure   bool   `env:"MINIO_SECURE, default=false"`
}

func NewMinioConfigFromEnv() (*MinioConfig, error) {
	var cfg MinioConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	if cfg.Enabled() && (cfg.Username == "" || cfg.Password == "") {
		return nil, fmt.Errorf("MINIO_USERNAME and MINIO_PASSWORD are required when MINIO_ENDPOINT is set")
	}

	return &cfg, nil
}

func (c *MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}
