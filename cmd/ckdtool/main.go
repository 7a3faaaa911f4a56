package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/glizzus/ckdtool/internal/config"
	"github.com/glizzus/ckdtool/internal/datalayer"
	"github.com/glizzus/ckdtool/internal/generator"
	"github.com/glizzus/ckdtool/internal/handler"
	"github.com/glizzus/ckdtool/internal/presenters"
	"github.com/glizzus/ckdtool/internal/tool"
	"github.com/urfave/cli/v2"
)

func setupLogging() error {
	logConfig, err := config.NewLogConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load log config: %w", err)
	}
	level, err := logConfig.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

func newArchive(ctx context.Context) (datalayer.BlobStorage, error) {
	minioConfig, err := config.NewMinioConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load minio config: %w", err)
	}
	if !minioConfig.Enabled() {
		return nil, nil
	}

	storage, err := datalayer.NewMinioStorage(minioConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure minio bucket: %w", err)
	}
	slog.Info("archiving recooked containers", "endpoint", minioConfig.Endpoint, "bucket", minioConfig.Bucket)
	return storage, nil
}

func runMenu(ctx context.Context) error {
	if err := setupLogging(); err != nil {
		return err
	}

	toolsConfig, err := config.NewToolsConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load tools config: %w", err)
	}
	outputConfig, err := config.NewOutputConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load output config: %w", err)
	}
	outputDir, err := datalayer.OutputDir(outputConfig.Dir)
	if err != nil {
		return err
	}

	archive, err := newArchive(ctx)
	if err != nil {
		return err
	}

	menu := &handler.Menu{
		Prompter:  &handler.InteractivePrompter{},
		Console:   presenters.NewConsole(os.Stdout),
		Codecs:    tool.NewToolbox(toolsConfig, &tool.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}),
		OutputDir: outputDir,
		Archive:   archive,
		RunIDs:    &generator.UUIDV4Generator{},
		Logger:    slog.Default(),
	}

	slog.Debug("starting menu", "outputDir", outputDir, "decoder", toolsConfig.Decoder, "encoder", toolsConfig.Encoder)
	return menu.Run(ctx)
}

func main() {
	if err := config.LoadEnv(); err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load .env file: %v", err)
		}
	}

	app := &cli.App{
		Name:  "ckdtool",
		Usage: "Uncook and recook .wav.ckd audio containers",
		Description: "An interactive tool that decodes .wav.ckd containers to WAV with vgmstream-cli,\n" +
			"and rebuilds them from an edited WAV using an XMA2 encoder and the original\n" +
			"container as a template. Recooked files are written to an 'output' folder\n" +
			"next to the executable unless CKDTOOL_OUTPUT_DIR is set.",
		Action: func(c *cli.Context) error {
			return runMenu(c.Context)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Error running CLI: %v", err)
	}
}
