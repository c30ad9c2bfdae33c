// Command bmspreview batch-generates Ogg Vorbis preview clips for a folder
// of BMS-family rhythm game charts.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kisai-labs/bms-preview/internal/batch"
	"github.com/kisai-labs/bms-preview/internal/cache"
	"github.com/kisai-labs/bms-preview/internal/config"
	"github.com/kisai-labs/bms-preview/internal/errs"
)

func main() {
	cfg := config.Parse()

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if info, err := os.Stat(cfg.SongsFolder); err != nil || !info.IsDir() {
		logger.Error("invalid songs folder", "path", cfg.SongsFolder, "error", errs.ErrInvalidSongsFolder)
		os.Exit(1)
	}

	store, err := cache.Open(cfg.CacheDir, logger)
	if err != nil {
		logger.Error("failed to open render cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("starting batch render",
		"songs_folder", cfg.SongsFolder,
		"cache_dir", cfg.CacheDir,
		"jobs", cfg.Jobs,
		"preview_file", cfg.Preview.PreviewFilename,
	)

	if err := batch.Run(context.Background(), cfg.SongsFolder, cfg.Preview, store, logger, cfg.Jobs); err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}
}
