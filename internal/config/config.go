// Package config parses the bmspreview CLI surface into a songs-folder root
// plus a fully-populated preview configuration.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kisai-labs/bms-preview/internal/render"
)

// Config is the parsed CLI surface: the songs-folder root, batch-driver
// tuning, and the preview configuration shared by every chart in the batch.
type Config struct {
	SongsFolder string
	CacheDir    string
	Jobs        int
	LogLevel    string

	Preview render.Config
}

// Parse reads os.Args into a Config.
func Parse() *Config {
	cfg := &Config{}

	var startP, endP float64
	var startPSet, endPSet bool

	flag.StringVar(&cfg.SongsFolder, "songs-folder", "", "root directory to scan (required)")
	flag.StringVar(&cfg.SongsFolder, "f", "", "root directory to scan (required) (shorthand)")

	flag.Float64Var(&cfg.Preview.StartSec, "start", 20.0, "preview start in seconds")
	flag.Float64Var(&cfg.Preview.StartSec, "s", 20.0, "preview start in seconds (shorthand)")
	flag.Float64Var(&cfg.Preview.EndSec, "end", 40.0, "preview end in seconds")
	flag.Float64Var(&cfg.Preview.EndSec, "e", 40.0, "preview end in seconds (shorthand)")

	flag.Float64Var(&startP, "start-p", 0, "preview start as percent of song length")
	flag.Float64Var(&endP, "end-p", 0, "preview end as percent of song length")

	flag.Float64Var(&cfg.Preview.FadeInSec, "fade-in", 2.0, "fade-in seconds")
	flag.Float64Var(&cfg.Preview.FadeOutSec, "fade-out", 2.0, "fade-out seconds")

	flag.StringVar(&cfg.Preview.PreviewFilename, "preview-file", "preview_auto_generated.ogg", "output filename")
	flag.StringVar(&cfg.Preview.PreviewFilename, "o", "preview_auto_generated.ogg", "output filename (shorthand)")

	flag.BoolVar(&cfg.Preview.MonoAudio, "mono-audio", false, "mono down-mix")
	flag.BoolVar(&cfg.Preview.MonoAudio, "m", false, "mono down-mix (shorthand)")

	flag.IntVar(&cfg.Preview.SampleRate, "sample-rate", 0, "target rate in Hz (0 = derive from first probed file)")
	flag.IntVar(&cfg.Preview.SampleRate, "r", 0, "target rate in Hz (shorthand)")

	flag.Float64Var(&cfg.Preview.VolumePercent, "volume", 100.0, "output volume, percent")
	flag.Float64Var(&cfg.Preview.VolumePercent, "v", 100.0, "output volume, percent (shorthand)")

	flag.BoolVar(&cfg.Preview.Overwrite, "overwrite", true, "overwrite existing preview")

	flag.StringVar(&cfg.CacheDir, "cache-dir", defaultCacheDir(), "directory holding the render cache SQLite file")
	flag.IntVar(&cfg.Jobs, "jobs", runtime.NumCPU(), "worker pool size")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	flag.Parse()

	// flag.Visit reports only flags actually passed on the command line,
	// which is how start-p/end-p presence is distinguished from an
	// explicitly-provided zero.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start-p":
			startPSet = true
		case "end-p":
			endPSet = true
		}
	})
	if startPSet {
		cfg.Preview.StartPercent = &startP
	}
	if endPSet {
		cfg.Preview.EndPercent = &endP
	}

	return cfg
}

func defaultCacheDir() string {
	if dir := os.Getenv("BMS_PREVIEW_CACHE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bms-preview"
	}
	return filepath.Join(home, ".bms-preview")
}
