package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kisai-labs/bms-preview/internal/audio"
	"github.com/kisai-labs/bms-preview/internal/bms"
	"github.com/kisai-labs/bms-preview/internal/cache"
	"github.com/kisai-labs/bms-preview/internal/errs"
)

const defaultSampleRate = 48000

// Render executes the preview pipeline for one chart: build the
// timing map, probe every referenced source, size and mix the destination
// buffer, fade, attenuate, and encode it to baseDir/cfg.PreviewFilename.
// Returns nil both when a preview was written and when rendering was
// legitimately skipped (declared preview, up-to-date cache entry, or an
// existing file with Overwrite disabled).
func Render(chart *bms.Chart, baseDir string, cfg Config, store *cache.DB, logger *slog.Logger) error {
	if chart.DeclaredPreview != "" {
		logger.Debug("chart already declares a preview, skipping", "dir", baseDir)
		return nil
	}

	previewPath := filepath.Join(baseDir, cfg.PreviewFilename)

	chartPath, hash, hashErr := findChartPathAndHash(baseDir)
	fingerprint := cfg.Fingerprint()

	if !cfg.Overwrite {
		if hashErr == nil && store != nil {
			if record, ok, err := store.Lookup(chartPath); err == nil && ok {
				if record.ChartContentHash == hash && record.ConfigFingerprint == fingerprint {
					if _, statErr := os.Stat(previewPath); statErr == nil {
						logger.Debug("render cache hit, skipping", "chart", chartPath)
						return nil
					}
				}
			}
		}
		if _, err := os.Stat(previewPath); err == nil {
			logger.Debug("preview already exists, skipping", "path", previewPath)
			return nil
		}
	}

	timing := bms.WavTimings(chart, baseDir, func(base, rel string) string {
		return filepath.Join(base, rel)
	})
	if len(timing) == 0 {
		return fmt.Errorf("%w: no resolvable background samples in %s", errs.ErrAudioNotFound, baseDir)
	}

	type probedSource struct {
		probe *audio.Probe
		times []float64
	}

	var sources []probedSource
	songLength := 0.0
	effectiveRate := 0

	for path, times := range timing {
		probe, err := audio.OpenProbe(path)
		if err != nil {
			logger.Warn("dropping unprobeable source", "path", path, "error", err)
			continue
		}
		duration, ok := probe.DurationSeconds()
		if !ok {
			logger.Warn("dropping source with unknown duration", "path", path)
			probe.Close()
			continue
		}
		if effectiveRate == 0 && probe.SampleRate() > 0 {
			effectiveRate = probe.SampleRate()
		}
		for _, t := range times {
			if end := t + duration; end > songLength {
				songLength = end
			}
		}
		sources = append(sources, probedSource{probe: probe, times: times})
	}

	if cfg.SampleRate > 0 {
		effectiveRate = cfg.SampleRate
	}
	if effectiveRate <= 0 {
		effectiveRate = defaultSampleRate
	}

	start, end := resolveWindow(cfg, songLength)
	if start > end {
		start, end = end, start
	}

	dest := audio.NewBuffer(end-start, effectiveRate)

	for _, src := range sources {
		var surviving []float64
		duration, _ := src.probe.DurationSeconds()
		for _, t := range src.times {
			if t < end && t+duration > start {
				surviving = append(surviving, t)
			}
		}
		if len(surviving) == 0 {
			src.probe.Close()
			continue
		}

		loaded, err := src.probe.Load()
		if err != nil {
			logger.Warn("skipping source that failed to decode", "path", src.probe.Path, "error", err)
			continue
		}
		if err := loaded.Resample(dest.SampleRate()); err != nil {
			logger.Warn("skipping source that failed to resample", "path", src.probe.Path, "error", err)
			continue
		}

		for _, t := range surviving {
			if err := dest.Add(loaded, t-start); err != nil {
				logger.Warn("ignoring mix error", "path", src.probe.Path, "at", t, "error", err)
			}
		}
	}

	dest.Fade(cfg.FadeInSec, cfg.FadeOutSec)
	dest.Attenuate(float32(cfg.VolumePercent / 100))

	if err := dest.Encode(previewPath, cfg.MonoAudio); err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrEncoder, previewPath, err)
	}

	if store != nil && hashErr == nil {
		record := &cache.Record{
			ChartPath:         chartPath,
			ChartContentHash:  hash,
			PreviewPath:       previewPath,
			ConfigFingerprint: fingerprint,
		}
		if err := store.Upsert(record); err != nil {
			logger.Warn("failed to record render cache entry", "chart", chartPath, "error", err)
		}
	}

	return nil
}

// resolveWindow turns the configured window (absolute seconds, or song-length
// percentages when both are explicitly set) into absolute start/end seconds.
func resolveWindow(cfg Config, songLength float64) (float64, float64) {
	if cfg.StartPercent != nil && cfg.EndPercent != nil {
		return *cfg.StartPercent / 100 * songLength, *cfg.EndPercent / 100 * songLength
	}
	return cfg.StartSec, cfg.EndSec
}

// findChartPathAndHash locates the chart file inside baseDir and hashes it,
// used to key the render cache. Any error here simply disables caching for
// this render (it still proceeds) rather than failing it.
func findChartPathAndHash(baseDir string) (string, string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(baseDir, e.Name())
		if bms.IsChartFile(path) {
			hash, err := cache.ComputeHash(path)
			if err != nil {
				return "", "", err
			}
			return path, hash, nil
		}
	}
	return "", "", fmt.Errorf("no chart file found in %s", baseDir)
}
