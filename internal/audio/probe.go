package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kisai-labs/bms-preview/internal/errs"
)

// fuzzyExtensions is the fallback search order used when a chart-referenced
// path does not exist verbatim.
var fuzzyExtensions = []string{"wav", "ogg", "mp3"}

// decodedSource is satisfied by each format-specific decoder: it exposes
// metadata without committing to decoding sample data, and Decode() performs
// the (one-shot, consuming) read of every frame into stereo samples.
type decodedSource interface {
	Channels() int
	SampleRate() int
	// Frames reports the total frame count, if knowable without a full
	// decode pass; ok is false when the format cannot report it up front.
	Frames() (frames int64, ok bool)
	// Decode consumes the underlying file and returns every frame as a
	// stereo sample, taking channels 0 and 1 and duplicating mono sources.
	Decode() ([]Sample, error)
	Close() error
}

// Probe is an opened, metadata-sniffed audio source. It owns a file handle
// until Load consumes it.
type Probe struct {
	Path     string
	src      decodedSource
	consumed bool
}

// ResolveFuzzy finds an existing file for a logical path: the path itself, or
// (failing that) the same stem with one of the fuzzy extensions appended.
func ResolveFuzzy(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	stem := path[:len(path)-len(filepath.Ext(path))]
	if filepath.Ext(path) == "" {
		stem = path
	}
	for _, ext := range fuzzyExtensions {
		candidate := stem + "." + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errs.ErrAudioNotFound, path)
}

// OpenProbe resolves, opens, and sniffs the metadata of an audio source
// without decoding its sample data.
func OpenProbe(path string) (*Probe, error) {
	resolved, err := ResolveFuzzy(path)
	if err != nil {
		return nil, err
	}

	src, err := openDecodedSource(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrCodecMetadataMissing, resolved, err)
	}
	if src.Channels() < 1 || src.SampleRate() <= 0 {
		src.Close()
		return nil, fmt.Errorf("%w: %s", errs.ErrCodecMetadataMissing, resolved)
	}

	return &Probe{Path: resolved, src: src}, nil
}

// Channels returns the source's channel count.
func (p *Probe) Channels() int { return p.src.Channels() }

// SampleRate returns the source's nominal sample rate in Hz.
func (p *Probe) SampleRate() int { return p.src.SampleRate() }

// DurationSeconds returns the source's duration, when both frame count and
// sample rate are known.
func (p *Probe) DurationSeconds() (float64, bool) {
	frames, ok := p.src.Frames()
	if !ok || p.src.SampleRate() <= 0 {
		return 0, false
	}
	return float64(frames) / float64(p.src.SampleRate()), true
}

// Close releases the probe's file handle. It is a no-op after Load, which
// closes the handle itself.
func (p *Probe) Close() error {
	if p.consumed {
		return nil
	}
	p.consumed = true
	return p.src.Close()
}

// Load consumes the probe, decoding every frame into a new Buffer at the
// source's native sample rate. The probe must not be used again afterward.
func (p *Probe) Load() (*Buffer, error) {
	if p.consumed {
		return nil, fmt.Errorf("%w: probe for %s already consumed", errs.ErrDecode, p.Path)
	}
	p.consumed = true
	defer p.src.Close()

	samples, err := p.src.Decode()
	if err != nil && len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrDecode, p.Path, err)
	}
	return &Buffer{samples: samples, rate: p.src.SampleRate()}, nil
}

// openDecodedSource dispatches to the format-specific decoder by extension.
func openDecodedSource(path string) (decodedSource, error) {
	switch extOf(path) {
	case "wav":
		return newWAVSource(path)
	case "mp3":
		return newMP3Source(path)
	case "ogg":
		return newOGGSource(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", path)
	}
}

func extOf(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return strings.ToLower(ext)
}
