// Package errs defines the sentinel error values shared across the renderer.
// Callers wrap these with fmt.Errorf("...: %w", ErrX) so errors.Is keeps working
// through layers, the same convention the rest of this codebase uses.
package errs

import "errors"

var (
	// ErrInvalidSongsFolder means the configured songs root does not exist or is not a directory.
	ErrInvalidSongsFolder = errors.New("invalid songs folder")

	// ErrChartDecode means the chart's raw bytes could not be decoded to text.
	ErrChartDecode = errors.New("chart decode failed")

	// ErrChartParse means the decoded chart text did not parse as a valid chart.
	ErrChartParse = errors.New("chart parse failed")

	// ErrAudioNotFound means no candidate file exists for a referenced keysound.
	ErrAudioNotFound = errors.New("audio source not found")

	// ErrCodecMetadataMissing means a probed source is missing channel count or sample rate.
	ErrCodecMetadataMissing = errors.New("codec metadata missing")

	// ErrDecode means decoding audio frames from a source failed.
	ErrDecode = errors.New("audio decode failed")

	// ErrResampler means constructing or running the resampler failed.
	ErrResampler = errors.New("resample failed")

	// ErrMismatchedSampleRate means two buffers with different sample rates were combined.
	ErrMismatchedSampleRate = errors.New("mismatched sample rate")

	// ErrBounds means an offset or length computation fell outside valid range.
	ErrBounds = errors.New("out of bounds")

	// ErrIO means a filesystem operation failed.
	ErrIO = errors.New("io error")

	// ErrEncoder means the Vorbis encoder failed.
	ErrEncoder = errors.New("encode failed")
)
