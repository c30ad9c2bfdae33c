package audio

import (
	"os"

	"github.com/go-audio/wav"
)

// wavSource decodes PCM WAV via go-audio/wav, the library this codebase's
// pack already uses for RIFF/WAVE container parsing.
type wavSource struct {
	file    *os.File
	decoder *wav.Decoder
}

func newWAVSource(path string) (decodedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, errUnreadableWAV(path)
	}
	return &wavSource{file: f, decoder: dec}, nil
}

func (s *wavSource) Channels() int   { return int(s.decoder.NumChans) }
func (s *wavSource) SampleRate() int { return int(s.decoder.SampleRate) }
func (s *wavSource) Close() error    { return s.file.Close() }

func (s *wavSource) Frames() (int64, bool) {
	dur, err := s.decoder.Duration()
	if err != nil || s.decoder.SampleRate == 0 {
		return 0, false
	}
	return int64(dur.Seconds() * float64(s.decoder.SampleRate)), true
}

func (s *wavSource) Decode() ([]Sample, error) {
	buf, err := s.decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := buf.NumFrames()
	samples := make([]Sample, frames)

	scale := float32(1 << (uint(buf.SourceBitDepth) - 1))
	if buf.SourceBitDepth <= 0 {
		scale = float32(1 << 15)
	}

	for i := 0; i < frames; i++ {
		base := i * channels
		left := float32(buf.Data[base]) / scale
		right := left
		if channels >= 2 {
			right = float32(buf.Data[base+1]) / scale
		}
		samples[i] = Sample{L: left, R: right}
	}
	return samples, nil
}

func errUnreadableWAV(path string) error {
	return &decodeError{path: path, format: "wav"}
}

type decodeError struct {
	path   string
	format string
}

func (e *decodeError) Error() string {
	return "invalid " + e.format + " file: " + e.path
}
