package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeTestTone writes a mono 16-bit PCM WAV containing a sine tone, for
// exercising the real go-audio/wav decode path without a golden fixture file.
func writeTestTone(path string, sampleRate int, freqHz, durationSec float64) {
	n := int(durationSec * float64(sampleRate))
	buf := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		buf[i] = int16(0.5 * 32767 * math.Sin(2*math.Pi*freqHz*t))
	}

	byteRate := sampleRate * 2
	dataSize := len(buf) * 2
	riffSize := 36 + dataSize

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	f.Write([]byte("RIFF"))
	binary.Write(f, binary.LittleEndian, uint32(riffSize))
	f.Write([]byte("WAVE"))
	f.Write([]byte("fmt "))
	binary.Write(f, binary.LittleEndian, uint32(16))
	binary.Write(f, binary.LittleEndian, uint16(1))
	binary.Write(f, binary.LittleEndian, uint16(1))
	binary.Write(f, binary.LittleEndian, uint32(sampleRate))
	binary.Write(f, binary.LittleEndian, uint32(byteRate))
	binary.Write(f, binary.LittleEndian, uint16(2))
	binary.Write(f, binary.LittleEndian, uint16(16))
	f.Write([]byte("data"))
	binary.Write(f, binary.LittleEndian, uint32(dataSize))
	for _, v := range buf {
		binary.Write(f, binary.LittleEndian, v)
	}
}

func TestResolveFuzzyVerbatimPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kick.wav")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ResolveFuzzy(path)
	if err != nil {
		t.Fatalf("ResolveFuzzy: %v", err)
	}
	if got != path {
		t.Fatalf("expected verbatim path, got %s", got)
	}
}

func TestResolveFuzzyFallsBackToSameStem(t *testing.T) {
	dir := t.TempDir()
	oggPath := filepath.Join(dir, "kick.ogg")
	if err := os.WriteFile(oggPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	requested := filepath.Join(dir, "kick.wav")

	got, err := ResolveFuzzy(requested)
	if err != nil {
		t.Fatalf("ResolveFuzzy: %v", err)
	}
	if got != oggPath {
		t.Fatalf("expected fuzzy fallback to %s, got %s", oggPath, got)
	}
}

func TestResolveFuzzyNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolveFuzzy(filepath.Join(dir, "missing.wav"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestOpenProbeAndLoadWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestTone(path, 44100, 440, 0.1)

	probe, err := OpenProbe(path)
	if err != nil {
		t.Fatalf("OpenProbe: %v", err)
	}
	if probe.Channels() < 1 {
		t.Fatalf("expected at least 1 channel")
	}
	if probe.SampleRate() != 44100 {
		t.Fatalf("expected sample rate 44100, got %d", probe.SampleRate())
	}

	dur, ok := probe.DurationSeconds()
	if !ok {
		t.Fatalf("expected duration to be known")
	}
	if dur < 0.09 || dur > 0.11 {
		t.Fatalf("expected duration near 0.1s, got %v", dur)
	}

	buf, err := probe.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected decoded samples")
	}
	if buf.SampleRate() != 44100 {
		t.Fatalf("expected buffer rate 44100, got %d", buf.SampleRate())
	}
}

func TestProbeCannotBeLoadedTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestTone(path, 44100, 440, 0.05)

	probe, err := OpenProbe(path)
	if err != nil {
		t.Fatalf("OpenProbe: %v", err)
	}
	if _, err := probe.Load(); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if _, err := probe.Load(); err == nil {
		t.Fatalf("expected error reloading a consumed probe")
	}
}
