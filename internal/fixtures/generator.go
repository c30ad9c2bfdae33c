// Package fixtures generates deterministic BMS keysound WAV files and a
// companion chart (both text-BMS and BMSON) that references them, for use by
// tests and local demos of the preview renderer.
package fixtures

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Config controls which fixtures are emitted.
type Config struct {
	OutputDir  string
	SampleRate int
	Seed       int64

	// InitialBPM is the chart's starting tempo.
	InitialBPM float64
	// KeysoundDurationSec is the length of each generated keysound WAV.
	KeysoundDurationSec float64
	// NumKeysounds is how many distinct tone keysounds to generate; the text
	// chart's background notes cycle through them.
	NumKeysounds int
	// Beats is how many evenly spaced background notes the text chart places
	// in its single 4-beat section.
	Beats int

	// WriteBMSON additionally emits a .bmson chart referencing the same
	// keysounds.
	WriteBMSON bool
}

// Manifest describes the generated fixtures for tests/consumers.
type Manifest struct {
	SampleRate int      `json:"sample_rate"`
	Seed       int64    `json:"seed"`
	ChartPath  string   `json:"chart_path"`
	BMSONPath  string   `json:"bmson_path,omitempty"`
	Keysounds  []string `json:"keysounds"`
}

// Generate writes keysound WAVs, a text-BMS chart, optionally a BMSON chart,
// and a manifest.json describing them into cfg.OutputDir.
func Generate(cfg Config) (*Manifest, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./testdata/chart"
	}
	if cfg.InitialBPM == 0 {
		cfg.InitialBPM = 120
	}
	if cfg.KeysoundDurationSec == 0 {
		cfg.KeysoundDurationSec = 0.25
	}
	if cfg.NumKeysounds == 0 {
		cfg.NumKeysounds = 4
	}
	if cfg.Beats == 0 {
		cfg.Beats = 16
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output: %w", err)
	}

	manifest := &Manifest{SampleRate: cfg.SampleRate, Seed: cfg.Seed}

	baseFreq := 220.0
	for i := 0; i < cfg.NumKeysounds; i++ {
		filename := fmt.Sprintf("keysound_%02d.wav", i+1)
		path := filepath.Join(cfg.OutputDir, filename)
		freq := baseFreq * math.Pow(2, float64(i)/12)
		renderTone(path, cfg.SampleRate, freq, cfg.KeysoundDurationSec)
		manifest.Keysounds = append(manifest.Keysounds, filename)
	}

	chartPath := filepath.Join(cfg.OutputDir, "fixture.bms")
	if err := writeTextChart(chartPath, cfg, manifest.Keysounds); err != nil {
		return nil, fmt.Errorf("write bms chart: %w", err)
	}
	manifest.ChartPath = filepath.Base(chartPath)

	if cfg.WriteBMSON {
		bmsonPath := filepath.Join(cfg.OutputDir, "fixture.bmson")
		if err := writeBMSONChart(bmsonPath, cfg, manifest.Keysounds); err != nil {
			return nil, fmt.Errorf("write bmson chart: %w", err)
		}
		manifest.BMSONPath = filepath.Base(bmsonPath)
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}

// writeTextChart emits a minimal legacy BMS text chart: WAV definitions plus
// cfg.Beats background notes (channel 01) spread evenly across a single 4-beat
// measure (track 000), cycling through the generated keysounds.
func writeTextChart(path string, cfg Config, keysounds []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "#BPM %g\n", cfg.InitialBPM)
	for i, name := range keysounds {
		fmt.Fprintf(f, "#WAV%02X %s\n", i+1, name)
	}

	stream := make([]byte, 0, cfg.Beats*2)
	for i := 0; i < cfg.Beats; i++ {
		id := (i % len(keysounds)) + 1
		stream = append(stream, []byte(fmt.Sprintf("%02X", id))...)
	}
	fmt.Fprintf(f, "#00001:%s\n", string(stream))
	return nil
}

// writeBMSONChart emits a minimal BMSON chart carrying the same keysounds as
// independent sound channels, one note each, evenly spaced.
func writeBMSONChart(path string, cfg Config, keysounds []string) error {
	const resolution = 240
	pulsesPerSection := 4 * resolution

	type note struct {
		Y int `json:"y"`
	}
	type soundChannel struct {
		Name  string `json:"name"`
		Notes []note `json:"notes"`
	}
	doc := struct {
		Info struct {
			InitBPM    float64 `json:"init_bpm"`
			Resolution int     `json:"resolution"`
		} `json:"info"`
		SoundChannels []soundChannel `json:"sound_channels"`
	}{}
	doc.Info.InitBPM = cfg.InitialBPM
	doc.Info.Resolution = resolution

	step := pulsesPerSection / cfg.Beats
	for i, name := range keysounds {
		doc.SoundChannels = append(doc.SoundChannels, soundChannel{
			Name:  name,
			Notes: []note{{Y: i * step}},
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// renderTone writes a mono 16-bit PCM WAV containing a fading sine tone.
func renderTone(path string, sampleRate int, freqHz, durationSec float64) {
	n := int(durationSec * float64(sampleRate))
	data := make([]float64, n)

	fadeSamples := int(0.01 * float64(sampleRate))
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		amp := 0.5
		if i < fadeSamples {
			amp *= float64(i) / float64(fadeSamples)
		}
		if rem := n - i; rem < fadeSamples {
			amp *= float64(rem) / float64(fadeSamples)
		}
		data[i] = amp * math.Sin(2*math.Pi*freqHz*t)
	}

	writeWAV(path, data, sampleRate)
}

// writeWAV writes mono 16-bit PCM WAV from normalized [-1, 1] samples.
func writeWAV(path string, samples []float64, sampleRate int) error {
	buf := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf[i] = int16(s * 32767)
	}

	byteRate := sampleRate * 2
	blockAlign := int16(2)
	bitsPerSample := int16(16)
	dataSize := len(buf) * 2
	riffSize := 36 + dataSize

	f, err := os.Create(path)
	if err != nil {
		return err
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
	binary.Write(f, binary.LittleEndian, blockAlign)
	binary.Write(f, binary.LittleEndian, bitsPerSample)
	f.Write([]byte("data"))
	binary.Write(f, binary.LittleEndian, uint32(dataSize))
	for _, v := range buf {
		binary.Write(f, binary.LittleEndian, v)
	}
	return nil
}
