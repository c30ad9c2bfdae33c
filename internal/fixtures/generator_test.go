package fixtures

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateProducesKeysoundsAndManifest(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{
		OutputDir:           dir,
		SampleRate:          48000,
		InitialBPM:          128,
		KeysoundDurationSec: 0.05,
		NumKeysounds:        4,
		Beats:               16,
	}

	manifest, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(manifest.Keysounds) != 4 {
		t.Fatalf("expected 4 keysounds, got %d", len(manifest.Keysounds))
	}

	wavPath := filepath.Join(dir, manifest.Keysounds[0])
	data, err := os.ReadFile(wavPath)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("not a wav header")
	}
	sampleRate := binary.LittleEndian.Uint32(data[24:28])
	if sampleRate != uint32(cfg.SampleRate) {
		t.Fatalf("unexpected sample rate %d", sampleRate)
	}

	chartPath := filepath.Join(dir, manifest.ChartPath)
	chartData, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if len(chartData) == 0 {
		t.Fatalf("chart file is empty")
	}
}

func TestGenerateWritesBMSONWhenRequested(t *testing.T) {
	dir := t.TempDir()

	manifest, err := Generate(Config{
		OutputDir:    dir,
		NumKeysounds: 2,
		Beats:        4,
		WriteBMSON:   true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if manifest.BMSONPath == "" {
		t.Fatalf("expected bmson path to be set")
	}
	if _, err := os.Stat(filepath.Join(dir, manifest.BMSONPath)); err != nil {
		t.Fatalf("bmson chart missing: %v", err)
	}
}

func TestGenerateAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	manifest, err := Generate(Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if manifest.SampleRate != 48000 {
		t.Fatalf("expected default sample rate 48000, got %d", manifest.SampleRate)
	}
	if len(manifest.Keysounds) != 4 {
		t.Fatalf("expected default of 4 keysounds, got %d", len(manifest.Keysounds))
	}
}
