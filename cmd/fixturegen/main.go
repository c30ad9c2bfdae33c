package main

import (
	"flag"
	"log"

	"github.com/kisai-labs/bms-preview/internal/fixtures"
)

// fixturegen produces a deterministic BMS chart plus its referenced keysound
// WAVs, for use by tests and local demos of the preview renderer.
func main() {
	outDir := flag.String("out", "./testdata/chart", "output directory for generated chart and keysounds")
	seed := flag.Int64("seed", 1337, "seed recorded in the manifest (generation does not depend on it)")
	sampleRate := flag.Int("sample-rate", 48000, "keysound sample rate in Hz")
	initialBPM := flag.Float64("bpm", 120, "chart initial BPM")
	numKeysounds := flag.Int("keysounds", 4, "number of distinct keysound tones to generate")
	beats := flag.Int("beats", 16, "number of evenly spaced notes in the generated 4-beat section")
	keysoundSec := flag.Float64("keysound-duration", 0.25, "duration of each keysound in seconds")
	writeBMSON := flag.Bool("bmson", false, "also emit a .bmson chart referencing the same keysounds")

	flag.Parse()

	cfg := fixtures.Config{
		OutputDir:           *outDir,
		SampleRate:          *sampleRate,
		Seed:                *seed,
		InitialBPM:          *initialBPM,
		KeysoundDurationSec: *keysoundSec,
		NumKeysounds:        *numKeysounds,
		Beats:               *beats,
		WriteBMSON:          *writeBMSON,
	}

	manifest, err := fixtures.Generate(cfg)
	if err != nil {
		log.Fatalf("generate fixtures: %v", err)
	}

	log.Printf("fixturegen wrote %d keysounds and chart %s to %s (sample_rate=%d)",
		len(manifest.Keysounds), manifest.ChartPath, cfg.OutputDir, cfg.SampleRate)
}
