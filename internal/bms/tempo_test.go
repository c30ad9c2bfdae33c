package bms

import (
	"math"
	"path/filepath"
	"testing"
)

func identityResolve(baseDir, relPath string) string {
	return filepath.Join(baseDir, relPath)
}

func approx(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("got %v, want %v (tolerance %v)", got, want, tolerance)
	}
}

func TestWavTimingsConstantBPMOneSection(t *testing.T) {
	c := &Chart{
		InitialBPM:           120,
		SectionLengthChanges: map[int]float64{},
		WavFiles:             map[string]string{"01": "kick.wav"},
		BackgroundNotes: []BackgroundNote{
			{Offset: ObjTime{Track: 0, Numerator: 0, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 0, Numerator: 1, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 0, Numerator: 2, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 0, Numerator: 3, Denominator: 4}, WavID: "01"},
		},
	}

	timings := WavTimings(c, "/base", identityResolve)
	path := filepath.Join("/base", "kick.wav")
	times, ok := timings[path]
	if !ok {
		t.Fatalf("expected timings for %s", path)
	}
	if len(times) != 4 {
		t.Fatalf("expected 4 events, got %d", len(times))
	}

	secondsPerBeat := 60.0 / 120.0
	want := []float64{0, secondsPerBeat, 2 * secondsPerBeat, 3 * secondsPerBeat}
	for i, w := range want {
		approx(t, times[i], w, 1e-9)
	}
}

func TestWavTimingsTwoTempi(t *testing.T) {
	// Track 0 at 120 BPM, track 1 switches to 240 BPM starting at its own
	// first beat; events on track 1 should use the doubled tempo.
	c := &Chart{
		InitialBPM:           120,
		SectionLengthChanges: map[int]float64{},
		WavFiles:             map[string]string{"01": "kick.wav"},
		BPMChanges: []BPMChange{
			{Offset: ObjTime{Track: 1, Numerator: 0, Denominator: 4}, BPM: 240},
		},
		BackgroundNotes: []BackgroundNote{
			{Offset: ObjTime{Track: 0, Numerator: 0, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 1, Numerator: 0, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 1, Numerator: 1, Denominator: 4}, WavID: "01"},
		},
	}

	timings := WavTimings(c, "/base", identityResolve)
	times := timings[filepath.Join("/base", "kick.wav")]
	if len(times) != 3 {
		t.Fatalf("expected 3 events, got %d", len(times))
	}

	// Section 0 lasts one full measure (4 beats) at 120 BPM = 2s.
	section0Seconds := 4.0 * (60.0 / 120.0)
	approx(t, times[0], 0, 1e-9)
	approx(t, times[1], section0Seconds, 1e-9)
	// Second track-1 event is a quarter-measure later, now at 240 BPM.
	approx(t, times[2], section0Seconds+4.0*(60.0/240.0)*0.25, 1e-9)
}

func TestWavTimingsSkipsSectionsWithoutAdvance(t *testing.T) {
	// A note on track 5 with no notes on tracks 1-4 should not accumulate
	// time for the skipped tracks; only actual track transitions advance
	// currentSectionTime.
	c := &Chart{
		InitialBPM:           120,
		SectionLengthChanges: map[int]float64{},
		WavFiles:             map[string]string{"01": "kick.wav"},
		BackgroundNotes: []BackgroundNote{
			{Offset: ObjTime{Track: 0, Numerator: 0, Denominator: 4}, WavID: "01"},
			{Offset: ObjTime{Track: 5, Numerator: 0, Denominator: 4}, WavID: "01"},
		},
	}

	timings := WavTimings(c, "/base", identityResolve)
	times := timings[filepath.Join("/base", "kick.wav")]
	if len(times) != 2 {
		t.Fatalf("expected 2 events, got %d", len(times))
	}
	section0Seconds := 4.0 * (60.0 / 120.0)
	approx(t, times[0], 0, 1e-9)
	approx(t, times[1], section0Seconds, 1e-9)
}

func TestWavTimingsDropsUnknownWavID(t *testing.T) {
	c := &Chart{
		InitialBPM:           120,
		SectionLengthChanges: map[int]float64{},
		WavFiles:             map[string]string{},
		BackgroundNotes: []BackgroundNote{
			{Offset: ObjTime{Track: 0, Numerator: 0, Denominator: 4}, WavID: "zz"},
		},
	}
	timings := WavTimings(c, "/base", identityResolve)
	if len(timings) != 0 {
		t.Fatalf("expected no timings for unresolved wav id, got %v", timings)
	}
}

func TestParseBMSONConstantBPM(t *testing.T) {
	data := []byte(`{
		"info": {"init_bpm": 150, "resolution": 240},
		"sound_channels": [
			{"name": "kick.wav", "notes": [{"y": 0}, {"y": 240}]}
		]
	}`)
	c, err := ParseBMSON(data)
	if err != nil {
		t.Fatalf("ParseBMSON: %v", err)
	}
	if c.InitialBPM != 150 {
		t.Fatalf("expected InitialBPM 150, got %v", c.InitialBPM)
	}
	if len(c.BackgroundNotes) != 2 {
		t.Fatalf("expected 2 background notes, got %d", len(c.BackgroundNotes))
	}

	timings := WavTimings(c, "/base", identityResolve)
	times := timings[filepath.Join("/base", "kick.wav")]
	if len(times) != 2 {
		t.Fatalf("expected 2 events, got %d", len(times))
	}
	secondsPerBeat := 60.0 / 150.0
	approx(t, times[0], 0, 1e-9)
	approx(t, times[1], secondsPerBeat, 1e-9)
}

func TestParseTextBasicChart(t *testing.T) {
	text := "#BPM 130\n" +
		"#WAV01 kick.wav\n" +
		"#00101:01000100\n"
	c, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if c.InitialBPM != 130 {
		t.Fatalf("expected InitialBPM 130, got %v", c.InitialBPM)
	}
	if c.WavFiles["01"] != "kick.wav" {
		t.Fatalf("expected kick.wav mapped, got %v", c.WavFiles)
	}
	if len(c.BackgroundNotes) != 2 {
		t.Fatalf("expected 2 background notes, got %d", len(c.BackgroundNotes))
	}
}

func TestParseTextDefaultsInitialBPM(t *testing.T) {
	c, err := ParseText("#WAV01 kick.wav\n")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if c.InitialBPM != DefaultInitialBPM {
		t.Fatalf("expected default BPM %v, got %v", DefaultInitialBPM, c.InitialBPM)
	}
}

func TestIsChartFile(t *testing.T) {
	cases := map[string]bool{
		"song.bms":   true,
		"song.bme":   true,
		"song.bml":   true,
		"song.pms":   true,
		"song.bmson": true,
		"song.BMS":   true,
		"song.txt":   false,
		"song.wav":   false,
	}
	for name, want := range cases {
		if got := IsChartFile(name); got != want {
			t.Errorf("IsChartFile(%q) = %v, want %v", name, got, want)
		}
	}
}
