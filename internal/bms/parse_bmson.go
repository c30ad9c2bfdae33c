package bms

import (
	"encoding/json"
	"fmt"
)

// bmsonDoc mirrors the subset of the BMSON JSON schema this renderer needs:
// the info block (initial BPM, preview filename), the bpm_events timeline,
// and every sound channel's note list.
type bmsonDoc struct {
	Info struct {
		InitBPM      float64 `json:"init_bpm"`
		PreviewMusic string  `json:"preview_music"`
		Resolution   int     `json:"resolution"`
	} `json:"info"`
	BPMEvents []struct {
		Y   int     `json:"y"`
		BPM float64 `json:"bpm"`
	} `json:"bpm_events"`
	SoundChannels []struct {
		Name  string `json:"name"`
		Notes []struct {
			Y int `json:"y"`
		} `json:"notes"`
	} `json:"sound_channels"`
}

// bmsonDefaultResolution is BMSON's default pulse resolution per quarter
// note; 4*resolution pulses span one measure at section-length multiplier 1.
const bmsonDefaultResolution = 240

// ParseBMSON parses the JSON-based BMSON chart format. BMSON has no concept of
// discrete tracks; every event carries an absolute pulse position ("y"). To
// reuse the same ObjTime-based tempo interpreter as the text format, every
// event is folded into a single synthetic track (0) with numerator = y and
// denominator = pulses-per-section, which keeps offsets proportional to time
// exactly as the text format's per-measure fractions do.
func ParseBMSON(data []byte) (*Chart, error) {
	var doc bmsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal bmson: %w", err)
	}

	resolution := doc.Info.Resolution
	if resolution <= 0 {
		resolution = bmsonDefaultResolution
	}
	pulsesPerSection := 4 * resolution

	c := &Chart{
		InitialBPM:           doc.Info.InitBPM,
		SectionLengthChanges: make(map[int]float64),
		WavFiles:             make(map[string]string),
		DeclaredPreview:      doc.Info.PreviewMusic,
	}
	if c.InitialBPM <= 0 {
		c.InitialBPM = DefaultInitialBPM
	}

	for _, ev := range doc.BPMEvents {
		c.BPMChanges = append(c.BPMChanges, BPMChange{
			Offset: ObjTime{Track: 0, Numerator: ev.Y, Denominator: pulsesPerSection},
			BPM:    ev.BPM,
		})
	}

	for _, ch := range doc.SoundChannels {
		wavID := ch.Name
		c.WavFiles[wavID] = ch.Name
		for _, n := range ch.Notes {
			c.BackgroundNotes = append(c.BackgroundNotes, BackgroundNote{
				Offset: ObjTime{Track: 0, Numerator: n.Y, Denominator: pulsesPerSection},
				WavID:  wavID,
			})
		}
	}

	return c, nil
}
