// Package bms parses BMS-family chart files (BMS/BME/BML/PMS text charts and BMSON
// JSON charts) and interprets their tempo map into wall-clock event times.
package bms

import "sort"

// ObjTime is a musical position: section (track) index plus a fractional offset
// within that section expressed as numerator/denominator.
type ObjTime struct {
	Track       int
	Numerator   int
	Denominator int
}

// Less orders ObjTime values by track, then by the fraction numerator/denominator.
func (t ObjTime) Less(other ObjTime) bool {
	if t.Track != other.Track {
		return t.Track < other.Track
	}
	return t.Numerator*other.Denominator < other.Numerator*t.Denominator
}

// BPMChange records a BPM value taking effect at a given offset.
type BPMChange struct {
	Offset ObjTime
	BPM    float64
}

// BackgroundNote is a scheduled keysound event that plays in the background
// (not tied to a playable lane).
type BackgroundNote struct {
	Offset ObjTime
	WavID  string
}

// Chart is the parsed, read-only representation of a BMS-family song.
type Chart struct {
	InitialBPM           float64
	BPMChanges           []BPMChange // in no guaranteed order; see sortedBPMChanges
	SectionLengthChanges map[int]float64
	BackgroundNotes      []BackgroundNote
	WavFiles             map[string]string // WavID -> relative path
	DeclaredPreview      string            // non-empty if the chart already names a preview file
}

// DefaultInitialBPM is used when a chart declares no starting tempo.
const DefaultInitialBPM = 130.0

// DefaultSectionLengthMultiplier applies to any track with no explicit override.
const DefaultSectionLengthMultiplier = 1.0

// sectionLength returns the section length multiplier for a track, defaulting to 1.
func (c *Chart) sectionLength(track int) float64 {
	if m, ok := c.SectionLengthChanges[track]; ok {
		return m
	}
	return DefaultSectionLengthMultiplier
}

// sortedBPMChanges returns BPMChanges sorted by Offset; callers rely on this being sorted.
func (c *Chart) sortedBPMChanges() []BPMChange {
	if sort.SliceIsSorted(c.BPMChanges, func(i, j int) bool {
		return c.BPMChanges[i].Offset.Less(c.BPMChanges[j].Offset)
	}) {
		return c.BPMChanges
	}
	sorted := make([]BPMChange, len(c.BPMChanges))
	copy(sorted, c.BPMChanges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset.Less(sorted[j].Offset) })
	return sorted
}
