package bms

import "sort"

// TimingMap maps an absolute audio path to the unordered list of wall-clock
// start times (seconds, from the chart's time origin) at which it sounds.
type TimingMap map[string][]float64

// WavTimings walks a chart's background notes in musical order under its
// piecewise-constant BPM map and returns, for every referenced audio path, the
// list of times at which it is scheduled to play.
//
// Section time only advances when a note's track is strictly greater than the
// previously-seen track; sections that contain no background note are
// implicitly skipped rather than accumulating their own duration. Existing
// charts were timed against renderers that behave this way, so it is
// preserved deliberately.
func WavTimings(c *Chart, baseDir string, resolve func(baseDir, relPath string) string) TimingMap {
	result := make(TimingMap)

	notes := make([]BackgroundNote, len(c.BackgroundNotes))
	copy(notes, c.BackgroundNotes)
	sort.Slice(notes, func(i, j int) bool { return notes[i].Offset.Less(notes[j].Offset) })

	bpmChanges := c.sortedBPMChanges()

	currentBPM := c.InitialBPM
	if currentBPM <= 0 {
		currentBPM = DefaultInitialBPM
	}

	// An early BPM change declared before track 2 overrides the chart's nominal
	// initial tempo; take the earliest such entry.
	earlyBoundary := ObjTime{Track: 2, Numerator: 0, Denominator: 4}
	for _, bc := range bpmChanges {
		if bc.Offset.Less(earlyBoundary) {
			currentBPM = bc.BPM
			break
		}
	}

	currentSectionTime := 0.0
	nextSectionTime := 0.0
	previousSection := 0

	for _, note := range notes {
		sectionBeats := 4.0 * c.sectionLength(note.Offset.Track)
		secondsPerBeat := 60.0 / currentBPM
		sectionSeconds := sectionBeats * secondsPerBeat

		if previousSection < note.Offset.Track {
			currentSectionTime = nextSectionTime
			previousSection = note.Offset.Track
		}

		var objOffsetSeconds float64
		if note.Offset.Denominator != 0 {
			objOffsetSeconds = sectionSeconds * float64(note.Offset.Numerator) / float64(note.Offset.Denominator)
		}
		startSeconds := currentSectionTime + objOffsetSeconds
		nextSectionTime = currentSectionTime + sectionSeconds

		// The next applicable BPM change (at or after this note) takes effect
		// for subsequent events.
		for _, bc := range bpmChanges {
			if !bc.Offset.Less(note.Offset) {
				currentBPM = bc.BPM
				break
			}
		}

		relPath, ok := c.WavFiles[note.WavID]
		if !ok {
			continue
		}
		path := resolve(baseDir, relPath)
		result[path] = append(result[path], startSeconds)
	}

	return result
}
