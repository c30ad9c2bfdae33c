// Package render orchestrates the preview pipeline: probe every referenced
// keysound, size a destination buffer, mix the events inside the requested
// window, fade and attenuate, then encode to disk.
package render

import "fmt"

// Config is the preview configuration requested for one chart.
type Config struct {
	StartSec float64
	EndSec   float64

	// StartPercent and EndPercent are nil when unset; an explicit 0 is a
	// legitimate value distinct from "not provided".
	StartPercent *float64
	EndPercent   *float64

	FadeInSec     float64
	FadeOutSec    float64
	VolumePercent float64

	// SampleRate is the requested output rate; 0 means "derive from the
	// first probed source".
	SampleRate int
	MonoAudio  bool
	Overwrite  bool

	PreviewFilename string
}

// Fingerprint is a stable string identifying this configuration, used by the
// render cache to detect when re-rendering is needed even though the chart
// itself hasn't changed.
func (c Config) Fingerprint() string {
	startP, endP := "-", "-"
	if c.StartPercent != nil {
		startP = fmt.Sprintf("%g", *c.StartPercent)
	}
	if c.EndPercent != nil {
		endP = fmt.Sprintf("%g", *c.EndPercent)
	}
	return fmt.Sprintf("s=%g,e=%g,sp=%s,ep=%s,fi=%g,fo=%g,v=%g,r=%d,mono=%t,file=%s",
		c.StartSec, c.EndSec, startP, endP, c.FadeInSec, c.FadeOutSec,
		c.VolumePercent, c.SampleRate, c.MonoAudio, c.PreviewFilename)
}
