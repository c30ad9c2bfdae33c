package audio

import (
	"fmt"
	"math"

	"github.com/kisai-labs/bms-preview/internal/errs"
)

// Buffer is an owned stereo PCM buffer at a nominal sample rate. All
// destination buffers within a single render share one sample rate.
type Buffer struct {
	samples []Sample
	rate    int
}

// NewBuffer allocates a zero-filled destination of ceil(lengthSeconds*2*rate)+1
// stereo samples, so at rate it spans about twice lengthSeconds; the extra
// sample guards against off-by-one errors in downstream offsets.
func NewBuffer(lengthSeconds float64, rate int) *Buffer {
	n := int(math.Ceil(lengthSeconds*2*float64(rate))) + 1
	if n < 1 {
		n = 1
	}
	return &Buffer{samples: make([]Sample, n), rate: rate}
}

// SampleRate returns the buffer's nominal sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.rate }

// Len returns the number of stereo samples the buffer holds.
func (b *Buffer) Len() int { return len(b.samples) }

// LengthSeconds returns the buffer's duration given its sample rate.
func (b *Buffer) LengthSeconds() float64 {
	if b.rate == 0 {
		return 0
	}
	return float64(len(b.samples)) / float64(b.rate)
}

// At returns the sample at index i.
func (b *Buffer) At(i int) Sample { return b.samples[i] }

// Resample converts the buffer to desiredRate in place, a no-op if already
// there. See resample.go for the FFT polyphase implementation.
func (b *Buffer) Resample(desiredRate int) error {
	if desiredRate <= 0 || desiredRate == b.rate {
		return nil
	}
	resampled, err := resampleFFT(b.samples, b.rate, desiredRate)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrResampler, err)
	}
	b.samples = resampled
	b.rate = desiredRate
	return nil
}

// Add mixes other into self starting at offsetSeconds (which may be
// negative, clipping the leading edge of other). Rates must match.
func (b *Buffer) Add(other *Buffer, offsetSeconds float64) error {
	if other.rate != b.rate {
		return fmt.Errorf("%w: dst=%d src=%d", errs.ErrMismatchedSampleRate, b.rate, other.rate)
	}

	raw := int64(math.Floor(offsetSeconds * float64(b.rate)))

	var dstOffset, srcOffset int
	switch {
	case raw >= 0 && int(raw) < len(b.samples):
		dstOffset = int(raw)
		srcOffset = 0
	case raw < 0 && int(-raw) < len(other.samples):
		dstOffset = 0
		srcOffset = int(-raw)
	default:
		return nil
	}

	n := len(b.samples) - dstOffset
	if m := len(other.samples) - srcOffset; m < n {
		n = m
	}
	for i := 0; i < n; i++ {
		b.samples[dstOffset+i] = b.samples[dstOffset+i].Add(other.samples[srcOffset+i])
	}
	return nil
}

// Fade applies independent linear fade-in and fade-out ramps, each clamped to
// the buffer's length; the two ramps may overlap in the middle of a short
// buffer.
func (b *Buffer) Fade(fadeInSeconds, fadeOutSeconds float64) {
	n := len(b.samples)

	nIn := int(math.Floor(fadeInSeconds * float64(b.rate)))
	if nIn > n {
		nIn = n
	}
	for i := 0; i < nIn; i++ {
		gain := float32(i) / float32(nIn)
		b.samples[i] = b.samples[i].Scale(gain)
	}

	nOut := int(math.Floor(fadeOutSeconds * float64(b.rate)))
	if nOut > n {
		nOut = n
	}
	for i := 0; i < nOut; i++ {
		gain := float32(i) / float32(nOut)
		b.samples[n-1-i] = b.samples[n-1-i].Scale(gain)
	}
}

// Attenuate multiplies every sample by scalar; a no-op when scalar is
// exactly 1.0.
func (b *Buffer) Attenuate(scalar float32) {
	if scalar == 1.0 {
		return
	}
	for i := range b.samples {
		b.samples[i] = b.samples[i].Scale(scalar)
	}
}
