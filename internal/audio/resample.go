package audio

import (
	resampler "github.com/tphakala/go-audio-resampler"
)

// resampleChunkFrames is the FFT resampler's processing chunk size, matching
// the encoder's 1024-frame chunking.
const resampleChunkFrames = 1024

// resampleFFT resamples interleaved stereo samples from srcRate to dstRate
// using an FFT polyphase resampler, processing the whole buffer as a single
// fixed-size input run (one sub-chunk, two channels).
func resampleFFT(samples []Sample, srcRate, dstRate int) ([]Sample, error) {
	left := make([]float64, len(samples))
	right := make([]float64, len(samples))
	for i, s := range samples {
		left[i] = float64(s.L)
		right[i] = float64(s.R)
	}

	r, err := resampler.NewFFT(srcRate, dstRate, 2, resampleChunkFrames)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	outChannels, err := r.Process([][]float64{left, right})
	if err != nil {
		return nil, err
	}

	outLeft, outRight := outChannels[0], outChannels[1]
	n := len(outLeft)
	if len(outRight) < n {
		n = len(outRight)
	}
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		out[i] = Sample{L: float32(outLeft[i]), R: float32(outRight[i])}
	}
	return out, nil
}
