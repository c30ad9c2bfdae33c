// Package audio implements stereo sample algebra, fuzzy-path audio probing,
// and a stereo PCM buffer with resample/mix/fade/encode operations.
package audio

// Sample is a single stereo frame: left and right channel amplitude, nominally
// within [-1.0, 1.0]. It forms a commutative monoid under Add with identity
// (0, 0); scalar multiplication distributes over it.
type Sample struct {
	L float32
	R float32
}

// Add returns the component-wise sum of two samples.
func (s Sample) Add(other Sample) Sample {
	return Sample{L: s.L + other.L, R: s.R + other.R}
}

// Scale returns the sample with both channels multiplied by a scalar.
func (s Sample) Scale(k float32) Sample {
	return Sample{L: s.L * k, R: s.R * k}
}

// Mono collapses the sample to its arithmetic mean, matching the down-mix
// used when encoding to a single channel.
func (s Sample) Mono() float32 {
	return (s.L + s.R) / 2
}
