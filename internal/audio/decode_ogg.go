package audio

import (
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// oggSource decodes Ogg Vorbis audio via jfreymuth/oggvorbis, which yields
// interleaved float32 samples directly (no PCM bit-depth conversion needed).
type oggSource struct {
	file   *os.File
	reader *oggvorbis.Reader
}

func newOGGSource(path string) (decodedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &oggSource{file: f, reader: r}, nil
}

func (s *oggSource) Channels() int   { return s.reader.Channels() }
func (s *oggSource) SampleRate() int { return s.reader.SampleRate() }
func (s *oggSource) Close() error    { return s.file.Close() }

func (s *oggSource) Frames() (int64, bool) {
	length := s.reader.Length()
	if length < 0 {
		return 0, false
	}
	return length, true
}

func (s *oggSource) Decode() ([]Sample, error) {
	channels := s.reader.Channels()
	if channels < 1 {
		channels = 1
	}
	var samples []Sample
	buf := make([]float32, 4096*channels)
	for {
		n, err := s.reader.Read(buf)
		frames := n / channels
		for i := 0; i < frames; i++ {
			base := i * channels
			left := buf[base]
			right := left
			if channels >= 2 {
				right = buf[base+1]
			}
			samples = append(samples, Sample{L: left, R: right})
		}
		if err != nil {
			if err == io.EOF {
				return samples, nil
			}
			return samples, err
		}
		if n == 0 {
			return samples, nil
		}
	}
}
