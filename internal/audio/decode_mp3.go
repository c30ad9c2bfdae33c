package audio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3Source decodes MPEG-1/2 Layer III audio via hajimehoshi/go-mp3, which
// always emits 16-bit little-endian stereo PCM regardless of the source
// channel layout.
type mp3Source struct {
	file    *os.File
	decoder *mp3.Decoder
}

func newMP3Source(path string) (decodedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mp3Source{file: f, decoder: dec}, nil
}

func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) SampleRate() int { return s.decoder.SampleRate() }
func (s *mp3Source) Close() error    { return s.file.Close() }

func (s *mp3Source) Frames() (int64, bool) {
	length := s.decoder.Length()
	if length <= 0 {
		return 0, false
	}
	const frameBytes = 4 // 16-bit stereo
	return length / frameBytes, true
}

func (s *mp3Source) Decode() ([]Sample, error) {
	var samples []Sample
	buf := make([]byte, 4*4096)
	for {
		n, err := s.decoder.Read(buf)
		for i := 0; i+4 <= n; i += 4 {
			l := int16(binary.LittleEndian.Uint16(buf[i:]))
			r := int16(binary.LittleEndian.Uint16(buf[i+2:]))
			samples = append(samples, Sample{
				L: float32(l) / 32768,
				R: float32(r) / 32768,
			})
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
