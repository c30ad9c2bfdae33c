package audio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/xlab/vorbis-go/ogg"
	"github.com/xlab/vorbis-go/vorbis"

	"github.com/kisai-labs/bms-preview/internal/errs"
)

// encodeChunkFrames is the number of stereo frames submitted to the encoder
// per analysis call.
const encodeChunkFrames = 1024

// encodeQuality is the VBR base quality passed to libvorbisenc; previews are
// short excerpts, not masters.
const encodeQuality = 0.6

// vorbisStream wraps the cgo-bound libvorbisenc/libogg encoder pipeline
// (vorbis_analysis -> ogg_stream, following the canonical encoder_example.c
// flow shipped with libvorbis) behind a small push interface.
type vorbisStream struct {
	info    vorbis.Info
	comment vorbis.Comment
	dsp     vorbis.DspState
	block   vorbis.Block
	stream  ogg.StreamState
	w       *bufio.Writer
}

func newVorbisStream(w io.Writer, channels, sampleRate int) (*vorbisStream, error) {
	s := &vorbisStream{w: bufio.NewWriter(w)}

	vorbis.InfoInit(&s.info)
	if ret := vorbis.EncodeInitVbr(&s.info, int32(channels), int32(sampleRate), encodeQuality); ret != 0 {
		vorbis.InfoClear(&s.info)
		return nil, fmt.Errorf("vorbis_encode_init_vbr: code %d", ret)
	}

	vorbis.CommentInit(&s.comment)
	vorbis.CommentAddTag(&s.comment, "ENCODER", "bms-preview")

	vorbis.AnalysisInit(&s.dsp, &s.info)
	vorbis.BlockInit(&s.dsp, &s.block)

	ogg.StreamInit(&s.stream, int32(uuid.New().ID()))

	var header, headerComm, headerCode ogg.Packet
	vorbis.AnalysisHeaderout(&s.dsp, &s.comment, &header, &headerComm, &headerCode)
	ogg.StreamPacketin(&s.stream, &header)
	ogg.StreamPacketin(&s.stream, &headerComm)
	ogg.StreamPacketin(&s.stream, &headerCode)

	// The header must occupy its own pages so the audio data starts on a
	// fresh one.
	for {
		var page ogg.Page
		if ogg.StreamFlush(&s.stream, &page) == 0 {
			break
		}
		if err := s.writePage(&page); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// writeChunk submits one chunk of channel-major float32 frames (1 channel
// for mono, 2 for stereo) to the analysis pipeline and flushes any resulting
// Ogg pages.
func (s *vorbisStream) writeChunk(chans [][]float32) error {
	n := len(chans[0])
	buffer := vorbis.AnalysisBuffer(&s.dsp, int32(n))
	for ch, data := range chans {
		copy(buffer[ch], data)
	}
	vorbis.AnalysisWrote(&s.dsp, int32(n))
	return s.drain()
}

func (s *vorbisStream) drain() error {
	for vorbis.AnalysisBlockout(&s.dsp, &s.block) == 1 {
		vorbis.Analysis(&s.block, nil)
		vorbis.BitrateAddblock(&s.block)

		var packet ogg.Packet
		for vorbis.BitrateFlushpacket(&s.dsp, &packet) == 1 {
			ogg.StreamPacketin(&s.stream, &packet)

			for {
				var page ogg.Page
				if ogg.StreamPageout(&s.stream, &page) == 0 {
					break
				}
				if err := s.writePage(&page); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *vorbisStream) writePage(page *ogg.Page) error {
	page.Deref()
	if _, err := s.w.Write(page.Header); err != nil {
		return err
	}
	if _, err := s.w.Write(page.Body); err != nil {
		return err
	}
	return nil
}

// finish flags end-of-stream, flushes the trailing packets, and releases the
// encoder's native resources.
func (s *vorbisStream) finish() error {
	vorbis.AnalysisWrote(&s.dsp, 0)
	if err := s.drain(); err != nil {
		return err
	}

	for {
		var page ogg.Page
		if ogg.StreamFlush(&s.stream, &page) == 0 {
			break
		}
		if err := s.writePage(&page); err != nil {
			return err
		}
	}

	err := s.w.Flush()

	ogg.StreamClear(&s.stream)
	vorbis.BlockClear(&s.block)
	vorbis.DspClear(&s.dsp)
	vorbis.CommentClear(&s.comment)
	vorbis.InfoClear(&s.info)

	return err
}

// Encode writes the buffer as an Ogg Vorbis file at path, padded to a
// multiple of encodeChunkFrames, writing to a temp file in the same
// directory and renaming into place on success so a crash never leaves a
// truncated preview that could be mistaken for a valid one.
func (b *Buffer) Encode(path string, mono bool) error {
	channels := 2
	if mono {
		channels = 1
	}

	padded := len(b.samples)
	if rem := padded % encodeChunkFrames; rem != 0 {
		padded += encodeChunkFrames - rem
	}

	tmpPath := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	stream, err := newVorbisStream(f, channels, b.rate)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", errs.ErrEncoder, err)
	}

	left := make([]float32, encodeChunkFrames)
	right := make([]float32, encodeChunkFrames)
	mixed := make([]float32, encodeChunkFrames)

	for base := 0; base < padded; base += encodeChunkFrames {
		for i := 0; i < encodeChunkFrames; i++ {
			idx := base + i
			var s Sample
			if idx < len(b.samples) {
				s = b.samples[idx]
			}
			left[i] = s.L
			right[i] = s.R
			mixed[i] = s.Mono()
		}

		var chans [][]float32
		if mono {
			chans = [][]float32{mixed}
		} else {
			chans = [][]float32{left, right}
		}
		if err := stream.writeChunk(chans); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("%w: %v", errs.ErrEncoder, err)
		}
	}

	if err := stream.finish(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", errs.ErrEncoder, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return nil
}
