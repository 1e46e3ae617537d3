// ABOUTME: MP3 file frame source
// ABOUTME: Decodes an MP3 file into packed stereo frames via go-mp3
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes an MP3 file into packed stereo frames. go-mp3 always emits
// 16-bit little-endian stereo, so four decoded bytes are exactly one packed
// frame in the device's wire layout.
type MP3 struct {
	file    *os.File
	decoder *mp3.Decoder
	buf     [4096]byte
	pending []byte
}

// OpenMP3 opens and wraps an MP3 file.
func OpenMP3(path string) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mp3: %w", err)
	}
	d, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}
	return &MP3{file: f, decoder: d}, nil
}

// NextFrame returns the next decoded frame, or io.EOF at end of file.
func (s *MP3) NextFrame() (uint32, error) {
	for len(s.pending) < 4 {
		// Keep any partial frame from the previous read.
		n := copy(s.buf[:], s.pending)
		r, err := s.decoder.Read(s.buf[n:])
		if r == 0 && err != nil {
			if err == io.EOF && n == 0 {
				return 0, io.EOF
			}
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("mp3 decode error: %w", err)
		}
		s.pending = s.buf[:n+r]
	}

	frame := binary.LittleEndian.Uint32(s.pending)
	s.pending = s.pending[4:]
	return frame, nil
}

// SampleRate returns the MP3's native sample rate.
func (s *MP3) SampleRate() int { return s.decoder.SampleRate() }

// Close closes the underlying file.
func (s *MP3) Close() error { return s.file.Close() }
