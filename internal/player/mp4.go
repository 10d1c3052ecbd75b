package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

const alacFrameSize = 4096

// frameDecoder turns one MP4 sample into stereo frames.
type frameDecoder interface {
	decode(sample []byte) ([][2]float64, error)
	close()
}

type aacFrames struct {
	dec      *faad2.Decoder
	channels int
}

func (a *aacFrames) decode(sample []byte) ([][2]float64, error) {
	pcm, err := a.dec.Decode(context.Background(), sample)
	if err != nil {
		return nil, err
	}
	return int16Frames(pcm, a.channels), nil
}

func (a *aacFrames) close() { a.dec.Close(context.Background()) }

type alacFrames struct {
	dec      *alac.Alac
	bits     int
	channels int
}

func (a *alacFrames) decode(sample []byte) ([][2]float64, error) {
	return pcmBytesFrames(a.dec.Decode(sample), a.bits, a.channels), nil
}

func (a *alacFrames) close() {}

// mp4Streamer plays AAC or ALAC audio from an MP4 container. The container
// index makes it seekable, so it needs the whole file.
type mp4Streamer struct {
	container *m4a.Reader
	frames    frameDecoder
	closer    io.Closer
	rate      int
	length    int
	next      int // next container sample
	pending   [][2]float64
	err       error
}

func decodeMP4(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("mp4: %w", err)
	}

	rate := int(container.SampleRate())
	channels := int(container.Channels())
	bits := int(container.SampleSize())

	var frames frameDecoder
	switch container.Codec() {
	case m4a.CodecAAC:
		dec, err := faad2.NewDecoder(context.Background())
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(context.Background(), container.CodecConfig()); err != nil {
			dec.Close(context.Background())
			return nil, beep.Format{}, fmt.Errorf("aac: %w", err)
		}
		frames = &aacFrames{dec: dec, channels: channels}
		bits = 16
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  rate,
			SampleSize:  bits,
			NumChannels: channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("alac: %w", err)
		}
		frames = &alacFrames{dec: dec, bits: bits, channels: channels}
	default:
		return nil, beep.Format{}, errors.New("mp4: unsupported codec")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   bits / 8,
	}
	return &mp4Streamer{
		container: container,
		frames:    frames,
		closer:    rc,
		rate:      rate,
		length:    int(container.Duration().Seconds() * float64(rate)),
	}, format, nil
}

func (s *mp4Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if len(s.pending) > 0 {
			c := copy(samples[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}
		if s.next >= s.container.SampleCount() {
			return n, n > 0
		}
		data, err := s.container.ReadSample(s.next)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++
		if s.pending, err = s.frames.decode(data); err != nil {
			s.err = err
			return n, n > 0
		}
	}
	return n, true
}

func (s *mp4Streamer) Err() error { return s.err }

func (s *mp4Streamer) Len() int { return s.length }

func (s *mp4Streamer) Position() int {
	return int(s.container.SampleTime(s.next).Seconds() * float64(s.rate))
}

// Seek lands on the container sample covering p.
func (s *mp4Streamer) Seek(p int) error {
	p = max(0, min(p, s.length))
	pos := time.Duration(float64(p) / float64(s.rate) * float64(time.Second))
	s.next = s.container.SeekToTime(pos)
	s.pending = nil
	s.err = nil
	return nil
}

func (s *mp4Streamer) Close() error {
	s.frames.close()
	return s.closer.Close()
}

// int16Frames converts interleaved 16-bit PCM to stereo frames; mono is
// duplicated on both sides.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	channels = max(channels, 1)
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// pcmBytesFrames converts little-endian interleaved PCM of 16 or 24 bits.
func pcmBytesFrames(data []byte, bits, channels int) [][2]float64 {
	width := bits / 8
	if width != 3 {
		width = 2
	}
	channels = max(channels, 1)
	step := width * channels
	frames := make([][2]float64, len(data)/step)
	for i := range frames {
		off := i * step
		l := pcmSample(data[off:], width)
		r := l
		if channels > 1 {
			r = pcmSample(data[off+width:], width)
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func pcmSample(b []byte, width int) float64 {
	if width == 3 {
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / (1 << 23)
	}
	return float64(int16(uint16(b[0])|uint16(b[1])<<8)) / (1 << 15)
}
