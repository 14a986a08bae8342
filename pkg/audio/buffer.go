// Package audio provides audio processing utilities.
//
// buffer.go defines SampleBuffer, the canonical decoded form used between
// pipeline stages: one slice of normalized float32 samples per channel.
//
// Features:
//   - Downmix any channel layout to mono
//   - Concatenate mono buffers of the same sample rate
package audio

import (
	"errors"
	"fmt"
)

var (
	ErrNoBuffers          = errors.New("no audio buffers")
	ErrSampleRateMismatch = errors.New("sample rate mismatch")
	ErrInvalidFormat      = errors.New("invalid audio format")
	ErrInvalidWAV         = errors.New("invalid WAV data")
)

// SampleBuffer holds decoded audio. Every channel has the same length and
// samples are normalized to [-1, 1].
type SampleBuffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewSampleBuffer allocates a silent buffer.
func NewSampleBuffer(sampleRate, channels, length int) *SampleBuffer {
	buf := &SampleBuffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for i := range buf.Channels {
		buf.Channels[i] = make([]float32, length)
	}
	return buf
}

// NumChannels returns the channel count.
func (b *SampleBuffer) NumChannels() int {
	return len(b.Channels)
}

// Len returns the number of sample frames.
func (b *SampleBuffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}

// Downmix averages all channels into one. Mono buffers are returned as is.
func Downmix(b *SampleBuffer) *SampleBuffer {
	if b.NumChannels() <= 1 {
		return b
	}

	n := b.Len()
	mono := make([]float32, n)
	scale := 1 / float32(b.NumChannels())
	for _, ch := range b.Channels {
		for i := 0; i < n; i++ {
			mono[i] += ch[i] * scale
		}
	}

	return &SampleBuffer{SampleRate: b.SampleRate, Channels: [][]float32{mono}}
}

// Concatenate joins buffers end to end into a single mono buffer. Inputs with
// more than one channel are downmixed first. All inputs must share the first
// buffer's sample rate; callers resample beforehand when they do not.
func Concatenate(buffers []*SampleBuffer) (*SampleBuffer, error) {
	if len(buffers) == 0 {
		return nil, ErrNoBuffers
	}

	rate := buffers[0].SampleRate
	total := 0
	for i, b := range buffers {
		if b == nil {
			return nil, fmt.Errorf("buffer %d is nil: %w", i, ErrInvalidFormat)
		}
		if b.SampleRate != rate {
			return nil, fmt.Errorf("buffer %d has %d Hz, want %d Hz: %w", i, b.SampleRate, rate, ErrSampleRateMismatch)
		}
		total += b.Len()
	}

	out := make([]float32, total)
	offset := 0
	for _, b := range buffers {
		mono := Downmix(b)
		if mono.NumChannels() == 0 {
			continue
		}
		copy(out[offset:], mono.Channels[0])
		offset += mono.Len()
	}

	return &SampleBuffer{SampleRate: rate, Channels: [][]float32{out}}, nil
}
