package audio

import (
	"encoding/binary"
	"fmt"
)

// DecodePCM16 de-interleaves signed 16-bit little-endian PCM into a
// SampleBuffer. Rate and channel count come from the caller, they are not
// sniffed from the bytes. A trailing partial frame is dropped.
func DecodePCM16(raw []byte, sampleRate, channels int) (*SampleBuffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d: %w", sampleRate, ErrInvalidFormat)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d: %w", channels, ErrInvalidFormat)
	}

	frameBytes := 2 * channels
	frames := len(raw) / frameBytes
	buf := NewSampleBuffer(sampleRate, channels, frames)

	for i := 0; i < frames; i++ {
		base := i * frameBytes
		for ch := 0; ch < channels; ch++ {
			s := int16(binary.LittleEndian.Uint16(raw[base+ch*2:]))
			buf.Channels[ch][i] = float32(s) / 32768.0
		}
	}

	return buf, nil
}

// quantize converts one normalized sample to int16 with symmetric scaling:
// positive values scale by 32767, negative by 32768.
func quantize(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	if s < 0 {
		return int16(s * 0x8000)
	}
	return int16(s * 0x7FFF)
}

// FloatToInt16 converts a mono channel for the compressed encoder. Values
// above 1 are clamped and everything is scaled by 32767.
func FloatToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int16(s * 0x7FFF)
	}
	return out
}
