package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/asticode/go-astiav"
)

// Resampler converts a buffer to another sample rate. Output is mono.
type Resampler interface {
	Resample(buf *SampleBuffer, targetRate int) (*SampleBuffer, error)
}

// SwrResampler resamples through libswresample. Each call uses its own
// resample context, so one value can be shared.
type SwrResampler struct{}

var _ Resampler = SwrResampler{}

// NewSwrResampler returns a libswresample backed Resampler.
func NewSwrResampler() SwrResampler {
	return SwrResampler{}
}

// Resample downmixes buf and converts it to targetRate. Buffers already at
// the target rate are only downmixed.
func (SwrResampler) Resample(buf *SampleBuffer, targetRate int) (*SampleBuffer, error) {
	if buf == nil || buf.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid input buffer: %w", ErrInvalidFormat)
	}
	if targetRate <= 0 {
		return nil, fmt.Errorf("invalid output sample rate: %d", targetRate)
	}

	mono := Downmix(buf)
	if mono.SampleRate == targetRate || mono.Len() == 0 {
		return &SampleBuffer{SampleRate: targetRate, Channels: mono.Channels}, nil
	}

	const align = 0

	ctx := astiav.AllocSoftwareResampleContext()
	if ctx == nil {
		return nil, fmt.Errorf("failed to allocate resample context")
	}
	defer ctx.Free()

	inFrame := astiav.AllocFrame()
	if inFrame == nil {
		return nil, fmt.Errorf("failed to allocate input frame")
	}
	defer inFrame.Free()

	outFrame := astiav.AllocFrame()
	if outFrame == nil {
		return nil, fmt.Errorf("failed to allocate output frame")
	}
	defer outFrame.Free()

	numSamples := mono.Len()
	inFrame.SetChannelLayout(astiav.ChannelLayoutMono)
	inFrame.SetSampleFormat(astiav.SampleFormatS16)
	inFrame.SetSampleRate(mono.SampleRate)
	inFrame.SetNbSamples(numSamples)
	if err := inFrame.AllocBuffer(align); err != nil {
		return nil, fmt.Errorf("failed to allocate input buffer: %w", err)
	}

	size, err := inFrame.SamplesBufferSize(align)
	if err != nil {
		return nil, fmt.Errorf("failed to get buffer size: %w", err)
	}
	raw := make([]byte, size)
	for i, s := range mono.Channels[0] {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(quantize(s)))
	}
	if err := inFrame.Data().SetBytes(raw, align); err != nil {
		return nil, fmt.Errorf("setting frame's data failed: %w", err)
	}

	// Headroom for the filter delay.
	outNumSamples := numSamples*targetRate/mono.SampleRate + 256
	outFrame.SetChannelLayout(astiav.ChannelLayoutMono)
	outFrame.SetSampleFormat(astiav.SampleFormatS16)
	outFrame.SetSampleRate(targetRate)
	outFrame.SetNbSamples(outNumSamples)
	if err := outFrame.AllocBuffer(align); err != nil {
		return nil, fmt.Errorf("failed to allocate output buffer: %w", err)
	}

	var pcm []byte
	convert := func(src *astiav.Frame) (int, error) {
		outFrame.SetNbSamples(outNumSamples)
		if err := ctx.ConvertFrame(src, outFrame); err != nil {
			return 0, fmt.Errorf("failed to resample: %w", err)
		}
		n := outFrame.NbSamples()
		if n == 0 {
			return 0, nil
		}
		out, err := outFrame.Data().Bytes(align)
		if err != nil {
			return 0, fmt.Errorf("getting output data failed: %w", err)
		}
		pcm = append(pcm, out...)
		return n, nil
	}

	if _, err := convert(inFrame); err != nil {
		return nil, err
	}
	// A nil input drains the samples still held by the filter.
	for {
		n, err := convert(nil)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}

	return DecodePCM16(pcm, targetRate, 1)
}
