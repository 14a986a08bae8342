package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantBuffer(rate, n int, v float32) *SampleBuffer {
	buf := NewSampleBuffer(rate, 1, n)
	for i := range buf.Channels[0] {
		buf.Channels[0][i] = v
	}
	return buf
}

func TestSwrResampler_Rates(t *testing.T) {
	tests := []struct {
		name   string
		from   int
		to     int
		in     int
		wantN  int
		delta float64
	}{
		{"upsample", 24000, 48000, 2400, 4800, 4},
		{"downsample", 48000, 24000, 4800, 2400, 4},
		{"odd ratio", 22050, 24000, 2205, 2400, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewSwrResampler().Resample(constantBuffer(tt.from, tt.in, 0.5), tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, out.SampleRate)
			require.Len(t, out.Channels, 1)
			assert.InDelta(t, tt.wantN, out.Len(), tt.delta, "the filter tail is drained")
			assert.InDelta(t, 0.5, out.Channels[0][out.Len()/2], 0.01)
		})
	}
}

func TestSwrResampler_SameRate(t *testing.T) {
	stereo := &SampleBuffer{SampleRate: 24000, Channels: [][]float32{{0.2, 0.4}, {0.4, 0.8}}}

	out, err := NewSwrResampler().Resample(stereo, 24000)
	require.NoError(t, err)
	require.Len(t, out.Channels, 1)
	assert.InDeltaSlice(t, []float32{0.3, 0.6}, out.Channels[0], 1e-6)
}

func TestSwrResampler_Invalid(t *testing.T) {
	_, err := NewSwrResampler().Resample(nil, 24000)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = NewSwrResampler().Resample(constantBuffer(24000, 10, 0), 0)
	assert.Error(t, err)
}
