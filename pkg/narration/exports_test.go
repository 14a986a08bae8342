package narration

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtime-ai/narrator/pkg/audio"
	"github.com/realtime-ai/narrator/pkg/metrics"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// generateWithFailure generates testScript, failing the second block.
func generateWithFailure(t *testing.T, f *fixture) []TextBlock {
	t.Helper()
	f.provider.fn = func(ctx context.Context, req *tts.SynthesizeRequest) (*tts.SynthesizeResponse, error) {
		if strings.HasPrefix(req.Text, "Second") {
			return nil, errors.New("content rejected")
		}
		return pcmResponse(100, tts.DefaultSampleRate), nil
	}
	blocks, err := f.session.NewBlocks(testScript)
	require.NoError(t, err)
	report := f.orch.GenerateAll(testContext(t), blocks)
	require.Equal(t, 2, report.Succeeded)
	return blocks
}

func TestExporter_ExportBlock(t *testing.T) {
	f := newFixture(t, 20)
	generateWithFailure(t, f)
	e := NewExporter(f.session, ExporterConfig{Encoder: fakeEncoderFactory(&countingEncoder{}), Resampler: &stretchResampler{}})

	name, data, err := e.ExportBlock(2)
	require.NoError(t, err)
	assert.Equal(t, "block_3.wav", name)
	assert.Equal(t, "RIFF", string(data[:4]))

	_, _, err = e.ExportBlock(1)
	assert.ErrorIs(t, err, ErrNoAudio)

	_, _, err = e.ExportBlock(3)
	assert.ErrorIs(t, err, ErrUnknownBlock)
	_, _, err = e.ExportBlock(-1)
	assert.ErrorIs(t, err, ErrUnknownBlock)

	assert.NoError(t, f.session.GlobalError())
}

func TestExporter_ExportZip(t *testing.T) {
	f := newFixture(t, 20)
	generateWithFailure(t, f)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	e := NewExporter(f.session, ExporterConfig{Encoder: fakeEncoderFactory(&countingEncoder{}), Resampler: &stretchResampler{}, Metrics: m})

	data, err := e.ExportZip()
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, file := range r.File {
		names = append(names, file.Name)
	}
	assert.Equal(t, []string{"block_1.wav", "block_3.wav"}, names)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("zip")))
}

func TestExporter_NothingToPackage(t *testing.T) {
	f := newFixture(t, 20)
	_, err := f.session.NewBlocks(testScript)
	require.NoError(t, err)
	e := NewExporter(f.session, ExporterConfig{Encoder: fakeEncoderFactory(&countingEncoder{}), Resampler: &stretchResampler{}})

	_, err = e.ExportZip()
	assert.ErrorIs(t, err, ErrPackaging)
	assert.ErrorIs(t, f.session.GlobalError(), ErrPackaging)

	f.session.ClearGlobalError()
	_, err = e.ExportMerged(testContext(t))
	assert.ErrorIs(t, err, ErrPackaging)
	assert.ErrorIs(t, f.session.GlobalError(), ErrPackaging)
}

func TestExporter_ExportMerged(t *testing.T) {
	f := newFixture(t, 20)
	generateWithFailure(t, f)
	enc := &countingEncoder{}
	res := &stretchResampler{}
	e := NewExporter(f.session, ExporterConfig{Encoder: fakeEncoderFactory(enc), Resampler: res})

	data, err := e.ExportMerged(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 200, enc.samples)
	assert.Equal(t, 1, enc.frames)
	assert.True(t, enc.flushed)
	assert.Equal(t, []byte{0xAA, 0xEE}, data)
	assert.Zero(t, res.calls, "equal rates need no resampling")
}

func TestExporter_ExportMergedResamplesToFirstRate(t *testing.T) {
	f := newFixture(t, 20)
	f.provider.fn = func(ctx context.Context, req *tts.SynthesizeRequest) (*tts.SynthesizeResponse, error) {
		if strings.HasPrefix(req.Text, "Second") {
			return pcmResponse(100, 48000), nil
		}
		return pcmResponse(100, tts.DefaultSampleRate), nil
	}
	blocks, err := f.session.NewBlocks(testScript)
	require.NoError(t, err)
	require.Equal(t, 3, f.orch.GenerateAll(testContext(t), blocks).Succeeded)

	enc := &countingEncoder{}
	res := &stretchResampler{}
	e := NewExporter(f.session, ExporterConfig{Encoder: fakeEncoderFactory(enc), Resampler: res})

	_, err = e.ExportMerged(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 1, res.calls)
	assert.Equal(t, []int{tts.DefaultSampleRate}, res.targets)
	assert.Equal(t, 100+50+100, enc.samples)
}

func TestExporter_EncoderFailure(t *testing.T) {
	f := newFixture(t, 20)
	generateWithFailure(t, f)
	e := NewExporter(f.session, ExporterConfig{
		Encoder: func(int) (audio.FrameEncoder, error) {
			return nil, errors.New("libmp3lame not available")
		},
		Resampler: &stretchResampler{},
	})

	_, err := e.ExportMerged(testContext(t))
	assert.ErrorIs(t, err, ErrPackaging)
	assert.Contains(t, err.Error(), "libmp3lame not available")
}

func fakeEncoderFactory(enc *countingEncoder) EncoderFactory {
	return func(sampleRate int) (audio.FrameEncoder, error) {
		return enc, nil
	}
}
