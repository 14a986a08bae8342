package narration

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/realtime-ai/narrator/pkg/audio"
	"github.com/realtime-ai/narrator/pkg/export"
	"github.com/realtime-ai/narrator/pkg/metrics"
	"github.com/realtime-ai/narrator/pkg/trace"
)

// EncoderFactory opens a compressed encoder for a mono stream at sampleRate.
type EncoderFactory func(sampleRate int) (audio.FrameEncoder, error)

// LameEncoderFactory returns an EncoderFactory producing libmp3lame
// encoders at bitrateKbps.
func LameEncoderFactory(bitrateKbps int) EncoderFactory {
	return func(sampleRate int) (audio.FrameEncoder, error) {
		return audio.NewLameEncoder(sampleRate, bitrateKbps)
	}
}

// ExporterConfig configures exports. A nil Encoder selects libmp3lame at
// the default bitrate; a nil Resampler selects libswresample.
type ExporterConfig struct {
	Encoder   EncoderFactory
	Resampler audio.Resampler
	Metrics   *metrics.Metrics
}

// Exporter packages a session's finished audio.
type Exporter struct {
	session   *Session
	encoder   EncoderFactory
	resampler audio.Resampler
	metrics   *metrics.Metrics
}

// NewExporter creates an exporter over session.
func NewExporter(session *Session, cfg ExporterConfig) *Exporter {
	if cfg.Encoder == nil {
		cfg.Encoder = LameEncoderFactory(audio.DefaultMP3Bitrate)
	}
	if cfg.Resampler == nil {
		cfg.Resampler = audio.NewSwrResampler()
	}
	return &Exporter{
		session:   session,
		encoder:   cfg.Encoder,
		resampler: cfg.Resampler,
		metrics:   cfg.Metrics,
	}
}

type readyBlock struct {
	index int
	data  []byte
}

// ready returns the playable bytes of every block with audio, in block order.
func (e *Exporter) ready() ([]readyBlock, error) {
	store := e.session.Store()
	var out []readyBlock
	for i, b := range e.session.Blocks() {
		entry, ok := store.Get(b.ID)
		if !ok || !entry.Ready() {
			continue
		}
		data, err := store.Handles().Open(entry.Handle)
		if err != nil {
			return nil, fmt.Errorf("read audio of block %d: %w", i+1, err)
		}
		out = append(out, readyBlock{index: i, data: data})
	}
	return out, nil
}

// ExportBlock returns the file name and WAV bytes of the block at a
// zero-based index.
func (e *Exporter) ExportBlock(index int) (string, []byte, error) {
	blocks := e.session.Blocks()
	if index < 0 || index >= len(blocks) {
		return "", nil, fmt.Errorf("block index %d: %w", index, ErrUnknownBlock)
	}

	entry, ok := e.session.Store().Get(blocks[index].ID)
	if !ok || !entry.Ready() {
		return "", nil, fmt.Errorf("block %d: %w", index+1, ErrNoAudio)
	}
	data, err := e.session.Store().Handles().Open(entry.Handle)
	if err != nil {
		return "", nil, fmt.Errorf("block %d: %w", index+1, err)
	}

	e.metrics.ObserveExport("wav")
	return export.BlockFileName(index), data, nil
}

// ExportZip packages every block with audio as block_<n>.wav entries.
// Blocks without audio are skipped.
func (e *Exporter) ExportZip() ([]byte, error) {
	data, err := e.exportZip()
	if err != nil {
		return nil, e.packagingFailed(err)
	}
	e.metrics.ObserveExport("zip")
	return data, nil
}

func (e *Exporter) exportZip() ([]byte, error) {
	blocks, err := e.ready()
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, errors.New("no generated audio to package")
	}

	p := export.NewZipPackager()
	for _, b := range blocks {
		if err := p.Add(export.BlockFileName(b.index), b.data); err != nil {
			return nil, err
		}
	}
	log.Printf("[Exporter] packaged %d blocks into %s", len(blocks), export.ZipFileName)
	return p.Finalize()
}

// ExportMerged decodes every block with audio in order, joins them into one
// mono stream at the first block's sample rate and encodes it as MP3.
func (e *Exporter) ExportMerged(ctx context.Context) ([]byte, error) {
	data, err := e.exportMerged(ctx)
	if err != nil {
		return nil, e.packagingFailed(err)
	}
	e.metrics.ObserveExport("mp3")
	return data, nil
}

func (e *Exporter) exportMerged(ctx context.Context) (out []byte, err error) {
	blocks, err := e.ready()
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, errors.New("no generated audio to merge")
	}

	_, span := trace.InstrumentAudioMerge(ctx, len(blocks))
	defer func() { trace.EndSpan(span, err) }()

	buffers := make([]*audio.SampleBuffer, 0, len(blocks))
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf, err := audio.DecodeWAV(b.data)
		if err != nil {
			return nil, fmt.Errorf("decode block %d: %w", b.index+1, err)
		}
		buffers = append(buffers, buf)
	}

	rate := buffers[0].SampleRate
	for i, buf := range buffers {
		if buf.SampleRate == rate {
			continue
		}
		resampled, err := e.resampler.Resample(buf, rate)
		if err != nil {
			return nil, fmt.Errorf("resample block %d: %w", blocks[i].index+1, err)
		}
		buffers[i] = resampled
	}

	merged, err := audio.Concatenate(buffers)
	if err != nil {
		return nil, err
	}

	enc, err := e.encoder(rate)
	if err != nil {
		return nil, fmt.Errorf("open encoder: %w", err)
	}
	if f, ok := enc.(interface{ Free() }); ok {
		defer f.Free()
	}

	out, err = audio.EncodeMP3(merged, enc)
	if err != nil {
		return nil, err
	}
	log.Printf("[Exporter] merged %d blocks, %.1fs of audio into %s (%d bytes)",
		len(blocks), merged.Duration(), export.MergedFileName, len(out))
	return out, nil
}

func (e *Exporter) packagingFailed(err error) error {
	err = fmt.Errorf("%w: %w", ErrPackaging, err)
	e.session.reportGlobal(err)
	return err
}
