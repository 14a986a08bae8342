package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/asticode/go-astiav"
)

// LameEncoder is a FrameEncoder backed by FFmpeg's libmp3lame wrapper. It
// encodes mono 16-bit PCM at a fixed sample rate and bitrate.
type LameEncoder struct {
	codecCtx   *astiav.CodecContext
	frame      *astiav.Frame
	packet     *astiav.Packet
	sampleRate int
	pts        int64
	flushed    bool
}

var _ FrameEncoder = (*LameEncoder)(nil)

// NewLameEncoder opens an MP3 encoder. A non-positive bitrate selects
// DefaultMP3Bitrate.
func NewLameEncoder(sampleRate, bitrateKbps int) (*LameEncoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if bitrateKbps <= 0 {
		bitrateKbps = DefaultMP3Bitrate
	}

	codec := astiav.FindEncoderByName("libmp3lame")
	if codec == nil {
		codec = astiav.FindEncoder(astiav.CodecIDMp3)
	}
	if codec == nil {
		return nil, errors.New("mp3 encoder not available in linked FFmpeg")
	}

	e := &LameEncoder{sampleRate: sampleRate}

	e.codecCtx = astiav.AllocCodecContext(codec)
	if e.codecCtx == nil {
		return nil, errors.New("failed to allocate codec context")
	}
	e.codecCtx.SetSampleFormat(astiav.SampleFormatS16P)
	e.codecCtx.SetChannelLayout(astiav.ChannelLayoutMono)
	e.codecCtx.SetSampleRate(sampleRate)
	e.codecCtx.SetBitRate(int64(bitrateKbps * 1000))
	e.codecCtx.SetTimeBase(astiav.NewRational(1, sampleRate))

	if err := e.codecCtx.Open(codec, nil); err != nil {
		e.Free()
		return nil, fmt.Errorf("failed to open mp3 encoder: %w", err)
	}

	e.frame = astiav.AllocFrame()
	if e.frame == nil {
		e.Free()
		return nil, errors.New("failed to allocate frame")
	}
	e.packet = astiav.AllocPacket()
	if e.packet == nil {
		e.Free()
		return nil, errors.New("failed to allocate packet")
	}

	log.Printf("[LameEncoder] opened %s at %d Hz, %d kbps", codec.Name(), sampleRate, bitrateKbps)
	return e, nil
}

// EncodeFrame encodes up to MP3FrameSize samples. Shorter input is padded
// with silence to a full frame.
func (e *LameEncoder) EncodeFrame(pcm []int16) ([]byte, error) {
	if e.flushed {
		return nil, errors.New("encoder already flushed")
	}
	if len(pcm) > MP3FrameSize {
		return nil, fmt.Errorf("frame of %d samples exceeds %d", len(pcm), MP3FrameSize)
	}

	const align = 0

	e.frame.Unref()
	e.frame.SetSampleFormat(astiav.SampleFormatS16P)
	e.frame.SetChannelLayout(astiav.ChannelLayoutMono)
	e.frame.SetSampleRate(e.sampleRate)
	e.frame.SetNbSamples(MP3FrameSize)
	if err := e.frame.AllocBuffer(align); err != nil {
		return nil, fmt.Errorf("failed to allocate frame buffer: %w", err)
	}

	size, err := e.frame.SamplesBufferSize(align)
	if err != nil {
		return nil, fmt.Errorf("failed to get buffer size: %w", err)
	}
	raw := make([]byte, size)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	if err := e.frame.Data().SetBytes(raw, align); err != nil {
		return nil, fmt.Errorf("setting frame's data failed: %w", err)
	}

	e.frame.SetPts(e.pts)
	e.pts += MP3FrameSize

	if err := e.codecCtx.SendFrame(e.frame); err != nil {
		return nil, fmt.Errorf("failed to send frame: %w", err)
	}
	return e.drain()
}

// Flush drains the encoder's delayed output. Further EncodeFrame calls fail.
func (e *LameEncoder) Flush() ([]byte, error) {
	if e.flushed {
		return nil, nil
	}
	e.flushed = true

	if err := e.codecCtx.SendFrame(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		return nil, fmt.Errorf("failed to flush encoder: %w", err)
	}
	return e.drain()
}

func (e *LameEncoder) drain() ([]byte, error) {
	var out []byte
	for {
		if err := e.codecCtx.ReceivePacket(e.packet); err != nil {
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				return out, nil
			}
			return nil, fmt.Errorf("failed to receive packet: %w", err)
		}
		out = append(out, e.packet.Data()...)
		e.packet.Unref()
	}
}

// Free releases FFmpeg resources.
func (e *LameEncoder) Free() {
	if e.packet != nil {
		e.packet.Free()
		e.packet = nil
	}
	if e.frame != nil {
		e.frame.Free()
		e.frame = nil
	}
	if e.codecCtx != nil {
		e.codecCtx.Free()
		e.codecCtx = nil
	}
}
