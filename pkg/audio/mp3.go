package audio

import "fmt"

// MP3FrameSize is the number of samples per channel in one MPEG-1 Layer III frame.
const MP3FrameSize = 1152

// DefaultMP3Bitrate is the bitrate used for merged exports, in kbps.
const DefaultMP3Bitrate = 128

// FrameEncoder turns fixed-size blocks of 16-bit mono PCM into compressed
// bytes. Encoders may buffer internally, so EncodeFrame can return nothing
// and Flush returns whatever is left.
type FrameEncoder interface {
	EncodeFrame(pcm []int16) ([]byte, error)
	Flush() ([]byte, error)
}

// EncodeMP3 re-encodes a mono buffer frame by frame. Every non-empty chunk is
// appended in order and the encoder is always flushed, even for an empty
// buffer.
func EncodeMP3(buf *SampleBuffer, enc FrameEncoder) ([]byte, error) {
	if buf == nil || buf.NumChannels() != 1 {
		return nil, fmt.Errorf("mp3 encoding needs a mono buffer: %w", ErrInvalidFormat)
	}

	pcm := FloatToInt16(buf.Channels[0])
	var out []byte

	for start := 0; start < len(pcm); start += MP3FrameSize {
		end := start + MP3FrameSize
		if end > len(pcm) {
			end = len(pcm)
		}
		chunk, err := enc.EncodeFrame(pcm[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to encode frame at sample %d: %w", start, err)
		}
		if len(chunk) > 0 {
			out = append(out, chunk...)
		}
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("failed to flush encoder: %w", err)
	}
	if len(tail) > 0 {
		out = append(out, tail...)
	}

	return out, nil
}
