package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAVHeaderSize is the size of the canonical RIFF/WAVE header written by EncodeWAV.
const WAVHeaderSize = 44

// wavHeader is the canonical 44-byte PCM WAV header.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * 2
	BlockAlign    uint16 // NumChannels * 2
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV packages buf as a 16-bit PCM WAV file. Channels are interleaved
// in order before quantization.
func EncodeWAV(buf *SampleBuffer) ([]byte, error) {
	if buf == nil || buf.NumChannels() == 0 {
		return nil, fmt.Errorf("cannot encode buffer without channels: %w", ErrInvalidFormat)
	}
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d: %w", buf.SampleRate, ErrInvalidFormat)
	}

	numChannels := buf.NumChannels()
	frames := buf.Len()
	dataSize := uint32(frames * numChannels * 2)

	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(numChannels),
		SampleRate:    uint32(buf.SampleRate),
		ByteRate:      uint32(buf.SampleRate * numChannels * 2),
		BlockAlign:    uint16(numChannels * 2),
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	out := bytes.NewBuffer(make([]byte, 0, WAVHeaderSize+int(dataSize)))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	pcm := make([]byte, dataSize)
	off := 0
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChannels; ch++ {
			binary.LittleEndian.PutUint16(pcm[off:], uint16(quantize(buf.Channels[ch][i])))
			off += 2
		}
	}
	out.Write(pcm)

	return out.Bytes(), nil
}

// DecodeWAV reads a 16-bit PCM WAV file back into a SampleBuffer. Chunks other
// than "fmt " and "data" are skipped.
func DecodeWAV(data []byte) (*SampleBuffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("missing RIFF/WAVE header: %w", ErrInvalidWAV)
	}

	var (
		haveFmt       bool
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("short fmt chunk: %w", ErrInvalidWAV)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body:])
			channels = binary.LittleEndian.Uint16(data[body+2:])
			sampleRate = binary.LittleEndian.Uint32(data[body+4:])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("data chunk before fmt chunk: %w", ErrInvalidWAV)
			}
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, fmt.Errorf("unsupported encoding (format %d, %d bits): %w", audioFormat, bitsPerSample, ErrInvalidWAV)
			}
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			return DecodePCM16(data[body:end], int(sampleRate), int(channels))
		}

		// Chunks are word aligned.
		pos = body + size + size%2
	}

	return nil, fmt.Errorf("no data chunk: %w", ErrInvalidWAV)
}
