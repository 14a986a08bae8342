// Package tts adapts remote speech-synthesis services to a single Provider
// interface. Providers return raw 16-bit PCM with its format description.
package tts

import (
	"context"
)

const (
	// DefaultSampleRate is the PCM rate both supported services return.
	DefaultSampleRate = 24000

	// EncodingPCM16 is signed 16-bit little-endian PCM.
	EncodingPCM16 = "pcm_s16le"
)

// AudioFormat defines the audio format configuration
type AudioFormat struct {
	SampleRate int    // Sample rate in Hz (e.g., 24000)
	Channels   int    // Number of audio channels (1 for mono)
	Encoding   string // Audio encoding format (e.g., "pcm_s16le")
}

// SynthesizeRequest represents a request to synthesize speech
type SynthesizeRequest struct {
	Text       string                 // Text to synthesize
	Voice      string                 // Provider voice name
	TonePrefix string                 // Delivery instruction for the tone, may be empty
	Options    map[string]interface{} // Additional provider-specific options
}

// SynthesizeResponse represents the response from speech synthesis
type SynthesizeResponse struct {
	AudioData   []byte      // Raw audio data
	AudioFormat AudioFormat // Format of the audio data
}

// Provider defines the interface that all TTS services must implement
type Provider interface {
	// Name returns the name of the TTS provider (e.g., "gemini", "openai")
	Name() string

	// Synthesize converts text to speech.
	// Errors are already classified, see Classify.
	Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error)

	// GetSupportedVoices returns the voice names accepted in SynthesizeRequest
	GetSupportedVoices() []string

	// GetDefaultVoice returns the default voice for this provider
	GetDefaultVoice() string

	// ValidateConfig returns an error if credentials or required settings are missing
	ValidateConfig() error
}

// Factory builds a provider for an API credential. Sessions rebuild their
// provider through it when the credential changes.
type Factory func(apiKey string) (Provider, error)

func optionFloat(opts map[string]interface{}, key string, def float64) float64 {
	if opts == nil {
		return def
	}
	switch v := opts[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}
