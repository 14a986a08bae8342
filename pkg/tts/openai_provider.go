package tts

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sashabaranov/go-openai"
)

const (
	openAIDefaultModel = "gpt-4o-mini-tts"
	openAIDefaultVoice = "coral"
)

// OpenAI supported voices
var openAIVoices = []string{
	"alloy", "ash", "ballad", "coral", "echo", "fable",
	"nova", "onyx", "sage", "shimmer", "verse",
}

// Catalog voices are Gemini names; these are the closest OpenAI timbres.
var geminiToOpenAIVoice = map[string]string{
	"Puck":   "ash",
	"Fenrir": "echo",
	"Zephyr": "alloy",
	"Charon": "onyx",
	"Kore":   "coral",
	"Aoede":  "nova",
	"Leda":   "shimmer",
	"Orus":   "sage",
}

// OpenAIConfig holds configuration for the OpenAI speech provider
type OpenAIConfig struct {
	APIKey  string  // Falls back to OPENAI_API_KEY
	Model   string  // Optional: defaults to gpt-4o-mini-tts
	BaseURL string  // Optional: API base URL override
	Speed   float64 // Optional: 0.25 to 4.0, default 1.0
}

// OpenAIProvider implements Provider for OpenAI's speech endpoint
type OpenAIProvider struct {
	apiKey string
	model  string
	speed  float64
	client *openai.Client
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config OpenAIConfig) *OpenAIProvider {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	model := config.Model
	if model == "" {
		model = openAIDefaultModel
	}

	speed := config.Speed
	if speed == 0 {
		speed = 1.0
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		speed:  speed,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// NewOpenAIFactory returns a Factory producing OpenAI providers.
func NewOpenAIFactory(config OpenAIConfig) Factory {
	return func(apiKey string) (Provider, error) {
		c := config
		c.APIKey = apiKey
		p := NewOpenAIProvider(c)
		if err := p.ValidateConfig(); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Synthesize converts text to 24 kHz PCM. The speech endpoint has no field
// for delivery instructions, so the tone prefix is not sent.
func (p *OpenAIProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	if err := p.ValidateConfig(); err != nil {
		return nil, err
	}

	if req.TonePrefix != "" {
		log.Printf("[OpenAIProvider] tone prefix not supported, sending plain text")
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(p.resolveVoice(req.Voice)),
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          optionFloat(req.Options, "speed", p.speed),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, Classify(fmt.Errorf("openai create speech: %w", err))
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(audioData) == 0 {
		return nil, fmt.Errorf("openai returned no audio: %w", ErrMalformedResponse)
	}

	return &SynthesizeResponse{
		AudioData: audioData,
		AudioFormat: AudioFormat{
			SampleRate: DefaultSampleRate,
			Channels:   1,
			Encoding:   EncodingPCM16,
		},
	}, nil
}

func (p *OpenAIProvider) resolveVoice(voice string) string {
	if voice == "" {
		return openAIDefaultVoice
	}
	for _, v := range openAIVoices {
		if v == voice {
			return voice
		}
	}
	if mapped, ok := geminiToOpenAIVoice[voice]; ok {
		return mapped
	}
	log.Printf("[OpenAIProvider] unknown voice %q, using %s", voice, openAIDefaultVoice)
	return openAIDefaultVoice
}

// GetSupportedVoices returns the list of supported OpenAI voices
func (p *OpenAIProvider) GetSupportedVoices() []string {
	return openAIVoices
}

// GetDefaultVoice returns the default voice
func (p *OpenAIProvider) GetDefaultVoice() string {
	return openAIDefaultVoice
}

// ValidateConfig validates the provider configuration
func (p *OpenAIProvider) ValidateConfig() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: OpenAI API key is not set, set OPENAI_API_KEY", ErrInvalidCredential)
	}
	return nil
}
