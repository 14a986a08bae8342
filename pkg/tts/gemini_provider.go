package tts

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"strconv"
	"sync"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel = "gemini-2.5-flash-preview-tts"
	geminiDefaultVoice = "Puck"
)

// Prebuilt Gemini speech voices
var geminiVoices = []string{
	"Zephyr", "Puck", "Charon", "Kore", "Fenrir", "Leda", "Orus", "Aoede",
	"Callirrhoe", "Autonoe", "Enceladus", "Iapetus", "Umbriel", "Algieba",
	"Despina", "Erinome", "Algenib", "Rasalgethi", "Laomedeia", "Achernar",
	"Alnilam", "Schedar", "Gacrux", "Pulcherrima", "Achird", "Zubenelgenubi",
	"Vindemiatrix", "Sadachbia", "Sadaltager", "Sulafat",
}

// generateFunc matches genai's Models.GenerateContent.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiConfig holds configuration for the Gemini speech provider
type GeminiConfig struct {
	APIKey string // Falls back to GEMINI_API_KEY, then GOOGLE_API_KEY
	Model  string // Optional: defaults to gemini-2.5-flash-preview-tts
}

// GeminiProvider implements Provider with Gemini's native audio output
type GeminiProvider struct {
	apiKey string
	model  string

	mu       sync.Mutex
	generate generateFunc
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini speech provider. The API client is
// created on first use.
func NewGeminiProvider(config GeminiConfig) *GeminiProvider {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	model := config.Model
	if model == "" {
		model = geminiDefaultModel
	}

	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
	}
}

// NewGeminiFactory returns a Factory producing Gemini providers for model.
func NewGeminiFactory(model string) Factory {
	return func(apiKey string) (Provider, error) {
		p := NewGeminiProvider(GeminiConfig{APIKey: apiKey, Model: model})
		if err := p.ValidateConfig(); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Synthesize sends the tone prefix followed by the text and returns the
// inline PCM audio of the first candidate.
func (p *GeminiProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	if err := p.ValidateConfig(); err != nil {
		return nil, err
	}

	generate, err := p.generator(ctx)
	if err != nil {
		return nil, err
	}

	voice := req.Voice
	if voice == "" {
		voice = geminiDefaultVoice
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	resp, err := generate(ctx, p.model, genai.Text(req.TonePrefix+req.Text), config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, Classify(fmt.Errorf("gemini generate: %w", err))
	}

	blob := inlineAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("gemini returned no inline audio: %w", ErrMalformedResponse)
	}

	return &SynthesizeResponse{
		AudioData: blob.Data,
		AudioFormat: AudioFormat{
			SampleRate: sampleRateFromMIME(blob.MIMEType, DefaultSampleRate),
			Channels:   1,
			Encoding:   EncodingPCM16,
		},
	}, nil
}

func (p *GeminiProvider) generator(ctx context.Context) (generateFunc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generate != nil {
		return p.generate, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	log.Printf("[GeminiProvider] client created for model %s", p.model)

	p.generate = client.Models.GenerateContent
	return p.generate, nil
}

func inlineAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil {
			return part.InlineData
		}
	}
	return nil
}

// sampleRateFromMIME reads the rate parameter of e.g. "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mimeType string, def int) int {
	if mimeType == "" {
		return def
	}
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return def
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return def
	}
	return rate
}

// GetSupportedVoices returns the list of prebuilt Gemini voices
func (p *GeminiProvider) GetSupportedVoices() []string {
	return geminiVoices
}

// GetDefaultVoice returns the default voice
func (p *GeminiProvider) GetDefaultVoice() string {
	return geminiDefaultVoice
}

// ValidateConfig validates the provider configuration
func (p *GeminiProvider) ValidateConfig() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: Gemini API key is not set, set GEMINI_API_KEY", ErrInvalidCredential)
	}
	return nil
}
