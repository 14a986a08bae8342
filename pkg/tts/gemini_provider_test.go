package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func audioResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}}},
			},
		}},
	}
}

func newTestGemini(fn generateFunc) *GeminiProvider {
	p := NewGeminiProvider(GeminiConfig{APIKey: "test-key"})
	p.generate = fn
	return p
}

func TestGeminiProvider_Synthesize(t *testing.T) {
	var (
		gotModel string
		gotText  string
		gotVoice string
		gotMods  []string
	)
	p := newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotText = contents[0].Parts[0].Text
		gotVoice = config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
		gotMods = config.ResponseModalities
		return audioResponse([]byte{1, 2, 3, 4}, "audio/L16;codec=pcm;rate=24000"), nil
	})

	resp, err := p.Synthesize(context.Background(), &SynthesizeRequest{
		Text:       "The door creaked open.",
		Voice:      "Charon",
		TonePrefix: "Say in a suspenseful way: ",
	})
	require.NoError(t, err)

	assert.Equal(t, geminiDefaultModel, gotModel)
	assert.Equal(t, "Say in a suspenseful way: The door creaked open.", gotText)
	assert.Equal(t, "Charon", gotVoice)
	assert.Equal(t, []string{"AUDIO"}, gotMods)
	assert.Equal(t, []byte{1, 2, 3, 4}, resp.AudioData)
	assert.Equal(t, AudioFormat{SampleRate: 24000, Channels: 1, Encoding: EncodingPCM16}, resp.AudioFormat)
}

func TestGeminiProvider_DefaultVoiceAndRate(t *testing.T) {
	var gotVoice string
	p := newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotVoice = config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
		return audioResponse([]byte{0, 0}, "audio/L16;rate=16000"), nil
	})

	resp, err := p.Synthesize(context.Background(), &SynthesizeRequest{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Puck", gotVoice)
	assert.Equal(t, 16000, resp.AudioFormat.SampleRate)
}

func TestGeminiProvider_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}},
		}}}},
		{"empty data", audioResponse(nil, "audio/L16")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.resp, nil
			})
			_, err := p.Synthesize(context.Background(), &SynthesizeRequest{Text: "x"})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestGeminiProvider_ClassifiesErrors(t *testing.T) {
	p := newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("Error 503, Message: The model is overloaded. Please try again later., Status: UNAVAILABLE")
	})
	_, err := p.Synthesize(context.Background(), &SynthesizeRequest{Text: "x"})
	assert.True(t, IsTransient(err))

	p = newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT")
	})
	_, err = p.Synthesize(context.Background(), &SynthesizeRequest{Text: "x"})
	assert.True(t, IsCredential(err))
}

func TestGeminiProvider_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newTestGemini(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		cancel()
		return nil, errors.New("503 while cancelling")
	})
	_, err := p.Synthesize(ctx, &SynthesizeRequest{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransient(err))
}

func TestGeminiProvider_ValidateConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	assert.ErrorIs(t, NewGeminiProvider(GeminiConfig{}).ValidateConfig(), ErrInvalidCredential)
	assert.NoError(t, NewGeminiProvider(GeminiConfig{APIKey: "k"}).ValidateConfig())

	t.Setenv("GOOGLE_API_KEY", "from-env")
	assert.NoError(t, NewGeminiProvider(GeminiConfig{}).ValidateConfig())
}

func TestGeminiFactory(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	factory := NewGeminiFactory("")
	_, err := factory("")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	p, err := factory("key")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "Puck", p.GetDefaultVoice())
	assert.Contains(t, p.GetSupportedVoices(), "Kore")
}

func TestSampleRateFromMIME(t *testing.T) {
	assert.Equal(t, 24000, sampleRateFromMIME("", 24000))
	assert.Equal(t, 24000, sampleRateFromMIME("audio/L16;codec=pcm;rate=24000", 1))
	assert.Equal(t, 44100, sampleRateFromMIME("audio/L16; rate=44100", 1))
	assert.Equal(t, 7, sampleRateFromMIME("audio/L16;rate=abc", 7))
	assert.Equal(t, 7, sampleRateFromMIME(";;;", 7))
}
