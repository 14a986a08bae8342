// Package prompts writes a short image prompt for every paragraph of a
// narration script using a Gemini text model.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/realtime-ai/narrator/pkg/trace"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const instruction = "Write a short, descriptive image prompt in English for the following text. " +
	"The prompt should be optimized for models such as Midjourney or DALL-E. " +
	"Return ONLY the prompt text, with no introduction or extra formatting. Text: %q"

var (
	// ErrNoParagraphs is returned for a script with no text.
	ErrNoParagraphs = errors.New("script has no paragraphs")
	// ErrEmptyPrompt is returned when the model answers with no text.
	ErrEmptyPrompt = errors.New("model returned an empty prompt")
)

var paragraphBreak = regexp.MustCompile(`\n+`)

// generateFunc matches genai's Models.GenerateContent.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Config holds the generator settings.
type Config struct {
	APIKey string // Falls back to GEMINI_API_KEY, then GOOGLE_API_KEY
	Model  string
}

// Generator asks a text model for one image prompt per paragraph.
type Generator struct {
	apiKey string
	model  string

	mu       sync.Mutex
	generate generateFunc
}

// NewGenerator creates a generator. The API client is created on first use.
func NewGenerator(cfg Config) *Generator {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Generator{apiKey: apiKey, model: model}
}

// Paragraphs splits script on runs of newlines, dropping blank paragraphs.
func Paragraphs(script string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(script, -1) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Generate returns the prompts for every paragraph of script, in order,
// separated by a blank line. Paragraphs are requested concurrently and any
// failure fails the whole call.
func (g *Generator) Generate(ctx context.Context, script string) (string, error) {
	paragraphs := Paragraphs(script)
	if len(paragraphs) == 0 {
		return "", ErrNoParagraphs
	}

	generate, err := g.generator(ctx)
	if err != nil {
		return "", err
	}

	prompts := make([]string, len(paragraphs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range paragraphs {
		i, p := i, p
		eg.Go(func() (err error) {
			spanCtx, span := trace.InstrumentPromptRequest(egCtx, g.model, i)
			defer func() { trace.EndSpan(span, err) }()

			resp, err := generate(spanCtx, g.model, genai.Text(fmt.Sprintf(instruction, p)), nil)
			if err != nil {
				return tts.Classify(fmt.Errorf("paragraph %d: %w", i+1, err))
			}
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				return fmt.Errorf("paragraph %d: %w", i+1, ErrEmptyPrompt)
			}
			prompts[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Printf("[Prompts] generation failed: %v", err)
		return "", err
	}

	log.Printf("[Prompts] generated %d image prompts with %s", len(prompts), g.model)
	return strings.Join(prompts, "\n\n"), nil
}

func (g *Generator) generator(ctx context.Context) (generateFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.generate != nil {
		return g.generate, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: %w", tts.ErrInvalidCredential)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	log.Printf("[Prompts] client created for model %s", g.model)

	g.generate = client.Models.GenerateContent
	return g.generate, nil
}
