// Package config loads narrator settings from a YAML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/realtime-ai/narrator/pkg/catalog"
	"github.com/realtime-ai/narrator/pkg/segmenter"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StorageMemory = "memory"
	StorageFile   = "file"

	TraceNone   = "none"
	TraceStdout = "stdout"
	TraceOTLP   = "otlp"

	MinSpeed = 0.5
	MaxSpeed = 2.0
)

// Config represents the complete narrator configuration
type Config struct {
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Narration NarrationConfig `yaml:"narration"`
	Retry     RetryConfig     `yaml:"retry"`
	Export    ExportConfig    `yaml:"export"`
	Prompts   PromptsConfig   `yaml:"prompts"`
	Trace     TraceConfig     `yaml:"trace"`
}

// SynthesisConfig selects and configures the speech service
type SynthesisConfig struct {
	Provider     string  `yaml:"provider"` // gemini or openai
	GeminiModel  string  `yaml:"gemini_model"`
	OpenAIModel  string  `yaml:"openai_model"`
	OpenAIBase   string  `yaml:"openai_base_url"`
	Speed        float64 `yaml:"speed"` // playback speed, clamped to [0.5, 2.0]
	GeminiAPIKey string  `yaml:"-"`
	OpenAIAPIKey string  `yaml:"-"`
}

// NarrationConfig holds block defaults and batch settings
type NarrationConfig struct {
	MaxBlockLength int    `yaml:"max_block_length"` // clamped to [10, 5000]
	DefaultVoice   string `yaml:"default_voice"`
	DefaultTone    string `yaml:"default_tone"`
	Concurrency    int    `yaml:"concurrency"` // 0 means one task per block
}

// RetryConfig controls synthesis retries on transient failures
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Multiplier  float64       `yaml:"multiplier"`
}

// ExportConfig controls where and how audio is written
type ExportConfig struct {
	OutputDir  string `yaml:"output_dir"`
	MP3Bitrate int    `yaml:"mp3_bitrate"` // kbps
	Storage    string `yaml:"storage"`     // memory or file
	StorageDir string `yaml:"storage_dir"`
}

// PromptsConfig configures image prompt generation
type PromptsConfig struct {
	Model string `yaml:"model"`
}

// TraceConfig configures OpenTelemetry export
type TraceConfig struct {
	Exporter     string  `yaml:"exporter"` // stdout, otlp or none
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"` // fraction of root spans kept
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Synthesis: SynthesisConfig{
			Provider:    ProviderGemini,
			GeminiModel: "gemini-2.5-flash-preview-tts",
			OpenAIModel: "gpt-4o-mini-tts",
			Speed:       1.0,
		},
		Narration: NarrationConfig{
			MaxBlockLength: segmenter.DefaultBound,
			DefaultVoice:   catalog.DefaultVoiceID,
			DefaultTone:    catalog.DefaultTone,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Multiplier:  2,
		},
		Export: ExportConfig{
			OutputDir:  "output",
			MP3Bitrate: 128,
			Storage:    StorageMemory,
			StorageDir: "audio",
		},
		Prompts: PromptsConfig{
			Model: "gemini-2.5-flash",
		},
		Trace: TraceConfig{
			Exporter:     TraceNone,
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies .env and
// environment overrides, clamps ranged values and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] failed to load .env: %v", err)
	}
	cfg.ApplyEnv()
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	c.Synthesis.GeminiAPIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY")
	c.Synthesis.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	c.Synthesis.Provider = getEnv("NARRATOR_PROVIDER", c.Synthesis.Provider)
	c.Synthesis.Speed = getEnvFloat("NARRATOR_SPEED", c.Synthesis.Speed)
	if v := os.Getenv("NARRATOR_MAX_BLOCK_LENGTH"); v != "" {
		c.Narration.MaxBlockLength = segmenter.ParseBound(v)
	}
	c.Narration.DefaultVoice = getEnv("NARRATOR_VOICE", c.Narration.DefaultVoice)
	c.Narration.DefaultTone = getEnv("NARRATOR_TONE", c.Narration.DefaultTone)
	c.Narration.Concurrency = getEnvInt("NARRATOR_CONCURRENCY", c.Narration.Concurrency)
	c.Export.OutputDir = getEnv("NARRATOR_OUTPUT_DIR", c.Export.OutputDir)
	c.Trace.Exporter = getEnv("TRACE_EXPORTER", c.Trace.Exporter)
	c.Trace.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Trace.OTLPEndpoint)
	c.Trace.SampleRate = getEnvFloat("TRACE_SAMPLE_RATE", c.Trace.SampleRate)
}

// Normalize clamps ranged values into their accepted bounds.
func (c *Config) Normalize() {
	c.Narration.MaxBlockLength = segmenter.ClampBound(c.Narration.MaxBlockLength)
	c.Synthesis.Speed = ClampSpeed(c.Synthesis.Speed)
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	if c.Synthesis.Provider == ProviderOpenAI {
		return c.Synthesis.OpenAIAPIKey
	}
	return c.Synthesis.GeminiAPIKey
}

// ClampSpeed limits a playback speed to [MinSpeed, MaxSpeed].
func ClampSpeed(s float64) float64 {
	if s < MinSpeed {
		return MinSpeed
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis config: %w", err)
	}
	if err := c.Narration.Validate(); err != nil {
		return fmt.Errorf("narration config: %w", err)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("retry config: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}
	if err := c.Trace.Validate(); err != nil {
		return fmt.Errorf("trace config: %w", err)
	}
	return nil
}

// Validate validates synthesis configuration
func (s *SynthesisConfig) Validate() error {
	switch s.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, s.Provider)
	}
	if s.Speed < MinSpeed || s.Speed > MaxSpeed {
		return fmt.Errorf("speed must be between %.1f and %.1f, got %f", MinSpeed, MaxSpeed, s.Speed)
	}
	return nil
}

// Validate validates narration configuration
func (n *NarrationConfig) Validate() error {
	if n.MaxBlockLength < segmenter.MinBound || n.MaxBlockLength > segmenter.MaxBound {
		return fmt.Errorf("max_block_length must be between %d and %d, got %d", segmenter.MinBound, segmenter.MaxBound, n.MaxBlockLength)
	}
	if _, ok := catalog.Default().Lookup(n.DefaultVoice); !ok {
		return fmt.Errorf("unknown default_voice %q", n.DefaultVoice)
	}
	if _, ok := catalog.LookupTone(n.DefaultTone); !ok {
		return fmt.Errorf("unknown default_tone %q", n.DefaultTone)
	}
	if n.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", n.Concurrency)
	}
	return nil
}

// Validate validates retry configuration
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", r.MaxAttempts)
	}
	if r.BaseDelay <= 0 {
		return fmt.Errorf("base_delay must be positive, got %s", r.BaseDelay)
	}
	if r.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %f", r.Multiplier)
	}
	return nil
}

// Validate validates export configuration
func (e *ExportConfig) Validate() error {
	if e.MP3Bitrate <= 0 {
		return fmt.Errorf("mp3_bitrate must be positive, got %d", e.MP3Bitrate)
	}
	switch e.Storage {
	case StorageMemory:
	case StorageFile:
		if e.StorageDir == "" {
			return fmt.Errorf("storage_dir cannot be empty for file storage")
		}
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageMemory, StorageFile, e.Storage)
	}
	return nil
}

// Validate validates trace configuration
func (t *TraceConfig) Validate() error {
	switch t.Exporter {
	case TraceNone, TraceStdout:
	case TraceOTLP:
		if t.OTLPEndpoint == "" {
			return fmt.Errorf("otlp_endpoint cannot be empty for the otlp exporter")
		}
	default:
		return fmt.Errorf("exporter must be %q, %q or %q, got %q", TraceNone, TraceStdout, TraceOTLP, t.Exporter)
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %f", t.SampleRate)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, value, err)
		return defaultValue
	}
	return f
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
