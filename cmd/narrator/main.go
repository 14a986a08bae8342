package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/realtime-ai/narrator/pkg/catalog"
	"github.com/realtime-ai/narrator/pkg/config"
	"github.com/realtime-ai/narrator/pkg/export"
	"github.com/realtime-ai/narrator/pkg/metrics"
	"github.com/realtime-ai/narrator/pkg/narration"
	"github.com/realtime-ai/narrator/pkg/pipeline"
	"github.com/realtime-ai/narrator/pkg/prompts"
	"github.com/realtime-ai/narrator/pkg/retry"
	"github.com/realtime-ai/narrator/pkg/storage"
	"github.com/realtime-ai/narrator/pkg/trace"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// version is reported as the service version on exported spans.
const version = "0.1.0"

type options struct {
	configPath  string
	scriptPath  string
	maxLength   int
	voice       string
	tone        string
	outDir      string
	zip         bool
	merge       bool
	preview     string
	prompts     bool
	listVoices  bool
	timeout     time.Duration
	metricsPath string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&o.scriptPath, "script", "", "Script file to narrate (- reads stdin)")
	flag.IntVar(&o.maxLength, "max", 0, "Maximum block length in characters (10-5000)")
	flag.StringVar(&o.voice, "voice", "", "Voice id for every block")
	flag.StringVar(&o.tone, "tone", "", "Tone for every block")
	flag.StringVar(&o.outDir, "out", "", "Output directory")
	flag.BoolVar(&o.zip, "zip", false, "Also write "+export.ZipFileName)
	flag.BoolVar(&o.merge, "merge", false, "Also write "+export.MergedFileName)
	flag.StringVar(&o.preview, "preview", "", "Write a preview of the given voice id and exit")
	flag.BoolVar(&o.prompts, "prompts", false, "Also write an image prompt per paragraph")
	flag.BoolVar(&o.listVoices, "list-voices", false, "List voices and tones and exit")
	flag.DurationVar(&o.timeout, "timeout", 10*time.Minute, "Overall timeout")
	flag.StringVar(&o.metricsPath, "metrics", "", "Write Prometheus metrics to this file on exit")
	flag.Parse()

	if o.scriptPath == "" && flag.NArg() > 0 {
		o.scriptPath = flag.Arg(0)
	}
	return o
}

func main() {
	_ = godotenv.Load()
	opts := parseFlags()

	if opts.listVoices {
		listVoices(os.Stdout)
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := trace.Initialize(ctx, cfg.Trace, version); err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			log.Printf("Failed to shutdown tracing: %v", err)
		}
	}()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatalf("narrator: %v", err)
	}
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.maxLength != 0 {
		cfg.Narration.MaxBlockLength = opts.maxLength
	}
	if opts.voice != "" {
		cfg.Narration.DefaultVoice = opts.voice
	}
	if opts.tone != "" {
		cfg.Narration.DefaultTone = opts.tone
	}
	if opts.outDir != "" {
		cfg.Export.OutputDir = opts.outDir
	}
	cfg.Normalize()
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	if opts.metricsPath != "" {
		defer writeMetrics(opts.metricsPath, reg)
	}

	bus := pipeline.NewEventBus()
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer bus.Stop()
	done := watchEvents(bus)
	defer close(done)

	session, err := narration.NewSession(narration.SessionConfig{
		Factory:        providerFactory(cfg),
		Credential:     cfg.APIKey(),
		Handles:        handleStore(cfg),
		Bus:            bus,
		DefaultVoiceID: cfg.Narration.DefaultVoice,
		DefaultTone:    cfg.Narration.DefaultTone,
		MaxBlockLength: cfg.Narration.MaxBlockLength,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if opts.preview != "" {
		return writePreview(ctx, session, cfg, opts.preview)
	}

	script, err := readScript(opts.scriptPath)
	if err != nil {
		return err
	}

	blocks, err := session.NewBlocks(script)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return errors.New("script is empty")
	}

	orch := narration.NewOrchestrator(session, narration.OrchestratorConfig{
		Retry: retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			Multiplier:  cfg.Retry.Multiplier,
			Retryable:   tts.IsTransient,
		},
		Concurrency: cfg.Narration.Concurrency,
		Metrics:     m,
	})
	report := orch.GenerateAll(ctx, blocks)
	fmt.Printf("%d of %d blocks generated in %s\n", report.Succeeded, report.Total, report.Duration.Round(time.Millisecond))

	exporter := narration.NewExporter(session, narration.ExporterConfig{
		Encoder: narration.LameEncoderFactory(cfg.Export.MP3Bitrate),
		Metrics: m,
	})
	for i := range blocks {
		name, data, err := exporter.ExportBlock(i)
		if err != nil {
			continue
		}
		if err := writeOutput(cfg, name, data); err != nil {
			return err
		}
	}

	if opts.zip {
		data, err := exporter.ExportZip()
		if err != nil {
			return err
		}
		if err := writeOutput(cfg, export.ZipFileName, data); err != nil {
			return err
		}
	}
	if opts.merge {
		data, err := exporter.ExportMerged(ctx)
		if err != nil {
			return err
		}
		if err := writeOutput(cfg, export.MergedFileName, data); err != nil {
			return err
		}
	}
	if opts.prompts {
		gen := prompts.NewGenerator(prompts.Config{APIKey: cfg.Synthesis.GeminiAPIKey, Model: cfg.Prompts.Model})
		text, err := gen.Generate(ctx, script)
		if err != nil {
			return fmt.Errorf("image prompts: %w", err)
		}
		if err := writeOutput(cfg, "image_prompts.txt", []byte(text+"\n")); err != nil {
			return err
		}
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d blocks failed", report.Failed)
	}
	return nil
}

func providerFactory(cfg *config.Config) tts.Factory {
	if cfg.Synthesis.Provider == config.ProviderOpenAI {
		return tts.NewOpenAIFactory(tts.OpenAIConfig{
			Model:   cfg.Synthesis.OpenAIModel,
			BaseURL: cfg.Synthesis.OpenAIBase,
			Speed:   cfg.Synthesis.Speed,
		})
	}
	return tts.NewGeminiFactory(cfg.Synthesis.GeminiModel)
}

func handleStore(cfg *config.Config) storage.Store {
	if cfg.Export.Storage == config.StorageFile {
		return storage.NewFileStore(cfg.Export.StorageDir)
	}
	return storage.NewMemoryStore()
}

func writePreview(ctx context.Context, session *narration.Session, cfg *config.Config, voiceID string) error {
	h, err := session.PreviewVoice(ctx, voiceID, cfg.Narration.DefaultTone)
	if err != nil {
		return err
	}
	data, err := session.Store().Handles().Open(h)
	if err != nil {
		return err
	}
	return writeOutput(cfg, h.Name, data)
}

func readScript(path string) (string, error) {
	if path == "" {
		return "", errors.New("no script given (use -script or -list-voices)")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func writeOutput(cfg *config.Config, name string, data []byte) error {
	path := filepath.Join(cfg.Export.OutputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("wrote %s (%d bytes)", path, len(data))
	return nil
}

// watchEvents prints block progress until the returned channel is closed.
func watchEvents(bus pipeline.Bus) chan struct{} {
	events := make(chan pipeline.Event, 64)
	for _, t := range []pipeline.EventType{
		pipeline.EventBlockCompleted,
		pipeline.EventBlockFailed,
		pipeline.EventBlockRetrying,
		pipeline.EventError,
	} {
		bus.Subscribe(t, events)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case evt := <-events:
				printEvent(evt)
			case <-done:
				return
			}
		}
	}()
	return done
}

func printEvent(evt pipeline.Event) {
	switch p := evt.Payload.(type) {
	case narration.BlockEvent:
		switch evt.Type {
		case pipeline.EventBlockCompleted:
			fmt.Printf("block %d: done (%d attempts)\n", p.Index+1, p.Attempts)
		case pipeline.EventBlockFailed:
			fmt.Printf("block %d: failed: %v\n", p.Index+1, p.Err)
		case pipeline.EventBlockRetrying:
			fmt.Printf("block %d: retrying after: %v\n", p.Index+1, p.Err)
		}
	case error:
		fmt.Printf("error: %v\n", p)
	}
}

func writeMetrics(path string, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Printf("Failed to gather metrics: %v", err)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		log.Printf("Failed to create metrics file: %v", err)
		return
	}
	defer f.Close()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			log.Printf("Failed to write metrics: %v", err)
			return
		}
	}
}

func listVoices(w io.Writer) {
	for _, v := range catalog.Default().Voices() {
		fmt.Fprintf(w, "%-8s %-24s %-7s %s\n", v.ID, v.DisplayName, v.Gender, v.Description)
	}
	fmt.Fprintln(w)
	for _, t := range catalog.Tones() {
		fmt.Fprintf(w, "%-10s %s\n", t.Key, t.Label)
	}
}
