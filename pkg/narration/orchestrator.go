package narration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/realtime-ai/narrator/pkg/catalog"
	"github.com/realtime-ai/narrator/pkg/export"
	"github.com/realtime-ai/narrator/pkg/metrics"
	"github.com/realtime-ai/narrator/pkg/pipeline"
	"github.com/realtime-ai/narrator/pkg/retry"
	"github.com/realtime-ai/narrator/pkg/trace"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// OrchestratorConfig configures batch generation.
type OrchestratorConfig struct {
	// Retry wraps every synthesis call. A zero policy selects three
	// attempts with 1s and 2s waits, retrying transient failures only.
	Retry retry.Policy

	// Concurrency caps simultaneous blocks; 0 runs every block at once.
	Concurrency int

	Metrics *metrics.Metrics
}

// Orchestrator generates audio for session blocks.
type Orchestrator struct {
	session     *Session
	policy      retry.Policy
	concurrency int
	metrics     *metrics.Metrics
}

// NewOrchestrator creates an orchestrator over session.
func NewOrchestrator(session *Session, cfg OrchestratorConfig) *Orchestrator {
	policy := cfg.Retry
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy(tts.IsTransient)
	}
	if policy.Retryable == nil {
		policy.Retryable = tts.IsTransient
	}

	return &Orchestrator{
		session:     session,
		policy:      policy,
		concurrency: cfg.Concurrency,
		metrics:     cfg.Metrics,
	}
}

// Generate synthesizes one block and commits its audio. Starting a new
// generation for a block cancels the one in flight; only the newest result
// is stored. The returned error is also recorded on the block's entry.
func (o *Orchestrator) Generate(ctx context.Context, block TextBlock) error {
	_, index, err := o.session.Block(block.ID)
	if err != nil {
		return err
	}

	store := o.session.Store()
	runCtx, gen := store.begin(ctx, block.ID)
	publish(o.session.bus, pipeline.EventBlockStarted, BlockEvent{BlockID: block.ID, Index: index})

	entry, err := o.run(runCtx, block, index)
	entry.UpdatedAt = time.Now()
	entry.Err = err

	if !store.commit(block.ID, gen, entry) {
		log.Printf("[Orchestrator] block %d superseded, result dropped", index+1)
		return fmt.Errorf("block %d: %w", index+1, ErrSuperseded)
	}

	o.metrics.ObserveBlock(err == nil)
	evt := BlockEvent{BlockID: block.ID, Index: index, Attempts: entry.Attempts, Err: err}
	if err != nil {
		log.Printf("[Orchestrator] block %d failed after %d attempts: %v", index+1, entry.Attempts, err)
		if tts.IsCredential(err) {
			o.session.reportGlobal(err)
		}
		publish(o.session.bus, pipeline.EventBlockFailed, evt)
		return err
	}

	publish(o.session.bus, pipeline.EventBlockCompleted, evt)
	return nil
}

func (o *Orchestrator) run(ctx context.Context, block TextBlock, index int) (GeneratedAudio, error) {
	if block.Text == "" {
		return GeneratedAudio{}, ErrEmptyText
	}
	voice, ok := o.session.catalog.Lookup(block.VoiceID)
	if !ok {
		return GeneratedAudio{}, fmt.Errorf("voice %q: %w", block.VoiceID, ErrUnknownVoice)
	}
	provider, err := o.session.Provider()
	if err != nil {
		return GeneratedAudio{}, err
	}

	req := &tts.SynthesizeRequest{
		Text:       block.Text,
		Voice:      voice.SynthesisVoice,
		TonePrefix: catalog.TonePrefix(block.Tone),
	}

	policy := o.policy
	policy.OnRetry = func(err error, wait time.Duration) {
		o.metrics.ObserveRetry()
		publish(o.session.bus, pipeline.EventBlockRetrying, BlockEvent{BlockID: block.ID, Index: index, Err: err})
	}

	var resp *tts.SynthesizeResponse
	attempt := 0
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		attempt++
		ctx, span := trace.InstrumentTTSRequest(ctx, provider.Name(), voice.SynthesisVoice, block.Tone, block.Text, attempt)
		span.SetAttributes(trace.BlockAttrs(block.ID, index)...)
		start := time.Now()
		r, err := provider.Synthesize(ctx, req)
		o.metrics.ObserveAttempt(provider.Name(), time.Since(start))
		trace.EndSpan(span, err)
		if err != nil {
			o.metrics.ObserveFailure(failureKind(err))
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return GeneratedAudio{Attempts: attempts}, err
	}

	_, span := trace.InstrumentAudioDecode(ctx, resp.AudioFormat.SampleRate, resp.AudioFormat.Channels, len(resp.AudioData))
	wav, err := playable(resp)
	trace.EndSpan(span, err)
	if err != nil {
		return GeneratedAudio{Attempts: attempts}, err
	}

	h, err := o.session.Store().Handles().Put(export.BlockFileName(index), wav)
	if err != nil {
		return GeneratedAudio{Attempts: attempts}, fmt.Errorf("store audio: %w", err)
	}

	return GeneratedAudio{Handle: h, Attempts: attempts}, nil
}

// GenerateAll generates every block concurrently and waits for all of them.
// A failing block never stops its siblings; per-block outcomes are in the
// store and summarized in the report.
func (o *Orchestrator) GenerateAll(ctx context.Context, blocks []TextBlock) BatchReport {
	ctx, span := trace.InstrumentBatch(ctx, len(blocks))
	defer span.End()

	start := time.Now()
	errs := make([]error, len(blocks))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, b := range blocks {
		i, b := i, b
		g.Go(func() error {
			errs[i] = o.Generate(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{
		Total:    len(blocks),
		Errors:   make(map[string]error),
		Duration: time.Since(start),
	}
	for i, err := range errs {
		if err != nil {
			report.Failed++
			report.Errors[blocks[i].ID] = err
		} else {
			report.Succeeded++
		}
	}

	span.SetAttributes(trace.BatchResultAttrs(report.Succeeded, report.Failed)...)
	log.Print(trace.LogWithTrace(ctx, fmt.Sprintf("[Orchestrator] batch done: %d ok, %d failed in %s",
		report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))))
	publish(o.session.bus, pipeline.EventBatchCompleted, report)
	return report
}

func failureKind(err error) string {
	switch {
	case tts.IsTransient(err):
		return metrics.KindTransient
	case tts.IsCredential(err):
		return metrics.KindCredential
	case errors.Is(err, tts.ErrMalformedResponse):
		return metrics.KindMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.KindCancelled
	}
	return metrics.KindFatal
}
