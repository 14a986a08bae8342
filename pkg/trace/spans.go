package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names
const (
	SpanTTSRequest     = "tts.request"
	SpanAudioDecode    = "audio.decode"
	SpanAudioMerge     = "audio.merge"
	SpanNarrationBatch = "narration.batch"
	SpanPromptRequest  = "prompts.request"
)

// InstrumentTTSRequest creates a span for one synthesis attempt
func InstrumentTTSRequest(ctx context.Context, provider, voice, tone, text string, attempt int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanTTSRequest,
		trace.WithAttributes(
			attribute.String(AttrTTSProvider, provider),
			attribute.String(AttrTTSVoice, voice),
			attribute.String(AttrTTSTone, tone),
			attribute.Int(AttrTextLength, len([]rune(text))),
			attribute.Int(AttrAttempt, attempt),
		),
	)
}

// InstrumentAudioDecode creates a span for PCM decode plus WAV packaging
func InstrumentAudioDecode(ctx context.Context, sampleRate, channels, dataSize int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAudioDecode,
		trace.WithAttributes(AudioAttrs(sampleRate, channels, dataSize)...),
	)
}

// InstrumentAudioMerge creates a span for the merged export
func InstrumentAudioMerge(ctx context.Context, blocks int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAudioMerge,
		trace.WithAttributes(attribute.Int(AttrBlockCount, blocks)),
	)
}

// InstrumentBatch creates a span covering a generate-all run
func InstrumentBatch(ctx context.Context, blocks int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanNarrationBatch,
		trace.WithAttributes(attribute.Int(AttrBlockCount, blocks)),
	)
}

// InstrumentPromptRequest creates a span for one image prompt request
func InstrumentPromptRequest(ctx context.Context, model string, paragraph int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanPromptRequest,
		trace.WithAttributes(
			attribute.String(AttrLLMModel, model),
			attribute.Int(AttrBlockIndex, paragraph),
		),
	)
}
