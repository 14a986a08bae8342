package trace

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on narrator spans
const (
	AttrBlockID    = "block.id"
	AttrBlockIndex = "block.index"
	AttrBlockCount = "block.count"
	AttrTextLength = "text.length"
	AttrAttempt    = "retry.attempt"

	AttrAudioSampleRate = "audio.sample_rate"
	AttrAudioChannels   = "audio.channels"
	AttrAudioDataSize   = "audio.data_size"

	AttrTTSProvider = "tts.provider"
	AttrTTSVoice    = "tts.voice"
	AttrTTSTone     = "tts.tone"

	AttrLLMModel = "llm.model"

	AttrBatchSucceeded = "batch.succeeded"
	AttrBatchFailed    = "batch.failed"
)

// BlockAttrs creates attributes identifying a text block
func BlockAttrs(blockID string, index int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrBlockID, blockID),
		attribute.Int(AttrBlockIndex, index),
	}
}

// AudioAttrs creates attributes for decoded audio
func AudioAttrs(sampleRate, channels, dataSize int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrAudioSampleRate, sampleRate),
		attribute.Int(AttrAudioChannels, channels),
		attribute.Int(AttrAudioDataSize, dataSize),
	}
}

// BatchResultAttrs creates attributes summarizing a finished batch
func BatchResultAttrs(succeeded, failed int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrBatchSucceeded, succeeded),
		attribute.Int(AttrBatchFailed, failed),
	}
}
