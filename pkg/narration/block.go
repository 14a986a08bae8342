// Package narration turns a script into blocks, generates speech for each
// block and exports the results.
//
// A Session owns the blocks, the API credential and the audio store. An
// Orchestrator fans synthesis out over the blocks with retry, and an
// Exporter packages finished audio as WAV, zip or MP3.
package narration

import (
	"time"

	"github.com/realtime-ai/narrator/pkg/storage"
)

// TextBlock is one segment of the script with its voice and tone.
type TextBlock struct {
	ID      string
	Text    string
	VoiceID string
	Tone    string
}

// GeneratedAudio is the latest generation state of one block. Entries are
// replaced whole, never mutated in place.
type GeneratedAudio struct {
	Handle    storage.Handle
	Loading   bool
	Err       error
	Attempts  int
	UpdatedAt time.Time
}

// Ready reports whether the entry holds playable audio.
func (a GeneratedAudio) Ready() bool {
	return !a.Loading && a.Err == nil && !a.Handle.IsZero()
}

// BlockEvent is the payload of block events on the bus.
type BlockEvent struct {
	BlockID  string
	Index    int
	Attempts int
	Err      error
}

// BatchReport summarizes a GenerateAll run.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    int
	Errors    map[string]error // by block id
	Duration  time.Duration
}
