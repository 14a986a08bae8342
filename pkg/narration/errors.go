package narration

import "errors"

var (
	// ErrPackaging is returned when an export has nothing to package or
	// fails while packaging.
	ErrPackaging = errors.New("packaging failed")
	// ErrUnknownVoice is returned for a voice id missing from the catalog.
	ErrUnknownVoice = errors.New("unknown voice")
	// ErrUnknownTone is returned for a tone key that has no preset.
	ErrUnknownTone = errors.New("unknown tone")
	// ErrUnknownBlock is returned for a block id or index not in the session.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrEmptyText is recorded for blocks with nothing to synthesize.
	ErrEmptyText = errors.New("block text is empty")
	// ErrNoAudio is returned when a block has no finished audio.
	ErrNoAudio = errors.New("block has no audio")
	// ErrSuperseded is returned by a generation replaced by a newer one.
	ErrSuperseded = errors.New("generation superseded")
)
