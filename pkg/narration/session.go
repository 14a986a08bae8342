package narration

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/realtime-ai/narrator/pkg/catalog"
	"github.com/realtime-ai/narrator/pkg/pipeline"
	"github.com/realtime-ai/narrator/pkg/segmenter"
	"github.com/realtime-ai/narrator/pkg/storage"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// SessionConfig holds the session's collaborators and block defaults.
// Zero values select the built-in catalog, an in-memory handle store, the
// default voice and tone, and the maximum block length.
type SessionConfig struct {
	Factory        tts.Factory
	Credential     string
	Catalog        *catalog.Catalog
	Handles        storage.Store
	Bus            pipeline.Bus
	DefaultVoiceID string
	DefaultTone    string
	MaxBlockLength int
}

// Session is the process-wide narration context: the current blocks, the
// API credential with its provider, generated audio and voice previews.
type Session struct {
	factory tts.Factory
	catalog *catalog.Catalog
	bus     pipeline.Bus
	store   *AudioStore
	preview *previewCache

	defaultVoice string
	defaultTone  string

	mu         sync.RWMutex
	blocks     []TextBlock
	bound      int
	credential string
	provider   tts.Provider
	globalErr  error
}

// NewSession creates a session. A missing or rejected credential is not an
// error here; it surfaces through GlobalError and per-block failures.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("session needs a provider factory")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Handles == nil {
		cfg.Handles = storage.NewMemoryStore()
	}
	if cfg.DefaultVoiceID == "" {
		cfg.DefaultVoiceID = catalog.DefaultVoiceID
	}
	if cfg.DefaultTone == "" {
		cfg.DefaultTone = catalog.DefaultTone
	}
	if cfg.MaxBlockLength == 0 {
		cfg.MaxBlockLength = segmenter.DefaultBound
	}
	if _, ok := cfg.Catalog.Lookup(cfg.DefaultVoiceID); !ok {
		return nil, fmt.Errorf("default voice %q: %w", cfg.DefaultVoiceID, ErrUnknownVoice)
	}
	if _, ok := catalog.LookupTone(cfg.DefaultTone); !ok {
		return nil, fmt.Errorf("default tone %q: %w", cfg.DefaultTone, ErrUnknownTone)
	}

	s := &Session{
		factory:      cfg.Factory,
		catalog:      cfg.Catalog,
		bus:          cfg.Bus,
		store:        NewAudioStore(cfg.Handles),
		preview:      newPreviewCache(),
		defaultVoice: cfg.DefaultVoiceID,
		defaultTone:  cfg.DefaultTone,
		bound:        segmenter.ClampBound(cfg.MaxBlockLength),
	}
	s.applyCredential(cfg.Credential)
	return s, nil
}

// Catalog returns the voice catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Store returns the generated audio store.
func (s *Session) Store() *AudioStore {
	return s.store
}

// Bus returns the event bus, which may be nil.
func (s *Session) Bus() pipeline.Bus {
	return s.bus
}

// SetMaxBlockLength clamps and stores the bound used by NewBlocks.
func (s *Session) SetMaxBlockLength(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bound = segmenter.ClampBound(n)
	return s.bound
}

// NewBlocks segments script into fresh blocks with the default voice and
// tone. Existing blocks are discarded and all their audio is released.
func (s *Session) NewBlocks(script string) ([]TextBlock, error) {
	s.mu.RLock()
	bound := s.bound
	s.mu.RUnlock()

	texts, err := segmenter.Split(script, bound)
	if err != nil {
		return nil, err
	}

	blocks := make([]TextBlock, len(texts))
	for i, text := range texts {
		blocks[i] = TextBlock{
			ID:      uuid.NewString(),
			Text:    text,
			VoiceID: s.defaultVoice,
			Tone:    s.defaultTone,
		}
	}

	s.store.Reset()

	s.mu.Lock()
	s.blocks = blocks
	s.mu.Unlock()

	log.Printf("[Session] segmented script into %d blocks (bound %d)", len(blocks), bound)
	return s.Blocks(), nil
}

// Blocks returns a copy of the current blocks in order.
func (s *Session) Blocks() []TextBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TextBlock, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Block returns the block with id and its position.
func (s *Session) Block(id string) (TextBlock, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, b := range s.blocks {
		if b.ID == id {
			return b, i, nil
		}
	}
	return TextBlock{}, -1, fmt.Errorf("block %s: %w", id, ErrUnknownBlock)
}

// UpdateBlock edits a block. Generated audio is kept until the block is
// regenerated.
func (s *Session) UpdateBlock(id, text, voiceID, tone string) error {
	if _, ok := s.catalog.Lookup(voiceID); !ok {
		return fmt.Errorf("voice %q: %w", voiceID, ErrUnknownVoice)
	}
	if _, ok := catalog.LookupTone(tone); !ok {
		return fmt.Errorf("tone %q: %w", tone, ErrUnknownTone)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks[i].Text = text
			s.blocks[i].VoiceID = voiceID
			s.blocks[i].Tone = tone
			return nil
		}
	}
	return fmt.Errorf("block %s: %w", id, ErrUnknownBlock)
}

// Audio returns the generation state of a block.
func (s *Session) Audio(id string) (GeneratedAudio, bool) {
	return s.store.Get(id)
}

// SetCredential replaces the API credential and rebuilds the provider. A
// rejected credential is returned and also recorded as the global error.
func (s *Session) SetCredential(credential string) error {
	return s.applyCredential(credential)
}

func (s *Session) applyCredential(credential string) error {
	provider, err := s.factory(credential)

	s.mu.Lock()
	s.credential = credential
	s.provider = provider
	if err == nil {
		s.globalErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.reportGlobal(fmt.Errorf("configure provider: %w", err))
		return err
	}
	log.Printf("[Session] provider %s ready", provider.Name())
	return nil
}

// Provider returns the current speech provider.
func (s *Session) Provider() (tts.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.provider == nil {
		return nil, fmt.Errorf("no provider configured: %w", tts.ErrInvalidCredential)
	}
	return s.provider, nil
}

// GlobalError returns the last session-wide failure, or nil.
func (s *Session) GlobalError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalErr
}

// ClearGlobalError resets the session-wide failure.
func (s *Session) ClearGlobalError() {
	s.mu.Lock()
	s.globalErr = nil
	s.mu.Unlock()
}

func (s *Session) reportGlobal(err error) {
	s.mu.Lock()
	s.globalErr = err
	s.mu.Unlock()

	log.Printf("[Session] %v", err)
	publish(s.bus, pipeline.EventError, err)
}

// Close cancels running generations and releases every handle the session
// holds, previews included.
func (s *Session) Close() {
	s.store.Reset()
	s.preview.reset(s.store.Handles())
}

func publish(bus pipeline.Bus, t pipeline.EventType, payload interface{}) {
	if bus == nil {
		return
	}
	bus.Publish(pipeline.NewEvent(t, payload))
}
