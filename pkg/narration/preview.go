package narration

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/realtime-ai/narrator/pkg/audio"
	"github.com/realtime-ai/narrator/pkg/catalog"
	"github.com/realtime-ai/narrator/pkg/storage"
	"github.com/realtime-ai/narrator/pkg/tts"
)

// PreviewText is the sentence spoken by voice previews.
const PreviewText = "Hello, this is a demonstration of my voice."

// previewCache keeps one preview handle per voice id.
type previewCache struct {
	mu      sync.Mutex
	handles map[string]storage.Handle
}

func newPreviewCache() *previewCache {
	return &previewCache{handles: make(map[string]storage.Handle)}
}

func (c *previewCache) get(voiceID string) (storage.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[voiceID]
	return h, ok
}

// put stores h unless another preview won the race, in which case the
// cached handle is returned and h should be released by the caller.
func (c *previewCache) put(voiceID string, h storage.Handle) (storage.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.handles[voiceID]; ok {
		return existing, false
	}
	c.handles[voiceID] = h
	return h, true
}

func (c *previewCache) reset(handles storage.Store) {
	c.mu.Lock()
	old := c.handles
	c.handles = make(map[string]storage.Handle)
	c.mu.Unlock()

	for _, h := range old {
		if err := handles.Release(h); err != nil {
			log.Printf("[Session] failed to release preview %s: %v", h.Name, err)
		}
	}
}

// PreviewVoice returns a playable sample of a voice reading PreviewText in
// the given tone. The first successful preview per voice is cached and
// reused for later calls regardless of tone. Failures are not cached.
func (s *Session) PreviewVoice(ctx context.Context, voiceID, toneKey string) (storage.Handle, error) {
	voice, ok := s.catalog.Lookup(voiceID)
	if !ok {
		return storage.Handle{}, fmt.Errorf("voice %q: %w", voiceID, ErrUnknownVoice)
	}

	if h, ok := s.preview.get(voiceID); ok {
		return h, nil
	}

	provider, err := s.Provider()
	if err != nil {
		return storage.Handle{}, err
	}

	resp, err := provider.Synthesize(ctx, &tts.SynthesizeRequest{
		Text:       PreviewText,
		Voice:      voice.SynthesisVoice,
		TonePrefix: catalog.TonePrefix(toneKey),
	})
	if err != nil {
		log.Printf("[Session] preview for %s failed: %v", voiceID, err)
		if tts.IsCredential(err) {
			s.reportGlobal(err)
		}
		return storage.Handle{}, err
	}

	wav, err := playable(resp)
	if err != nil {
		return storage.Handle{}, err
	}

	handles := s.store.Handles()
	h, err := handles.Put(fmt.Sprintf("preview_%s.wav", voiceID), wav)
	if err != nil {
		return storage.Handle{}, fmt.Errorf("store preview: %w", err)
	}

	cached, stored := s.preview.put(voiceID, h)
	if !stored {
		if err := handles.Release(h); err != nil {
			log.Printf("[Session] failed to release duplicate preview %s: %v", h.Name, err)
		}
	}
	return cached, nil
}

// playable decodes a synthesis response into a WAV container.
func playable(resp *tts.SynthesizeResponse) ([]byte, error) {
	format := resp.AudioFormat
	if format.SampleRate == 0 {
		format.SampleRate = tts.DefaultSampleRate
	}
	if format.Channels == 0 {
		format.Channels = 1
	}

	buf, err := audio.DecodePCM16(resp.AudioData, format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("decode synthesized audio: %w", err)
	}
	return audio.EncodeWAV(buf)
}
