package narration

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/realtime-ai/narrator/pkg/storage"
)

type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

// AudioStore maps block ids to their GeneratedAudio. It owns the handles it
// holds: replacing or removing an entry releases the superseded handle.
type AudioStore struct {
	handles storage.Store

	mu      sync.Mutex
	entries map[string]GeneratedAudio
	running map[string]inflight
	nextGen uint64
}

// NewAudioStore creates an empty store releasing handles into handles.
func NewAudioStore(handles storage.Store) *AudioStore {
	return &AudioStore{
		handles: handles,
		entries: make(map[string]GeneratedAudio),
		running: make(map[string]inflight),
	}
}

// Handles returns the backing handle store.
func (s *AudioStore) Handles() storage.Store {
	return s.handles
}

// Get returns the entry for id.
func (s *AudioStore) Get(id string) (GeneratedAudio, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

// Snapshot returns a copy of every entry.
func (s *AudioStore) Snapshot() map[string]GeneratedAudio {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]GeneratedAudio, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out
}

// Replace swaps the entry for id and releases the previous handle.
func (s *AudioStore) Replace(id string, entry GeneratedAudio) {
	s.mu.Lock()
	old, had := s.entries[id]
	s.entries[id] = entry
	s.mu.Unlock()

	if had && old.Handle.ID != entry.Handle.ID {
		s.release(old.Handle)
	}
}

// Remove drops the entry for id, cancelling any generation in flight.
func (s *AudioStore) Remove(id string) {
	s.mu.Lock()
	old, had := s.entries[id]
	delete(s.entries, id)
	if run, ok := s.running[id]; ok {
		run.cancel()
		delete(s.running, id)
	}
	s.mu.Unlock()

	if had {
		s.release(old.Handle)
	}
}

// Reset cancels every generation and releases every handle.
func (s *AudioStore) Reset() {
	s.mu.Lock()
	old := s.entries
	s.entries = make(map[string]GeneratedAudio)
	for _, run := range s.running {
		run.cancel()
	}
	s.running = make(map[string]inflight)
	s.mu.Unlock()

	for _, e := range old {
		s.release(e.Handle)
	}
}

// begin starts a generation for id. Any earlier generation for the same id
// is cancelled and can no longer commit. The entry is replaced with a
// loading placeholder.
func (s *AudioStore) begin(ctx context.Context, id string) (context.Context, uint64) {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if prev, ok := s.running[id]; ok {
		prev.cancel()
	}
	s.nextGen++
	gen := s.nextGen
	s.running[id] = inflight{gen: gen, cancel: cancel}
	old, had := s.entries[id]
	s.entries[id] = GeneratedAudio{Loading: true, UpdatedAt: time.Now()}
	s.mu.Unlock()

	if had {
		s.release(old.Handle)
	}
	return runCtx, gen
}

// commit stores entry if gen is still the latest generation for id. A
// superseded entry's handle is released instead and false is returned.
func (s *AudioStore) commit(id string, gen uint64, entry GeneratedAudio) bool {
	s.mu.Lock()
	run, ok := s.running[id]
	if !ok || run.gen != gen {
		s.mu.Unlock()
		s.release(entry.Handle)
		return false
	}
	run.cancel()
	delete(s.running, id)
	old := s.entries[id]
	s.entries[id] = entry
	s.mu.Unlock()

	if old.Handle.ID != entry.Handle.ID {
		s.release(old.Handle)
	}
	return true
}

// InFlight returns the number of generations running.
func (s *AudioStore) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

func (s *AudioStore) release(h storage.Handle) {
	if h.IsZero() || s.handles == nil {
		return
	}
	if err := s.handles.Release(h); err != nil {
		log.Printf("[AudioStore] failed to release %s: %v", h.Name, err)
	}
}
