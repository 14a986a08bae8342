// Package catalog holds the fixed set of narrator voices and tone presets.
package catalog

import (
	"sort"
)

// Gender of a catalog voice.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// DefaultVoiceID is the voice assigned to new blocks.
const DefaultVoiceID = "m-alex"

// Voice is one selectable narrator. SynthesisVoice is the name sent to the
// speech service; several catalog voices share one.
type Voice struct {
	ID             string
	DisplayName    string
	Gender         Gender
	Description    string
	SynthesisVoice string
	DisplayColor   string
}

// Catalog is an immutable, ordered voice list with lookup by id.
type Catalog struct {
	voices []Voice
	byID   map[string]int
}

// New builds a catalog from voices. Later duplicates of an id are ignored.
func New(voices []Voice) *Catalog {
	c := &Catalog{
		voices: make([]Voice, 0, len(voices)),
		byID:   make(map[string]int, len(voices)),
	}
	for _, v := range voices {
		if _, dup := c.byID[v.ID]; dup {
			continue
		}
		c.byID[v.ID] = len(c.voices)
		c.voices = append(c.voices, v)
	}
	return c
}

// Default returns the built-in narrator catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Lookup returns the voice with id.
func (c *Catalog) Lookup(id string) (Voice, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Voice{}, false
	}
	return c.voices[i], true
}

// Voices returns all voices in catalog order.
func (c *Catalog) Voices() []Voice {
	out := make([]Voice, len(c.voices))
	copy(out, c.voices)
	return out
}

// ByGender returns the voices of one gender in catalog order.
func (c *Catalog) ByGender(g Gender) []Voice {
	var out []Voice
	for _, v := range c.voices {
		if v.Gender == g {
			out = append(out, v)
		}
	}
	return out
}

// SynthesisVoices returns the distinct service voice names, sorted.
func (c *Catalog) SynthesisVoices() []string {
	seen := make(map[string]struct{})
	for _, v := range c.voices {
		seen[v.SynthesisVoice] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of voices.
func (c *Catalog) Len() int {
	return len(c.voices)
}
