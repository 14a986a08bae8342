package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 37, c.Len())
	assert.Len(t, c.ByGender(Female), 17)
	assert.Len(t, c.ByGender(Male), 20)

	v, ok := c.Lookup(DefaultVoiceID)
	require.True(t, ok)
	assert.Equal(t, "Puck", v.SynthesisVoice)
	assert.Equal(t, Male, v.Gender)

	assert.Equal(t, DefaultVoiceID, c.Voices()[0].ID)
}

func TestDefaultCatalog_SynthesisVoices(t *testing.T) {
	tests := map[string]string{
		"f-1":  "Kore",
		"f-2":  "Charon",
		"f-14": "Kore",
		"f-16": "Charon",
		"m-1":  "Puck",
		"m-3":  "Zephyr",
		"m-6":  "Fenrir",
		"m-13": "Puck",
		"m-19": "Puck",
	}
	for id, want := range tests {
		v, ok := Default().Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, want, v.SynthesisVoice, id)
	}

	assert.Equal(t, []string{"Charon", "Fenrir", "Kore", "Puck", "Zephyr"}, Default().SynthesisVoices())
}

func TestCatalog_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range Default().Voices() {
		assert.False(t, seen[v.ID], "duplicate id %s", v.ID)
		seen[v.ID] = true
		assert.NotEmpty(t, v.DisplayName)
		assert.NotEmpty(t, v.DisplayColor)
	}
}

func TestCatalog_New(t *testing.T) {
	c := New([]Voice{
		{ID: "a", SynthesisVoice: "Kore"},
		{ID: "b", SynthesisVoice: "Puck"},
		{ID: "a", SynthesisVoice: "Fenrir"},
	})
	assert.Equal(t, 2, c.Len())

	v, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Kore", v.SynthesisVoice)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	voices := c.Voices()
	voices[0].ID = "changed"
	_, ok = c.Lookup("a")
	assert.True(t, ok)
}

func TestTones(t *testing.T) {
	all := Tones()
	require.Len(t, all, 7)
	assert.Equal(t, ToneNormal, all[0].Key)

	assert.Equal(t, "", TonePrefix(ToneNormal))
	assert.Equal(t, "", TonePrefix("unknown"))
	for _, tone := range all[1:] {
		assert.NotEmpty(t, tone.Prefix, tone.Key)
		assert.Equal(t, tone.Prefix, TonePrefix(tone.Key))
	}

	_, ok := LookupTone(ToneSuspense)
	assert.True(t, ok)
	_, ok = LookupTone("whisper")
	assert.False(t, ok)
}
