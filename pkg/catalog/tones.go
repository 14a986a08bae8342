package catalog

// Tone keys.
const (
	ToneNormal    = "normal"
	ToneHappy     = "happy"
	ToneSad       = "sad"
	ToneSuspense  = "suspense"
	ToneAngry     = "angry"
	ToneSurprised = "surprised"
	ToneNarrator  = "narrator"
)

// DefaultTone is the tone assigned to new blocks.
const DefaultTone = ToneNormal

// Tone is a delivery style. Prefix is prepended to the text sent for
// synthesis and is empty for the plain reading.
type Tone struct {
	Key    string
	Label  string
	Prefix string
}

var tones = []Tone{
	{Key: ToneNormal, Label: "Normal", Prefix: ""},
	{Key: ToneHappy, Label: "Happy", Prefix: "Say in a happy, upbeat way: "},
	{Key: ToneSad, Label: "Sad", Prefix: "Say in a sad, melancholic tone: "},
	{Key: ToneSuspense, Label: "Suspense", Prefix: "Say in a suspenseful tone, almost whispering: "},
	{Key: ToneAngry, Label: "Angry", Prefix: "Say in an angry, intense tone: "},
	{Key: ToneSurprised, Label: "Surprised", Prefix: "Say as if surprised or shocked: "},
	{Key: ToneNarrator, Label: "Narrator", Prefix: "Calm, serene narration: "},
}

// Tones returns every tone preset in display order.
func Tones() []Tone {
	out := make([]Tone, len(tones))
	copy(out, tones)
	return out
}

// LookupTone returns the preset for key.
func LookupTone(key string) (Tone, bool) {
	for _, t := range tones {
		if t.Key == key {
			return t, true
		}
	}
	return Tone{}, false
}

// TonePrefix returns the synthesis prefix for key. Unknown keys read plainly.
func TonePrefix(key string) string {
	t, _ := LookupTone(key)
	return t.Prefix
}
