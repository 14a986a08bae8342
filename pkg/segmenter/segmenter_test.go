package segmenter

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSplit_Basic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		bound    int
		expected []string
	}{
		{
			name:     "fits whole",
			input:    "  Hello world.  ",
			bound:    50,
			expected: []string{"Hello world."},
		},
		{
			name:     "cut after rightmost sentence end",
			input:    "One. Two? Three! Four and more words",
			bound:    20,
			expected: []string{"One. Two? Three!", "Four and more words"},
		},
		{
			name:     "newline counts as sentence end",
			input:    "first line\nsecond line is long",
			bound:    15,
			expected: []string{"first line", "second line is", "long"},
		},
		{
			name:     "falls back to last space",
			input:    "alpha beta gamma delta",
			bound:    12,
			expected: []string{"alpha beta", "gamma delta"},
		},
		{
			name:     "hard cut without any break",
			input:    "abcdefghijklmnopqrstuvwxy",
			bound:    10,
			expected: []string{"abcdefghij", "klmnopqrst", "uvwxy"},
		},
		{
			name:     "break at index zero forces hard cut",
			input:    ".abcdefghijklmno",
			bound:    10,
			expected: []string{".abcdefghi", "jklmno"},
		},
		{
			name:     "window includes one lookahead character",
			input:    "abcdefghi. next part",
			bound:    10,
			expected: []string{"abcdefghi.", "next part"},
		},
		{
			name:     "mark at lookahead index stays out of the block",
			input:    "abcdefghij. rest of text",
			bound:    10,
			expected: []string{"abcdefghij", ". rest of", "text"},
		},
		{
			name:     "newline at lookahead index is a break",
			input:    "abcdefghij\nrest of it",
			bound:    10,
			expected: []string{"abcdefghij", "rest of it"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input, tt.bound)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t \n"} {
		got, err := Split(in, 100)
		require.NoError(t, err)
		assert.Empty(t, got, "input %q", in)
	}
}

func TestSplit_InvalidBound(t *testing.T) {
	for _, b := range []int{-1, 0, 9, 5001} {
		_, err := Split("some text", b)
		assert.ErrorIs(t, err, ErrInvalidBound, "bound %d", b)
	}
}

func TestSplit_NoSpacesHardCutCount(t *testing.T) {
	for _, tc := range []struct{ n, bound int }{{25, 10}, {30, 10}, {10001, 5000}, {99, 11}} {
		in := strings.Repeat("z", tc.n)
		got, err := Split(in, tc.bound)
		require.NoError(t, err)
		want := (tc.n + tc.bound - 1) / tc.bound
		assert.Len(t, got, want, "n=%d bound=%d", tc.n, tc.bound)
		for i, c := range got[:len(got)-1] {
			assert.Equal(t, tc.bound, utf8.RuneCountInString(c), "chunk %d", i)
		}
	}
}

func TestSplit_LongScriptAtSentenceBoundaries(t *testing.T) {
	sentence := strings.Repeat("x", 48) + ". "
	script := strings.Repeat(sentence, 240)
	require.Equal(t, 12000, len(script))

	got, err := Split(script, 5000)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, c := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 5000)
		assert.True(t, strings.HasSuffix(c, "."), "chunk should end at a sentence boundary")
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	script := strings.Repeat("ção ", 10)
	got, err := Split(script, 12)
	require.NoError(t, err)
	for _, c := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 12)
	}
	assert.Equal(t, collapse(script), collapse(strings.Join(got, " ")))
}

func TestSplit_Properties(t *testing.T) {
	words := []string{"lorem", "ipsum.", "dolor?", "sit", "amet!", "\n", "consectetur", "adipiscing", "elit", "supercalifragilisticexpialidocious"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		n := rng.Intn(400)
		for j := 0; j < n; j++ {
			sb.WriteString(words[rng.Intn(len(words))])
			sb.WriteString(strings.Repeat(" ", 1+rng.Intn(2)))
		}
		script := sb.String()
		bound := MinBound + rng.Intn(90)

		got, err := Split(script, bound)
		require.NoError(t, err)

		if strings.TrimSpace(script) != "" {
			assert.NotEmpty(t, got)
		}
		for _, c := range got {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), bound)
			assert.NotEmpty(t, c)
		}
		// Hard cuts may split a word, so compare with all whitespace removed.
		strip := func(s string) string { return strings.Join(strings.Fields(s), "") }
		assert.Equal(t, strip(script), strip(strings.Join(got, "")))
	}
}

func TestClampAndParseBound(t *testing.T) {
	assert.Equal(t, MinBound, ClampBound(3))
	assert.Equal(t, MaxBound, ClampBound(99999))
	assert.Equal(t, 250, ClampBound(250))

	assert.Equal(t, MinBound, ParseBound("abc"))
	assert.Equal(t, MinBound, ParseBound(""))
	assert.Equal(t, 1200, ParseBound(" 1200 "))
	assert.Equal(t, MaxBound, ParseBound("7000"))
}
