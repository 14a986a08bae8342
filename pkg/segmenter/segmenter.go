// Package segmenter splits a long narration script into bounded blocks.
//
// Blocks are cut at the last sentence boundary that fits the bound, falling
// back to the last space and finally to a hard cut. Lengths are counted in
// characters (runes), so multi-byte scripts get the same bound as ASCII ones.
//
// Usage:
//
//	blocks, err := segmenter.Split(script, segmenter.ClampBound(limit))
package segmenter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// MinBound is the smallest accepted block length.
	MinBound = 10
	// MaxBound is the largest accepted block length.
	MaxBound = 5000
	// DefaultBound is the bound used when none is configured.
	DefaultBound = 5000
)

// sentenceEnders are the marks a block may end on, highest priority cut.
var sentenceEnders = []rune{'.', '?', '!', '\n'}

// ClampBound clamps n into [MinBound, MaxBound].
func ClampBound(n int) int {
	if n < MinBound {
		return MinBound
	}
	if n > MaxBound {
		return MaxBound
	}
	return n
}

// ParseBound parses a user supplied bound. Non-numeric input maps to MinBound.
func ParseBound(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return MinBound
	}
	return ClampBound(n)
}

// Split cuts script into blocks of at most maxBlockLength characters.
// The bound must already be clamped; values outside [MinBound, MaxBound]
// return ErrInvalidBound. Blank scripts produce no blocks.
func Split(script string, maxBlockLength int) ([]string, error) {
	if maxBlockLength < MinBound || maxBlockLength > MaxBound {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBound, maxBlockLength, MinBound, MaxBound)
	}

	var blocks []string
	rest := trimRunes([]rune(script))

	for len(rest) > 0 {
		if len(rest) <= maxBlockLength {
			blocks = append(blocks, string(rest))
			break
		}

		cut := cutPoint(rest[:maxBlockLength+1], maxBlockLength)

		if chunk := trimRunes(rest[:cut]); len(chunk) > 0 {
			blocks = append(blocks, string(chunk))
		}
		rest = trimRunes(rest[cut:])
	}

	return blocks, nil
}

// cutPoint picks where to end the next block inside window. The returned
// index is exclusive: the block is window[:cut].
func cutPoint(window []rune, maxBlockLength int) int {
	pos := -1
	for _, mark := range sentenceEnders {
		scope := window
		if !unicode.IsSpace(mark) {
			// A visible mark is kept in the block, so it must fall inside
			// the bound. Whitespace at the lookahead index is trimmed away.
			scope = window[:maxBlockLength]
		}
		if i := lastIndex(scope, mark); i > pos {
			pos = i
		}
	}

	if pos == -1 {
		pos = lastIndex(window, ' ')
	}

	// No natural break, or the only one sits at the very start.
	if pos <= 0 {
		return maxBlockLength
	}
	return pos + 1
}

func lastIndex(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func trimRunes(rs []rune) []rune {
	start, end := 0, len(rs)
	for start < end && unicode.IsSpace(rs[start]) {
		start++
	}
	for end > start && unicode.IsSpace(rs[end-1]) {
		end--
	}
	return rs[start:end]
}
