// Package tokens estimates language-model token usage for display.
// The estimate is an offline approximation and is not tied to any real tokenizer.
package tokens

import (
	"math"
	"unicode/utf16"
)

const (
	// cjkWeight is the approximate number of tokens per CJK ideograph
	cjkWeight = 0.6

	// otherWeight covers latin letters, digits, punctuation and whitespace
	otherWeight = 0.3

	cjkFirst = '\u4e00'
	cjkLast  = '\u9fa5'
)

// Label accompanies every estimate shown to a user.
const Label = "estimated, not a real tokenizer"

// Counts is the character classification behind an estimate.
type Counts struct {
	CJK    int
	Other  int
	Tokens int
}

// Estimate returns ceil(0.6*cjk + 0.3*other) for text. Empty text yields 0.
func Estimate(text string) int {
	return Breakdown(text).Tokens
}

// Breakdown classifies every character of text and computes the estimate.
// Lengths are counted in UTF-16 code units, so a character outside the
// basic multilingual plane contributes two "other" units.
func Breakdown(text string) Counts {
	if text == "" {
		return Counts{}
	}

	var c Counts
	for _, r := range text {
		if r >= cjkFirst && r <= cjkLast {
			c.CJK++
			continue
		}
		if n := utf16.RuneLen(r); n > 0 {
			c.Other += n
		} else {
			c.Other++
		}
	}

	c.Tokens = int(math.Ceil(float64(c.CJK)*cjkWeight + float64(c.Other)*otherWeight))
	return c
}
