package utils

import (
	"strings"
	"unicode"

	"github.com/aryann/difflib"
)

func TokenizeWords(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// DiffCoverage reports the fraction of source word tokens that survive in
// derived, computed with a word-level diff. 1.0 means derived covers the
// source losslessly.
func DiffCoverage(source, derived string) float64 {
	at := TokenizeWords(source)
	bt := TokenizeWords(derived)
	if len(at) == 0 {
		return 1.0
	}

	var common, left int
	for _, r := range difflib.Diff(at, bt) {
		switch r.Delta {
		case difflib.Common:
			common++
		case difflib.LeftOnly:
			left++
		}
	}
	if common+left == 0 {
		return 1.0
	}
	return float64(common) / float64(common+left)
}

var sentenceEnders = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, '।': {}, '？': {}, '！': {},
}

// SplitSentences splits text into sentences, keeping terminal punctuation
// attached. Devanagari danda (।) is a sentence ender.
func SplitSentences(text string) []string {
	var out []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if _, ok := sentenceEnders[r]; !ok {
			if r == '\n' {
				flush()
			}
			continue
		}
		// Group runs of enders ("...", "?!") into one boundary.
		if i+1 < len(runes) {
			if _, next := sentenceEnders[runes[i+1]]; next {
				continue
			}
		}
		flush()
	}
	flush()
	return out
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // symbols & pictographs
		r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // transport & map
		r >= 0x1F900 && r <= 0x1F9FF, // supplemental symbols
		r >= 0x1FA70 && r <= 0x1FAFF, // extended-A
		r >= 0x2600 && r <= 0x26FF,   // misc symbols
		r >= 0x2700 && r <= 0x27BF,   // dingbats
		r == 0x2B50, r == 0x2B55:
		return true
	}
	return false
}

// LimitEmojis keeps the first max emoji of s and drops the rest. All
// non-emoji characters are preserved in their original order.
func LimitEmojis(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))

	kept := 0
	lastEmojiKept := false
	for _, r := range s {
		if isEmoji(r) {
			if kept < max {
				kept++
				lastEmojiKept = true
				b.WriteRune(r)
			} else {
				lastEmojiKept = false
			}
			continue
		}
		// Joiners and variation selectors follow the fate of the emoji
		// they modify.
		if r == 0x200D || r == 0xFE0F {
			if lastEmojiKept {
				b.WriteRune(r)
			}
			continue
		}
		lastEmojiKept = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
