// Package lang holds the pure text classifiers used by the chat pipeline:
// language/script detection and greeting detection. Behavior is exactly
// the listed pattern sets; there is no configuration.
package lang

import (
	"strings"
	"unicode"
)

type Detection struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

const (
	LanguageEnglish  = "english"
	LanguageHindi    = "hindi"
	LanguageHinglish = "hinglish"

	ScriptLatin      = "latin"
	ScriptDevanagari = "devanagari"
)

// hinglishWords are romanized Hindi tokens common enough to flag a Latin
// script message as Hinglish.
var hinglishWords = map[string]struct{}{
	"kya": {}, "kyun": {}, "kaise": {}, "kaisa": {}, "kaisi": {}, "kab": {},
	"kahan": {}, "kaun": {}, "hai": {}, "hain": {}, "ho": {}, "hoon": {},
	"haal": {}, "mera": {}, "meri": {}, "mere": {}, "tera": {}, "teri": {},
	"tum": {}, "tumhara": {}, "aap": {}, "aapka": {}, "main": {}, "mujhe": {},
	"nahi": {}, "nahin": {}, "acha": {}, "accha": {}, "theek": {}, "thik": {},
	"bahut": {}, "bohot": {}, "kitna": {}, "kitni": {}, "batao": {}, "bolo": {},
	"shaadi": {}, "naukri": {}, "paisa": {}, "kismat": {}, "bhagya": {},
	"kundli": {}, "rashi": {}, "grah": {}, "janam": {},
}

// Detect classifies text as English, Hindi (Devanagari) or Hinglish
// (Hindi vocabulary in Latin script).
func Detect(text string) Detection {
	if containsDevanagari(text) {
		return Detection{Language: LanguageHindi, Script: ScriptDevanagari}
	}
	if isHinglish(text) {
		return Detection{Language: LanguageHinglish, Script: ScriptLatin}
	}
	return Detection{Language: LanguageEnglish, Script: ScriptLatin}
}

func containsDevanagari(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}

func isHinglish(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return false
	}
	hits := 0
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if _, ok := hinglishWords[w]; ok {
			hits++
		}
	}
	// One romanized Hindi word in a short message, or two anywhere,
	// is enough to switch register.
	if len(words) <= 4 {
		return hits >= 1
	}
	return hits >= 2
}

var greetings = []string{
	"hi", "hii", "hiii", "hello", "helo", "hey", "heya", "yo",
	"namaste", "namaskar", "pranam", "salaam", "hola",
	"good morning", "good afternoon", "good evening", "good night",
	"sup", "wassup", "whats up", "what's up", "how are you", "kaise ho",
	"kya haal", "ram ram", "jai shree ram",
}

var questionWords = []string{
	"what", "why", "how", "when", "where", "who", "which", "whose",
	"can", "could", "should", "will", "would", "is", "are", "do", "does",
	"kya", "kyun", "kaise", "kab", "kahan", "kaun", "kitna", "kitni",
}

// IsGreetingOrNonQuestion reports whether a message is a plain greeting
// rather than a question that needs a full model response. Greetings
// short-circuit to the character's intro message.
func IsGreetingOrNonQuestion(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	if strings.ContainsAny(t, "?？") {
		return false
	}

	stripped := strings.TrimFunc(t, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
	// Conversational openers like "how are you" stay greetings even
	// though they start with a question word.
	for _, g := range greetings {
		if stripped == g || strings.HasPrefix(stripped, g+" ") {
			return true
		}
	}

	first := stripped
	if i := strings.IndexFunc(stripped, unicode.IsSpace); i > 0 {
		first = stripped[:i]
	}
	for _, q := range questionWords {
		if first == q {
			return false
		}
	}

	// Short acknowledgements ("ok", "thanks yaar") count as non-questions.
	return len(strings.Fields(stripped)) <= 2
}
