// Package textnorm turns raw headline text into the normalized token
// sequence consumed by the vectorizer.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the space-joined normalized form of text.
// Empty, all-stopword and all-symbol input yields "".
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Tokens lowercases text, drops everything but ASCII letters and whitespace,
// splits on whitespace, removes stopwords and lemmatizes what remains
func Tokens(text string) []string {
	// cases.Caser is stateful, so each call gets its own
	lowered := cases.Lower(language.English).String(text)
	cleaned := stripNonLetters(lowered)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if IsStopword(field) {
			continue
		}
		lemma := Lemmatize(field)
		// a lemma can collapse onto a stopword ("wills" -> "will")
		if IsStopword(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	return tokens
}

// NormalizeAll normalizes every text in a corpus
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = Normalize(text)
	}
	return out
}

func stripNonLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
