// Package text turns raw memo text into the token stream the vectorizer counts.
package text

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes is the shortest token kept; single characters are noise.
const minTokenRunes = 2

// Tokenize lowercases doc and returns its runs of word characters that are at
// least two runes long. Word characters are letters, numbers of any kind
// (Nd, Nl, No) and underscore; combining marks split words.
func Tokenize(doc string) []string {
	lower := cases.Lower(language.Und).String(doc)

	tokens := make([]string, 0, len(lower)/4)
	start := -1
	for i, r := range lower {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, lower[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < minTokenRunes {
		return tokens
	}
	return append(tokens, tok)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
