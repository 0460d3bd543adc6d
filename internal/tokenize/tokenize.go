// Package tokenize splits prose into sentences and lowercase word tokens.
package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Stream is the token view of one document.
type Stream struct {
	Words     []string
	Sentences []string
}

func Tokenize(text string) Stream {
	text = norm.NFC.String(text)
	return Stream{
		Words:     Words(text),
		Sentences: Sentences(text),
	}
}

// Corpus tokenizes every document, keeping document boundaries.
func Corpus(texts []string) (words [][]string, sentences [][]string) {
	words = make([][]string, len(texts))
	sentences = make([][]string, len(texts))
	for i, t := range texts {
		s := Tokenize(t)
		words[i] = s.Words
		sentences[i] = s.Sentences
	}
	return words, sentences
}

// Words returns the maximal runs of letters, lowercased. A run touching
// a digit is mixed alphanumeric and is dropped along with the digits.
func Words(text string) []string {
	words := []string{}
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			i++
			continue
		}
		start := i
		mixed := false
		for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || unicode.Is(unicode.Mn, runes[i])) {
			if unicode.IsDigit(runes[i]) {
				mixed = true
			}
			i++
		}
		if mixed {
			continue
		}
		words = append(words, strings.ToLower(string(runes[start:i])))
	}
	return words
}
