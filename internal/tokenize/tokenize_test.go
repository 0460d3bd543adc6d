package tokenize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"basic", "The Cat sat.", []string{"the", "cat", "sat"}},
		{"apostrophe splits", "It's fine", []string{"it", "s", "fine"}},
		{"digits dropped", "In 2024 we shipped v2 and H2O", []string{"in", "we", "shipped", "and"}},
		{"punctuation only", "--- !!! ...", []string{}},
		{"unicode letters", "Café résumé naïve", []string{"café", "résumé", "naïve"}},
		{"hyphen splits", "well-known", []string{"well", "known"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Words(tt.in)); diff != "" {
				t.Fatalf("Words(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTokenizeNormalizesComposition(t *testing.T) {
	composed := Tokenize("caf\u00e9")
	decomposed := Tokenize("cafe\u0301")
	if diff := cmp.Diff(composed.Words, decomposed.Words); diff != "" {
		t.Fatalf("NFC mismatch (-composed +decomposed):\n%s", diff)
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "Hello world", []string{"Hello world"}},
		{"terminal marks", "One. Two! Three? Four", []string{"One.", "Two!", "Three?", "Four"}},
		{"cluster", "Really?! Yes.", []string{"Really?!", "Yes."}},
		{"lowercase follower", "It costs 3.5 dollars. ok then", []string{"It costs 3.5 dollars. ok then"}},
		{"abbreviation", "Mr. Smith met Dr. Jones. They talked.", []string{"Mr. Smith met Dr. Jones.", "They talked."}},
		{"latin abbreviation", "Use tools, e.g. Linters. Done.", []string{"Use tools, e.g. Linters.", "Done."}},
		{"ellipsis", "Wait... Then go. Or… Maybe not", []string{"Wait...", "Then go.", "Or…", "Maybe not"}},
		{"blank line", "Heading\n\nbody text here", []string{"Heading", "body text here"}},
		{"quote closes", `He said "stop." Then left.`, []string{`He said "stop."`, "Then left."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Sentences(tt.in)); diff != "" {
				t.Fatalf("Sentences(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestCorpusKeepsDocuments(t *testing.T) {
	words, sents := Corpus([]string{"A b.", "", "C d. E f."})
	if len(words) != 3 || len(sents) != 3 {
		t.Fatalf("expected 3 documents, got %d/%d", len(words), len(sents))
	}
	if len(words[1]) != 0 || len(sents[1]) != 0 {
		t.Fatalf("empty document should tokenize to nothing, got %v %v", words[1], sents[1])
	}
	if len(sents[2]) != 2 {
		t.Fatalf("expected 2 sentences, got %v", sents[2])
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	in := "Furthermore, it's robust. Moreover — it scales!"
	a, b := Tokenize(in), Tokenize(in)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("non-deterministic output:\n%s", diff)
	}
}
