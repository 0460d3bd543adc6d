package freq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNgrams(t *testing.T) {
	tests := []struct {
		words []string
		n     int
		want  []string
	}{
		{[]string{"a", "b", "c"}, 2, []string{"a b", "b c"}},
		{[]string{"a", "b", "c"}, 3, []string{"a b c"}},
		{[]string{"a", "b", "c"}, 1, []string{"a", "b", "c"}},
		{[]string{}, 1, []string{}},
		{[]string{}, 3, []string{}},
		{nil, 2, []string{}},
		{[]string{"x"}, 2, []string{}},
		{[]string{"x", "y"}, 0, []string{}},
	}
	for _, tt := range tests {
		got := Ngrams(tt.words, tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Ngrams(%v, %d) mismatch (-want +got):\n%s", tt.words, tt.n, diff)
		}
	}
}

func TestCountDoesNotCrossDocuments(t *testing.T) {
	docs := [][]string{{"a", "b"}, {"c"}, {"a", "b", "a", "b"}}

	bigrams := Count(docs, 2)
	if got := bigrams.Get("b c"); got != 0 {
		t.Fatalf("bigram crossed documents: %d", got)
	}
	if got := bigrams.Get("a b"); got != 3 {
		t.Fatalf("expected 3 'a b', got %d", got)
	}
	if bigrams.Total() != 4 {
		t.Fatalf("expected 4 bigrams, got %d", bigrams.Total())
	}
	if diff := cmp.Diff([]string{"a b", "b a"}, bigrams.Keys()); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}

	trigrams := Count(docs, 3)
	if trigrams.Total() != 2 || trigrams.Len() != 2 {
		t.Fatalf("expected 2 trigrams, got total=%d len=%d", trigrams.Total(), trigrams.Len())
	}
}

func TestUnionAndTop(t *testing.T) {
	a := CountStrings([]string{"the", "the", "so", "and"})
	b := CountStrings([]string{"but", "the"})

	if diff := cmp.Diff([]string{"and", "but", "so", "the"}, Union(a, b)); diff != "" {
		t.Fatalf("union mismatch:\n%s", diff)
	}

	want := []Entry{{Item: "the", Count: 2}, {Item: "and", Count: 1}}
	if diff := cmp.Diff(want, a.Top(2)); diff != "" {
		t.Fatalf("top mismatch:\n%s", diff)
	}

	var empty Table
	if empty.Get("x") != 0 || empty.Total() != 0 || len(empty.Keys()) != 0 {
		t.Fatal("zero table should be empty")
	}
}
