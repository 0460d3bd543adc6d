// Package freq counts word n-grams and other items across a corpus.
package freq

import (
	"sort"
	"strings"
)

// Ngrams joins each run of n adjacent words with a single space.
func Ngrams(words []string, n int) []string {
	if n <= 0 || len(words) < n {
		return []string{}
	}
	out := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		out = append(out, strings.Join(words[i:i+n], " "))
	}
	return out
}

// Table is an immutable multiset of items.
type Table struct {
	counts map[string]int
	total  int
}

// Count builds the n-gram table of a corpus. N-grams never span two
// documents.
func Count(docs [][]string, n int) Table {
	t := Table{counts: map[string]int{}}
	for _, words := range docs {
		for _, g := range Ngrams(words, n) {
			t.counts[g]++
			t.total++
		}
	}
	return t
}

func CountStrings(items []string) Table {
	t := Table{counts: map[string]int{}}
	for _, it := range items {
		t.counts[it]++
		t.total++
	}
	return t
}

func (t Table) Get(item string) int { return t.counts[item] }

func (t Table) Total() int { return t.total }

func (t Table) Len() int { return len(t.counts) }

// Keys returns the distinct items in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Top returns up to limit items ordered by descending count, ties by
// item.
func (t Table) Top(limit int) []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for k, v := range t.counts {
		entries = append(entries, Entry{Item: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Item < entries[j].Item
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

type Entry struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Union returns the sorted vocabulary of both tables.
func Union(a, b Table) []string {
	seen := make(map[string]struct{}, len(a.counts)+len(b.counts))
	for k := range a.counts {
		seen[k] = struct{}{}
	}
	for k := range b.counts {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
