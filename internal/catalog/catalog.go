// Package catalog holds the read-only lookup tables used by marker
// extraction and document scanning: phrase groups, exclusion lists,
// hedging and transition vocabularies, formulaic openers, suggested
// alternatives and the passive-voice pattern bank.
//
// A Catalog is immutable after Load. Callers inject it into the
// extractor and scanner; Default returns the embedded tables.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

type PhraseGroup struct {
	Category string   `yaml:"category"`
	Phrases  []string `yaml:"phrases"`
}

type HedgeWord struct {
	Word  string  `yaml:"word"`
	Ratio float64 `yaml:"ratio"`
}

// Phrase is one catalogue phrase tagged with its category.
type Phrase struct {
	Text     string
	Category string
}

type Catalog struct {
	PhraseGroups      []PhraseGroup       `yaml:"phrase_groups"`
	Categories        map[string]string   `yaml:"categories"`
	Markdown          []string            `yaml:"markdown"`
	TrainingArtifacts []string            `yaml:"training_artifacts"`
	TechnicalTerms    []string            `yaml:"technical_terms"`
	ProgrammingTerms  []string            `yaml:"programming_terms"`
	TechnicalPhrases  []string            `yaml:"technical_phrases"`
	ScanHedging       []HedgeWord         `yaml:"scan_hedging"`
	HedgingWords      []string            `yaml:"hedging_words"`
	HedgingPhrases    []string            `yaml:"hedging_phrases"`
	FormalTransitions []string            `yaml:"formal_transitions"`
	CasualTransitions []string            `yaml:"casual_transitions"`
	FormulaicOpeners  []string            `yaml:"formulaic_openers"`
	PassivePatterns   []string            `yaml:"passive_patterns"`
	Alternatives      map[string][]string `yaml:"alternatives"`

	passive   []*regexp.Regexp
	always    map[string]struct{}
	technical map[string]struct{}
	hedging   map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalogue. It panics if the embedded
// file is broken, which can only happen at build time.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog.yaml: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, g := range c.PhraseGroups {
		if strings.TrimSpace(g.Category) == "" {
			return nil, fmt.Errorf("phrase group without category")
		}
	}
	for _, p := range c.PassivePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile passive pattern %q: %w", p, err)
		}
		c.passive = append(c.passive, re)
	}

	c.always = toSet(c.Markdown, c.TrainingArtifacts)
	c.technical = toSet(c.TechnicalTerms, c.ProgrammingTerms, c.TechnicalPhrases)
	c.hedging = toSet(c.HedgingWords)
	return &c, nil
}

func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(raw)
}

// Phrases flattens the phrase groups in file order.
func (c *Catalog) Phrases() []Phrase {
	var out []Phrase
	for _, g := range c.PhraseGroups {
		for _, p := range g.Phrases {
			out = append(out, Phrase{Text: p, Category: g.Category})
		}
	}
	return out
}

// Excluded reports whether a marker item is on an allowlist. The
// markdown and training-artifact lists always apply; the technical
// vocabulary only when technical is set.
func (c *Catalog) Excluded(item string, technical bool) bool {
	lower := strings.ToLower(strings.TrimSpace(item))
	if _, ok := c.always[item]; ok {
		return true
	}
	if _, ok := c.always[lower]; ok {
		return true
	}
	if !technical {
		return false
	}
	if _, ok := c.technical[item]; ok {
		return true
	}
	_, ok := c.technical[lower]
	return ok
}

func (c *Catalog) Label(kind string) string {
	if l, ok := c.Categories[kind]; ok {
		return l
	}
	return kind
}

// Suggestions returns the replacements listed for item with trailing
// punctuation removed, so they can be joined into a list.
func (c *Catalog) Suggestions(item string) []string {
	alts := c.Alternatives[strings.ToLower(item)]
	out := make([]string, 0, len(alts))
	for _, a := range alts {
		if a = strings.TrimSpace(strings.TrimRight(a, ",:; ")); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Alternative joins up to three suggested replacements for item.
func (c *Catalog) Alternative(item string) string {
	alts := c.Suggestions(item)
	if len(alts) > 3 {
		alts = alts[:3]
	}
	return strings.Join(alts, ", ")
}

// IsPassive reports whether any passive pattern matches the sentence.
func (c *Catalog) IsPassive(sentence string) bool {
	for _, re := range c.passive {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

func (c *Catalog) IsHedgingWord(w string) bool {
	_, ok := c.hedging[w]
	return ok
}

func toSet(lists ...[]string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, l := range lists {
		for _, s := range l {
			out[s] = struct{}{}
		}
	}
	return out
}
