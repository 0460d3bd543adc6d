// Package scan checks a single document against a marker set and the
// structural heuristics, and turns the findings into a 0-100 score.
package scan

import (
	"errors"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"styleguide/internal/catalog"
	"styleguide/internal/markers"
)

const (
	contextPad = 20
	maxRatio   = 999

	emDashLimit     = 1.0
	emDashHumanRate = 0.28

	paraThresholdTechnical = 20
	paraThresholdProse     = 40
	paraHighBelow          = 25

	listLimit = 1.0

	hedgingLimit     = 8.0
	hedgingHumanRate = 4.8
	hedgingDetails   = 5

	formulaicMin     = 2
	formulaicExample = 50
)

var ErrNoMarkers = errors.New("no marker set loaded")

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

type Options struct {
	// Technical drops technical and programming vocabulary from matching
	// and relaxes the paragraph-length check.
	Technical bool
	// Verbose includes markers below medium severity.
	Verbose bool
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{Technical: true}
}

type Finding struct {
	Pattern     string           `json:"pattern"`
	Type        string           `json:"type"`
	Count       int              `json:"count"`
	Severity    markers.Severity `json:"severity"`
	Ratio       float64          `json:"ratio"`
	LogOdds     float64          `json:"log_odds,omitempty"`
	Alternative string           `json:"alternative,omitempty"`
	Context     string           `json:"context,omitempty"`
}

type Structure struct {
	ParaCount          int     `json:"para_count"`
	AvgParaWords       float64 `json:"avg_para_words"`
	ParaLengths        []int   `json:"para_lengths"`
	ListItems          int     `json:"list_items"`
	SentenceCount      int     `json:"sentence_count"`
	AvgSentenceWords   float64 `json:"avg_sentence_words"`
	PctShortSentences  float64 `json:"pct_short_sentences"`
	PctMediumSentences float64 `json:"pct_medium_sentences"`
	PctLongSentences   float64 `json:"pct_long_sentences"`
}

type Stats struct {
	TotalChars     int       `json:"total_chars"`
	TotalWords     int       `json:"total_words"`
	PatternsFound  int       `json:"patterns_found"`
	HighSeverity   int       `json:"high_severity"`
	MediumSeverity int       `json:"medium_severity"`
	LowSeverity    int       `json:"low_severity"`
	Structural     Structure `json:"structural"`
}

// Findings groups everything a scan reports. ByCategory indexes the
// marker findings by marker type; structural findings only appear in
// the severity lists.
type Findings struct {
	High       []Finding            `json:"high"`
	Medium     []Finding            `json:"medium"`
	Low        []Finding            `json:"low"`
	ByCategory map[string][]Finding `json:"by_category"`
	Stats      Stats                `json:"stats"`
}

type rule struct {
	marker  markers.Marker
	re      *regexp.Regexp
	starter bool
}

type hedge struct {
	word string
	re   *regexp.Regexp
}

type Scanner struct {
	cat    *catalog.Catalog
	opts   Options
	rules  []rule
	hedges []hedge
	log    *slog.Logger
}

// NewScanner prepares matchers for every marker that survives the
// allowlists and the severity floor. A nil set is a configuration error.
func NewScanner(set *markers.Set, cat *catalog.Catalog, opts Options) (*Scanner, error) {
	if set == nil {
		return nil, ErrNoMarkers
	}
	if cat == nil {
		cat = catalog.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default().With(slog.String("component", "scan"))
	}

	s := &Scanner{cat: cat, opts: opts, log: log}
	skipped := 0
	for _, m := range set.Markers {
		if strings.TrimSpace(m.Item) == "" || cat.Excluded(m.Item, opts.Technical) {
			skipped++
			continue
		}
		if m.LogOdds < markers.MediumThreshold && !opts.Verbose {
			skipped++
			continue
		}
		r := rule{marker: m, starter: m.Kind == markers.KindStarter}
		expr := `(?i)` + regexp.QuoteMeta(m.Item)
		if r.starter {
			expr = `(?im)(?:^|[.!?]\s+)` + regexp.QuoteMeta(m.Item)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			log.Debug("skipping marker", slog.String("item", m.Item), slog.Any("error", err))
			skipped++
			continue
		}
		r.re = re
		s.rules = append(s.rules, r)
	}
	for _, h := range cat.ScanHedging {
		if strings.TrimSpace(h.Word) == "" {
			continue
		}
		s.hedges = append(s.hedges, hedge{word: h.Word, re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(h.Word))})
	}
	log.Debug("scanner ready", slog.Int("rules", len(s.rules)), slog.Int("skipped", skipped))
	return s, nil
}

// Scan reports marker and structural findings for text. It is pure:
// scanning the same text twice gives equal results.
func (s *Scanner) Scan(text string) *Findings {
	f := &Findings{
		High:       []Finding{},
		Medium:     []Finding{},
		Low:        []Finding{},
		ByCategory: map[string][]Finding{},
		Stats: Stats{
			TotalChars: utf8.RuneCountInString(text),
			TotalWords: len(strings.Fields(text)),
		},
	}

	for _, fd := range s.markerFindings(text) {
		f.add(fd)
		f.ByCategory[fd.Type] = append(f.ByCategory[fd.Type], fd)
	}

	structure := analyzeStructure(text)
	f.Stats.Structural = structure

	if fd, ok := emDash(text, f.Stats.TotalChars); ok {
		f.add(fd)
	}
	if fd, ok := shortParagraphs(structure, s.opts.Technical); ok {
		f.add(fd)
	}
	if fd, ok := listOveruse(structure, f.Stats.TotalWords); ok {
		f.add(fd)
	}
	if fd, ok := s.hedging(text, f.Stats.TotalWords); ok {
		f.add(fd)
	}
	if fd, ok := s.formulaic(text); ok {
		f.add(fd)
	}
	return f
}

func (f *Findings) add(fd Finding) {
	switch fd.Severity {
	case markers.SeverityHigh:
		f.High = append(f.High, fd)
		f.Stats.HighSeverity++
	case markers.SeverityMedium:
		f.Medium = append(f.Medium, fd)
		f.Stats.MediumSeverity++
	default:
		f.Low = append(f.Low, fd)
		f.Stats.LowSeverity++
	}
	f.Stats.PatternsFound++
}

// Ignore drops findings whose pattern equals one of patterns, ignoring
// case, and recomputes the severity counts.
func (f *Findings) Ignore(patterns []string) {
	if len(patterns) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		drop[strings.ToLower(p)] = struct{}{}
	}
	keep := func(in []Finding) []Finding {
		out := in[:0:0]
		for _, fd := range in {
			if _, ok := drop[strings.ToLower(fd.Pattern)]; !ok {
				out = append(out, fd)
			}
		}
		return out
	}
	f.High = keep(f.High)
	f.Medium = keep(f.Medium)
	f.Low = keep(f.Low)
	for k, v := range f.ByCategory {
		if v = keep(v); len(v) == 0 {
			delete(f.ByCategory, k)
		} else {
			f.ByCategory[k] = v
		}
	}
	f.Stats.HighSeverity = len(f.High)
	f.Stats.MediumSeverity = len(f.Medium)
	f.Stats.LowSeverity = len(f.Low)
	f.Stats.PatternsFound = len(f.High) + len(f.Medium) + len(f.Low)
}

// markerFindings matches every rule and keeps, per lowercase pattern,
// only the finding of the marker with the highest log-odds. On a tie
// the first marker wins.
func (s *Scanner) markerFindings(text string) []Finding {
	type hit struct {
		rule    *rule
		count   int
		context string
	}
	var hits []hit
	winner := map[string]int{}
	for i := range s.rules {
		r := &s.rules[i]
		count, first := r.match(text)
		if count == 0 {
			continue
		}
		h := hit{rule: r, count: count}
		if first != nil {
			h.context = "..." + window(text, first[0], first[1], contextPad) + "..."
		}
		key := strings.ToLower(r.marker.Item)
		if prev, ok := winner[key]; !ok || r.marker.LogOdds > hits[prev].rule.marker.LogOdds {
			winner[key] = len(hits)
		}
		hits = append(hits, h)
	}

	out := make([]Finding, 0, len(winner))
	for i, h := range hits {
		if winner[strings.ToLower(h.rule.marker.Item)] != i {
			continue
		}
		m := h.rule.marker
		out = append(out, Finding{
			Pattern:     m.Item,
			Type:        m.Kind,
			Count:       h.count,
			Severity:    m.Severity(),
			Ratio:       capRatio(m.Ratio()),
			LogOdds:     m.LogOdds,
			Alternative: s.cat.Alternative(m.Item),
			Context:     h.context,
		})
	}
	return out
}

// match counts occurrences and returns the span of the first one.
func (r *rule) match(text string) (int, []int) {
	if r.starter {
		locs := r.re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			return 0, nil
		}
		return len(locs), locs[0]
	}
	return countBounded(r.re, text)
}

// countBounded counts matches of re that sit on word boundaries at both
// ends. Boundaries are Unicode-aware: a word character is a letter,
// digit or underscore.
func countBounded(re *regexp.Regexp, text string) (int, []int) {
	var (
		count int
		first []int
	)
	for pos := 0; pos <= len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && boundary(text, start) && boundary(text, end) {
			if first == nil {
				first = []int{start, end}
			}
			count++
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}
	return count, first
}

func boundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWord(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWord(r)
	}
	return before != after
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// window returns text[start:end] widened by up to pad runes on each
// side, with newlines flattened to spaces.
func window(text string, start, end, pad int) string {
	for i := 0; i < pad && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for i := 0; i < pad && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return strings.ReplaceAll(text[start:end], "\n", " ")
}

func capRatio(r float64) float64 {
	if math.IsInf(r, 0) || math.IsNaN(r) || r > maxRatio {
		return maxRatio
	}
	return r
}

// Score is 100 minus the severity penalty per hundred words, clamped to
// [0, 100]. An empty document scores 100.
func Score(f *Findings) int {
	if f == nil || f.Stats.TotalWords == 0 {
		return 100
	}
	penalty := float64(f.Stats.HighSeverity*10+f.Stats.MediumSeverity*3) / (float64(f.Stats.TotalWords) / 100)
	return int(math.Max(0, math.Min(100, 100-penalty)))
}

func Grade(score int) string {
	switch {
	case score >= 90:
		return "Excellent - Very human-like"
	case score >= 75:
		return "Good - Minor issues"
	case score >= 60:
		return "Fair - Some LLM patterns"
	case score >= 40:
		return "Needs work - Notable LLM patterns"
	}
	return "High AI signal - Many LLM patterns"
}
