// Package markers compares a candidate corpus with a reference corpus
// and extracts the patterns that are significantly more frequent in the
// candidate, together with descriptive summary statistics.
package markers

import (
	"context"
	"log/slog"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"styleguide/internal/catalog"
	"styleguide/internal/freq"
	"styleguide/internal/stats"
	"styleguide/internal/tokenize"
)

const (
	lexicalRatio = 2.0
	phraseRatio  = 1.5
	starterRatio = 1.5

	unigramFloor = 5
	ngramFloor   = 3
	phraseFloor  = 3
	starterFloor = 3

	contextDocs        = 100
	contextSpan        = 40
	starterExampleDocs = 200
	starterExampleLen  = 100
)

type Extractor struct {
	cat     *catalog.Catalog
	workers int
	log     *slog.Logger
}

type Option func(*Extractor)

// WithWorkers bounds the number of concurrent scoring workers.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

func NewExtractor(cat *catalog.Catalog, opts ...Option) *Extractor {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Extractor{
		cat:     cat,
		workers: max(runtime.NumCPU(), 1),
		log:     slog.Default().With(slog.String("component", "markers")),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract runs every pattern family and returns the marker set sorted
// by descending log-odds. An empty corpus on either side yields an
// empty set.
func (e *Extractor) Extract(ctx context.Context, candidate, reference []string) (*Set, error) {
	set := &Set{Markers: []Marker{}, Summary: emptySummary()}
	if len(candidate) == 0 || len(reference) == 0 {
		e.log.Info("empty corpus, no markers", "candidate", len(candidate), "reference", len(reference))
		return set, nil
	}

	candWords, candSents := tokenize.Corpus(candidate)
	refWords, refSents := tokenize.Corpus(reference)
	set.CorpusStats = CorpusStats{
		CandidateSamples:    len(candidate),
		ReferenceSamples:    len(reference),
		CandidateTotalWords: countTokens(candWords),
		ReferenceTotalWords: countTokens(refWords),
	}
	e.log.Info("tokenized corpora",
		"candidate_samples", len(candidate), "reference_samples", len(reference),
		"candidate_words", set.CorpusStats.CandidateTotalWords, "reference_words", set.CorpusStats.ReferenceTotalWords)

	var all []Marker
	for _, fam := range []struct {
		kind  string
		n     int
		floor int
	}{
		{KindWord, 1, unigramFloor},
		{KindBigram, 2, ngramFloor},
		{KindTrigram, 3, ngramFloor},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := e.lexical(ctx, fam.kind, freq.Count(candWords, fam.n), freq.Count(refWords, fam.n), fam.floor, candidate)
		if err != nil {
			return nil, err
		}
		e.log.Info("lexical family scored", "kind", fam.kind, "markers", len(found))
		all = append(all, found...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	phrases := e.phrases(candidate, reference)
	e.log.Info("phrase family scored", "markers", len(phrases))
	all = append(all, phrases...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cv := corpusView{texts: candidate, sentences: candSents}
	rv := corpusView{texts: reference, sentences: refSents}
	starters := e.starters(cv, rv)
	e.log.Info("sentence starters scored", "markers", len(starters))
	all = append(all, starters...)

	sort.SliceStable(all, func(i, j int) bool { return all[i].LogOdds > all[j].LogOdds })
	if all == nil {
		all = []Marker{}
	}
	set.Markers = all

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set.Summary = summarize(e.cat, cv, rv)
	e.log.Info("extraction complete", "markers", len(all))
	return set, nil
}

// lexical scores the vocabulary union in chunks. Each worker reads the
// shared count tables and writes only its own result slot.
func (e *Extractor) lexical(ctx context.Context, kind string, cand, ref freq.Table, floor int, texts []string) ([]Marker, error) {
	vocab := freq.Union(cand, ref)
	if len(vocab) == 0 {
		return nil, nil
	}
	chunks := e.workers * 4
	size := (len(vocab) + chunks - 1) / chunks
	results := make([][]Marker, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for c := 0; c < chunks; c++ {
		lo := c * size
		if lo >= len(vocab) {
			break
		}
		hi := min(lo+size, len(vocab))
		g.Go(func() error {
			var out []Marker
			for _, item := range vocab[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				m, ok := scoreCounts(kind, item, cand.Get(item), ref.Get(item), cand.Total(), ref.Total(), floor, lexicalRatio)
				if !ok {
					continue
				}
				m.ExampleContext = findContext(item, texts)
				out = append(out, m)
			}
			results[c] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Marker
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// scoreCounts applies the count floor and the smoothed-rate ratio before
// running the significance test.
func scoreCounts(kind, item string, cc, rc, ct, rt, floor int, minRatio float64) (Marker, bool) {
	if cc < floor {
		return Marker{}, false
	}
	cr := stats.Rate(cc, ct, stats.DefaultSmoothing)
	rr := stats.Rate(rc, rt, stats.DefaultSmoothing)
	if cr < minRatio*rr {
		return Marker{}, false
	}
	s := stats.LogOdds(cc, rc, ct, rt, stats.DefaultSmoothing)
	if !s.Significant() {
		return Marker{}, false
	}
	return Marker{
		Kind:           kind,
		Item:           item,
		CandidateRate:  cr,
		ReferenceRate:  rr,
		LogOdds:        s.LogOdds,
		CILower:        s.CILower,
		CIUpper:        s.CIUpper,
		CandidateCount: cc,
		ReferenceCount: rc,
	}, true
}

// phrases counts catalogue phrases by case-insensitive substring. Rates
// are per 10,000 characters; the significance test uses characters/100
// as the totals.
func (e *Extractor) phrases(candidate, reference []string) []Marker {
	candLower, candChars := lowerAll(candidate)
	refLower, refChars := lowerAll(reference)

	var out []Marker
	for _, p := range e.cat.Phrases() {
		needle := strings.ToLower(p.Text)
		cc, rc := countAll(candLower, needle), countAll(refLower, needle)
		if cc < phraseFloor {
			continue
		}
		cr := stats.Rate(cc, candChars, stats.DefaultSmoothing) * 10000
		rr := stats.Rate(rc, refChars, stats.DefaultSmoothing) * 10000
		if cr < phraseRatio*rr {
			continue
		}
		s := stats.LogOdds(cc, rc, candChars/100, refChars/100, stats.DefaultSmoothing)
		if !s.Significant() {
			e.log.Debug("phrase not significant", "phrase", p.Text, "ci_lower", s.CILower)
			continue
		}
		out = append(out, Marker{
			Kind:           PhraseKind(p.Category),
			Item:           p.Text,
			CandidateRate:  cr,
			ReferenceRate:  rr,
			LogOdds:        s.LogOdds,
			CILower:        s.CILower,
			CIUpper:        s.CIUpper,
			CandidateCount: cc,
			ReferenceCount: rc,
			ExampleContext: findContext(p.Text, candidate),
		})
	}
	return out
}

func (e *Extractor) starters(cand, ref corpusView) []Marker {
	cf, rf := cand.flat(), ref.flat()
	ct := freq.CountStrings(sentenceStarters(cf))
	rt := freq.CountStrings(sentenceStarters(rf))

	var out []Marker
	for _, st := range ct.Keys() {
		if utf8.RuneCountInString(st) < 2 {
			continue
		}
		m, ok := scoreCounts(KindStarter, st, ct.Get(st), rt.Get(st), ct.Total(), rt.Total(), starterFloor, starterRatio)
		if !ok {
			continue
		}
		m.ExampleContext = starterExample(st, cf)
		out = append(out, m)
	}
	return out
}

// SentenceStarter is the first whitespace token of a sentence,
// lowercased and stripped of surrounding punctuation.
func SentenceStarter(sentence string) string {
	f := strings.Fields(sentence)
	if len(f) == 0 {
		return ""
	}
	return strings.Trim(strings.ToLower(f[0]), ".,!?;:")
}

func sentenceStarters(sentences []string) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, SentenceStarter(s))
	}
	return out
}

func starterExample(starter string, sentences []string) string {
	if len(sentences) > starterExampleDocs {
		sentences = sentences[:starterExampleDocs]
	}
	for _, s := range sentences {
		if strings.HasPrefix(strings.ToLower(s), starter) {
			if utf8.RuneCountInString(s) > starterExampleLen {
				return string([]rune(s)[:starterExampleLen]) + "..."
			}
			return s
		}
	}
	return ""
}

// findContext returns the first case-insensitive match of item in the
// leading documents with up to 40 characters on either side.
func findContext(item string, texts []string) string {
	re, err := regexp.Compile(`(?i).{0,40}` + regexp.QuoteMeta(item) + `.{0,40}`)
	if err != nil {
		return ""
	}
	if len(texts) > contextDocs {
		texts = texts[:contextDocs]
	}
	for _, t := range texts {
		if m := re.FindString(t); m != "" {
			return "..." + strings.TrimSpace(m) + "..."
		}
	}
	return ""
}

func lowerAll(texts []string) ([]string, int) {
	out := make([]string, len(texts))
	chars := 0
	for i, t := range texts {
		out[i] = strings.ToLower(t)
		chars += utf8.RuneCountInString(t)
	}
	return out, chars
}

func countAll(texts []string, needle string) int {
	n := 0
	for _, t := range texts {
		n += strings.Count(t, needle)
	}
	return n
}

func countTokens(docs [][]string) int {
	n := 0
	for _, d := range docs {
		n += len(d)
	}
	return n
}

func emptySummary() Summary {
	return Summary{
		Candidate:           Side{Paragraphs: ParagraphStats{TopOpeners: []freq.Entry{}}},
		Reference:           Side{Paragraphs: ParagraphStats{TopOpeners: []freq.Entry{}}},
		Starters1:           []StarterStat{},
		Starters2:           []StarterStat{},
		TransitionBreakdown: []RateBreakdown{},
		HedgingBreakdown:    []RateBreakdown{},
	}
}
