package markers

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"styleguide/internal/catalog"
	"styleguide/internal/freq"
	"styleguide/internal/stats"
)

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	bulletItem     = regexp.MustCompile(`(?m)^\s*[-•*]\s`)
	numberedItem   = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
	nonLetters     = regexp.MustCompile(`[^a-z]`)
	leadingJunk    = regexp.MustCompile(`^[^a-z]+`)
)

// Distribution describes sentence lengths in words.
type Distribution struct {
	Mean      float64 `json:"mean"`
	Stdev     float64 `json:"stdev"`
	CV        float64 `json:"coefficient_of_variation"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
	P10       int     `json:"p10"`
	P25       int     `json:"p25"`
	P50       int     `json:"p50_median"`
	P75       int     `json:"p75"`
	P90       int     `json:"p90"`
	PctShort  float64 `json:"pct_short_1_10"`
	PctMedium float64 `json:"pct_medium_11_25"`
	PctLong   float64 `json:"pct_long_26_plus"`
}

type ParagraphStats struct {
	AvgPerDoc  float64      `json:"avg_paragraphs_per_doc"`
	AvgLength  float64      `json:"avg_para_length_words"`
	Stdev      float64      `json:"para_length_stdev"`
	CV         float64      `json:"para_length_cv"`
	Min        int          `json:"min_para_length"`
	Max        int          `json:"max_para_length"`
	TopOpeners []freq.Entry `json:"top_para_openers"`
}

// Punctuation holds occurrences per 1000 characters.
type Punctuation struct {
	EmDash      float64 `json:"em_dash"`
	Semicolon   float64 `json:"semicolon"`
	Colon       float64 `json:"colon"`
	Exclamation float64 `json:"exclamation"`
	Question    float64 `json:"question"`
	Parentheses float64 `json:"parentheses"`
	Quotes      float64 `json:"quotes"`
}

// Side is the structural profile of one corpus.
type Side struct {
	AvgSentenceLength    float64        `json:"avg_sentence_length"`
	MedianSentenceLength float64        `json:"median_sentence_length"`
	Sentences            Distribution   `json:"sentence_distribution"`
	PassivePct           float64        `json:"passive_voice_pct"`
	PassiveCount         int            `json:"passive_count"`
	TotalSentences       int            `json:"total_sentences"`
	Paragraphs           ParagraphStats `json:"paragraph_stats"`
	AvgParagraphLength   float64        `json:"avg_para_length"`
	ListItemsPerText     float64        `json:"list_items_per_text"`
	Punctuation          Punctuation    `json:"punctuation_per_1k"`
	FormalTransitions    float64        `json:"formal_transitions_per_100_sents"`
	CasualTransitions    float64        `json:"casual_transitions_per_100_sents"`
	HedgingRate          float64        `json:"hedging_per_1k_words"`
	HedgingWordRate      float64        `json:"hedging_words_per_1k_words"`
}

type StarterStat struct {
	Starter      string  `json:"starter"`
	CandidatePct float64 `json:"candidate_pct"`
	ReferencePct float64 `json:"reference_pct"`
	Ratio        float64 `json:"ratio"`
}

// RateBreakdown compares one word across corpora. Ratio is nil when
// the reference rate is zero.
type RateBreakdown struct {
	Word          string   `json:"word"`
	CandidateRate float64  `json:"candidate_rate"`
	ReferenceRate float64  `json:"reference_rate"`
	Ratio         *float64 `json:"ratio"`
}

type Summary struct {
	Candidate             Side            `json:"candidate"`
	Reference             Side            `json:"reference"`
	Starters1             []StarterStat   `json:"distinctive_starters_1word"`
	Starters2             []StarterStat   `json:"distinctive_starters_2word"`
	FormalTransitionRatio *float64        `json:"formal_transition_ratio"`
	TransitionBreakdown   []RateBreakdown `json:"formal_transition_breakdown"`
	HedgingRatio          *float64        `json:"hedging_rate_ratio"`
	HedgingBreakdown      []RateBreakdown `json:"hedging_word_breakdown"`
}

type corpusView struct {
	texts     []string
	sentences [][]string
}

func (v corpusView) flat() []string {
	var out []string
	for _, s := range v.sentences {
		out = append(out, s...)
	}
	return out
}

func summarize(cat *catalog.Catalog, cand, ref corpusView) Summary {
	s := Summary{
		Candidate: sideSummary(cat, cand),
		Reference: sideSummary(cat, ref),
	}
	s.Starters1 = distinctiveStarters(cand, ref, 1, 100, 5, 1.5)
	s.Starters2 = distinctiveStarters(cand, ref, 2, 200, 3, 2.0)

	s.FormalTransitionRatio = roundPtr(stats.Ratio(s.Candidate.FormalTransitions, s.Reference.FormalTransitions), 1)
	s.TransitionBreakdown = transitionBreakdown(cat, cand, ref)
	s.HedgingRatio = roundPtr(stats.Ratio(s.Candidate.HedgingRate, s.Reference.HedgingRate), 1)
	s.HedgingBreakdown = hedgingBreakdown(cat, cand, ref)
	return s
}

func sideSummary(cat *catalog.Catalog, v corpusView) Side {
	var side Side
	sentences := v.flat()

	lengths := make([]int, 0, len(sentences))
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 {
			lengths = append(lengths, n)
		}
	}
	fl := stats.Ints(lengths)
	side.AvgSentenceLength = stats.Mean(fl)
	side.MedianSentenceLength = stats.Median(fl)
	side.Sentences = distribution(lengths)

	for _, s := range sentences {
		if cat.IsPassive(s) {
			side.PassiveCount++
		}
	}
	side.TotalSentences = len(sentences)
	if side.TotalSentences > 0 {
		side.PassivePct = stats.Round(float64(side.PassiveCount)/float64(side.TotalSentences)*100, 1)
	}

	side.Paragraphs = paragraphStats(v.texts)
	var paraLengths []int
	for _, t := range v.texts {
		for _, p := range strings.Split(t, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				paraLengths = append(paraLengths, len(strings.Fields(p)))
			}
		}
	}
	side.AvgParagraphLength = stats.Mean(stats.Ints(paraLengths))

	if len(v.texts) > 0 {
		items := 0
		for _, t := range v.texts {
			items += ListItems(t)
		}
		side.ListItemsPerText = float64(items) / float64(len(v.texts))
	}

	side.Punctuation = punctuation(v.texts)

	formal, casual := 0, 0
	for _, s := range sentences {
		first := firstWord(s)
		if slices.Contains(cat.FormalTransitions, first) {
			formal++
		}
		if slices.Contains(cat.CasualTransitions, first) {
			casual++
		}
	}
	if n := len(sentences); n > 0 {
		side.FormalTransitions = stats.Round(float64(formal)/float64(n)*100, 2)
		side.CasualTransitions = stats.Round(float64(casual)/float64(n)*100, 2)
	}

	words, phrases, total := hedging(cat, v.texts)
	if total > 0 {
		side.HedgingWordRate = stats.Round(float64(words)/float64(total)*1000, 2)
		side.HedgingRate = stats.Round(float64(words+phrases)/float64(total)*1000, 2)
	}
	return side
}

// ListItems counts bulleted and numbered list lines.
func ListItems(text string) int {
	return len(bulletItem.FindAllStringIndex(text, -1)) + len(numberedItem.FindAllStringIndex(text, -1))
}

// Paragraphs splits on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphSplit.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func distribution(lengths []int) Distribution {
	if len(lengths) == 0 {
		return Distribution{}
	}
	fl := stats.Ints(lengths)
	d := Distribution{
		Mean:  stats.Round(stats.Mean(fl), 1),
		Stdev: stats.Round(stats.Stdev(fl), 1),
		CV:    stats.Round(stats.CV(fl), 1),
		P10:   int(stats.Percentile(fl, 0.10)),
		P25:   int(stats.Percentile(fl, 0.25)),
		P50:   int(stats.Percentile(fl, 0.50)),
		P75:   int(stats.Percentile(fl, 0.75)),
		P90:   int(stats.Percentile(fl, 0.90)),
		Min:   lengths[0],
		Max:   lengths[0],
	}
	short, medium, long := 0, 0, 0
	for _, n := range lengths {
		d.Min = min(d.Min, n)
		d.Max = max(d.Max, n)
		switch {
		case n <= 10:
			short++
		case n <= 25:
			medium++
		default:
			long++
		}
	}
	total := float64(len(lengths))
	d.PctShort = stats.Round(float64(short)/total*100, 1)
	d.PctMedium = stats.Round(float64(medium)/total*100, 1)
	d.PctLong = stats.Round(float64(long)/total*100, 1)
	return d
}

func paragraphStats(texts []string) ParagraphStats {
	var lengths []int
	var perDoc []float64
	openers := []string{}
	for _, t := range texts {
		paras := Paragraphs(t)
		perDoc = append(perDoc, float64(len(paras)))
		for _, p := range paras {
			words := strings.Fields(p)
			if len(words) == 0 {
				continue
			}
			lengths = append(lengths, len(words))
			openers = append(openers, strings.Trim(strings.ToLower(words[0]), `.,!?;:"`))
		}
	}
	if len(lengths) == 0 {
		return ParagraphStats{TopOpeners: []freq.Entry{}}
	}
	fl := stats.Ints(lengths)
	ps := ParagraphStats{
		AvgPerDoc:  stats.Round(stats.Mean(perDoc), 1),
		AvgLength:  stats.Round(stats.Mean(fl), 1),
		Stdev:      stats.Round(stats.Stdev(fl), 1),
		CV:         stats.Round(stats.CV(fl), 1),
		Min:        int(stats.Percentile(fl, 0)),
		Max:        int(stats.Percentile(fl, 1)),
		TopOpeners: freq.CountStrings(openers).Top(10),
	}
	return ps
}

func punctuation(texts []string) Punctuation {
	var p Punctuation
	chars := 0
	var emDash, semi, colon, excl, quest, paren, quotes int
	for _, t := range texts {
		chars += utf8.RuneCountInString(t)
		emDash += strings.Count(t, "—") + strings.Count(t, "--")
		semi += strings.Count(t, ";")
		colon += strings.Count(t, ":")
		excl += strings.Count(t, "!")
		quest += strings.Count(t, "?")
		paren += strings.Count(t, "(")
		quotes += strings.Count(t, `"`) + strings.Count(t, "“") + strings.Count(t, "”")
	}
	if chars == 0 {
		return p
	}
	per1k := func(n int) float64 { return float64(n) / float64(chars) * 1000 }
	p.EmDash = per1k(emDash)
	p.Semicolon = per1k(semi)
	p.Colon = per1k(colon)
	p.Exclamation = per1k(excl)
	p.Question = per1k(quest)
	p.Parentheses = per1k(paren)
	p.Quotes = per1k(quotes)
	return p
}

func starters(v corpusView, n int) freq.Table {
	var items []string
	for _, s := range v.flat() {
		words := strings.Fields(s)
		if len(words) == 0 {
			continue
		}
		if len(words) > n {
			words = words[:n]
		}
		st := leadingJunk.ReplaceAllString(strings.ToLower(strings.Join(words, " ")), "")
		if utf8.RuneCountInString(st) > 2 {
			items = append(items, st)
		}
	}
	return freq.CountStrings(items)
}

func distinctiveStarters(cand, ref corpusView, n, pool, floor int, minRatio float64) []StarterStat {
	ct, rt := starters(cand, n), starters(ref, n)
	out := []StarterStat{}
	for _, e := range ct.Top(pool) {
		if e.Count < floor {
			continue
		}
		cr := stats.Rate(e.Count, ct.Total(), stats.DefaultSmoothing)
		rr := stats.Rate(rt.Get(e.Item), rt.Total(), stats.DefaultSmoothing)
		ratio := cr / rr
		if ratio <= minRatio {
			continue
		}
		out = append(out, StarterStat{
			Starter:      e.Item,
			CandidatePct: stats.Round(cr*100, 2),
			ReferencePct: stats.Round(rr*100, 2),
			Ratio:        stats.Round(ratio, 1),
		})
	}
	sortStable(out, func(a, b StarterStat) bool { return a.Ratio > b.Ratio })
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

func firstWord(sentence string) string {
	f := strings.Fields(sentence)
	if len(f) == 0 {
		return ""
	}
	return strings.TrimRight(strings.ToLower(f[0]), ",")
}

func transitionBreakdown(cat *catalog.Catalog, cand, ref corpusView) []RateBreakdown {
	cf, rf := cand.flat(), ref.flat()
	count := func(sents []string) map[string]int {
		out := map[string]int{}
		for _, s := range sents {
			out[firstWord(s)]++
		}
		return out
	}
	cc, rc := count(cf), count(rf)

	out := []RateBreakdown{}
	for _, w := range cat.FormalTransitions {
		if cc[w] == 0 && rc[w] == 0 {
			continue
		}
		out = append(out, breakdown(w, cc[w], rc[w], len(cf), len(rf), 100))
	}
	sortByRatio(out)
	if len(out) > 15 {
		out = out[:15]
	}
	return out
}

func hedging(cat *catalog.Catalog, texts []string) (words, phrases, total int) {
	for _, t := range texts {
		lower := strings.ToLower(t)
		fields := strings.Fields(lower)
		total += len(fields)
		for _, f := range fields {
			if cat.IsHedgingWord(nonLetters.ReplaceAllString(f, "")) {
				words++
			}
		}
		for _, p := range cat.HedgingPhrases {
			phrases += strings.Count(lower, p)
		}
	}
	return words, phrases, total
}

func hedgingBreakdown(cat *catalog.Catalog, cand, ref corpusView) []RateBreakdown {
	count := func(texts []string) (map[string]int, int) {
		out := map[string]int{}
		total := 0
		for _, t := range texts {
			for _, f := range strings.Fields(strings.ToLower(t)) {
				total++
				out[nonLetters.ReplaceAllString(f, "")]++
			}
		}
		return out, total
	}
	cc, ct := count(cand.texts)
	rc, rt := count(ref.texts)

	out := []RateBreakdown{}
	for _, w := range cat.HedgingWords {
		if cc[w] < 3 {
			continue
		}
		out = append(out, breakdown(w, cc[w], rc[w], ct, rt, 1000))
	}
	sortByRatio(out)
	if len(out) > 15 {
		out = out[:15]
	}
	return out
}

func breakdown(word string, cc, rc, ct, rt int, per float64) RateBreakdown {
	var cr, rr float64
	if ct > 0 {
		cr = float64(cc) / float64(ct) * per
	}
	if rt > 0 {
		rr = float64(rc) / float64(rt) * per
	}
	return RateBreakdown{
		Word:          word,
		CandidateRate: stats.Round(cr, 2),
		ReferenceRate: stats.Round(rr, 2),
		Ratio:         roundPtr(stats.Ratio(cr, rr), 1),
	}
}

// sortByRatio orders breakdowns by descending ratio; a missing ratio
// sorts first.
func sortByRatio(b []RateBreakdown) {
	key := func(r RateBreakdown) float64 {
		if r.Ratio == nil {
			return 999
		}
		return *r.Ratio
	}
	sortStable(b, func(x, y RateBreakdown) bool { return key(x) > key(y) })
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := stats.Round(*v, places)
	return &r
}

func sortStable[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
