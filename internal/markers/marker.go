package markers

import (
	"encoding/json"
	"math"
)

const (
	KindWord    = "word"
	KindBigram  = "bigram"
	KindTrigram = "trigram"
	KindStarter = "sentence_starter"

	phrasePrefix = "phrase_"
)

// PhraseKind returns the marker kind for a catalogue phrase category.
func PhraseKind(category string) string { return phrasePrefix + category }

func IsPhraseKind(kind string) bool {
	return len(kind) > len(phrasePrefix) && kind[:len(phrasePrefix)] == phrasePrefix
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

const (
	HighThreshold   = 2.5
	MediumThreshold = 1.5
)

func SeverityOf(logOdds float64) Severity {
	switch {
	case logOdds >= HighThreshold:
		return SeverityHigh
	case logOdds >= MediumThreshold:
		return SeverityMedium
	}
	return SeverityLow
}

// Marker is a pattern significantly more frequent in the candidate
// corpus. Rates are smoothed. Values are never modified once extracted.
type Marker struct {
	Kind           string  `json:"type"`
	Item           string  `json:"item"`
	CandidateRate  float64 `json:"candidate_rate"`
	ReferenceRate  float64 `json:"reference_rate"`
	LogOdds        float64 `json:"log_odds"`
	CILower        float64 `json:"ci_lower"`
	CIUpper        float64 `json:"ci_upper"`
	CandidateCount int     `json:"candidate_count"`
	ReferenceCount int     `json:"reference_count"`
	ExampleContext string  `json:"example_context"`
}

// Ratio is candidate rate over reference rate, +Inf without a
// reference rate.
func (m Marker) Ratio() float64 {
	if m.ReferenceRate <= 0 {
		return math.Inf(1)
	}
	return m.CandidateRate / m.ReferenceRate
}

func (m Marker) Severity() Severity { return SeverityOf(m.LogOdds) }

// UnmarshalJSON also accepts the opus_/human_ field names written by
// older marker files.
func (m *Marker) UnmarshalJSON(data []byte) error {
	type plain Marker
	var aux struct {
		plain
		OpusRate   *float64 `json:"opus_rate"`
		HumanRate  *float64 `json:"human_rate"`
		OpusCount  *int     `json:"opus_count"`
		HumanCount *int     `json:"human_count"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Marker(aux.plain)
	if aux.OpusRate != nil && m.CandidateRate == 0 {
		m.CandidateRate = *aux.OpusRate
	}
	if aux.HumanRate != nil && m.ReferenceRate == 0 {
		m.ReferenceRate = *aux.HumanRate
	}
	if aux.OpusCount != nil && m.CandidateCount == 0 {
		m.CandidateCount = *aux.OpusCount
	}
	if aux.HumanCount != nil && m.ReferenceCount == 0 {
		m.ReferenceCount = *aux.HumanCount
	}
	return nil
}

type CorpusStats struct {
	CandidateSamples    int `json:"candidate_samples"`
	ReferenceSamples    int `json:"reference_samples"`
	CandidateTotalWords int `json:"candidate_total_words"`
	ReferenceTotalWords int `json:"reference_total_words"`
}

func (c *CorpusStats) UnmarshalJSON(data []byte) error {
	type plain CorpusStats
	var aux struct {
		plain
		OpusSamples     *int `json:"opus_samples"`
		HumanSamples    *int `json:"human_samples"`
		OpusTotalWords  *int `json:"opus_total_words"`
		HumanTotalWords *int `json:"human_total_words"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = CorpusStats(aux.plain)
	if aux.OpusSamples != nil && c.CandidateSamples == 0 {
		c.CandidateSamples = *aux.OpusSamples
	}
	if aux.HumanSamples != nil && c.ReferenceSamples == 0 {
		c.ReferenceSamples = *aux.HumanSamples
	}
	if aux.OpusTotalWords != nil && c.CandidateTotalWords == 0 {
		c.CandidateTotalWords = *aux.OpusTotalWords
	}
	if aux.HumanTotalWords != nil && c.ReferenceTotalWords == 0 {
		c.ReferenceTotalWords = *aux.HumanTotalWords
	}
	return nil
}

// Set is a persisted extraction result. Markers are sorted by
// descending log-odds.
type Set struct {
	CorpusStats CorpusStats `json:"corpus_stats"`
	Summary     Summary     `json:"summary_stats"`
	Markers     []Marker    `json:"markers"`
}

// CountByKind tallies markers per kind.
func (s *Set) CountByKind() map[string]int {
	out := map[string]int{}
	for _, m := range s.Markers {
		out[m.Kind]++
	}
	return out
}
