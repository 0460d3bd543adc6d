package scan

import (
	"fmt"
	"strings"

	"styleguide/internal/markers"
)

func analyzeStructure(text string) Structure {
	var st Structure
	st.ParaLengths = []int{}
	total := 0
	for _, p := range markers.Paragraphs(text) {
		if n := len(strings.Fields(p)); n > 0 {
			st.ParaLengths = append(st.ParaLengths, n)
			total += n
		}
	}
	st.ParaCount = len(st.ParaLengths)
	if st.ParaCount > 0 {
		st.AvgParaWords = float64(total) / float64(st.ParaCount)
	}
	st.ListItems = markers.ListItems(text)

	var short, medium, long, words int
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n := len(strings.Fields(s))
		words += n
		st.SentenceCount++
		switch {
		case n <= 10:
			short++
		case n <= 25:
			medium++
		default:
			long++
		}
	}
	if st.SentenceCount > 0 {
		total := float64(st.SentenceCount)
		st.AvgSentenceWords = float64(words) / total
		st.PctShortSentences = float64(short) / total * 100
		st.PctMediumSentences = float64(medium) / total * 100
		st.PctLongSentences = float64(long) / total * 100
	}
	return st
}

// ParagraphThreshold is the minimum healthy average paragraph length.
func ParagraphThreshold(technical bool) int {
	if technical {
		return paraThresholdTechnical
	}
	return paraThresholdProse
}

func emDash(text string, chars int) (Finding, bool) {
	count := strings.Count(text, "—") + strings.Count(text, "--")
	if count == 0 || chars == 0 {
		return Finding{}, false
	}
	rate := float64(count) / float64(chars) * 1000
	if rate <= emDashLimit {
		return Finding{}, false
	}
	return Finding{
		Pattern:     "em dash (—)",
		Type:        "punctuation",
		Count:       count,
		Severity:    markers.SeverityHigh,
		Ratio:       rate / emDashHumanRate,
		Alternative: "Use commas or periods instead",
		Context:     fmt.Sprintf("%.1f per 1k chars (human avg: %.2f)", rate, emDashHumanRate),
	}, true
}

func shortParagraphs(st Structure, technical bool) (Finding, bool) {
	threshold := ParagraphThreshold(technical)
	avg := st.AvgParaWords
	if avg <= 0 || avg >= float64(threshold) {
		return Finding{}, false
	}
	severity := markers.SeverityMedium
	if !technical && avg < paraHighBelow {
		severity = markers.SeverityHigh
	}
	return Finding{
		Pattern:     "Short paragraphs",
		Type:        "structure",
		Count:       st.ParaCount,
		Severity:    severity,
		Ratio:       float64(threshold) / avg,
		Alternative: "Combine related ideas into longer paragraphs",
		Context:     fmt.Sprintf("Avg %.0f words/para (aim for %d+)", avg, threshold),
	}, true
}

func listOveruse(st Structure, words int) (Finding, bool) {
	if words == 0 {
		return Finding{}, false
	}
	density := float64(st.ListItems) / float64(words) * 100
	if density <= listLimit {
		return Finding{}, false
	}
	return Finding{
		Pattern:     "Bullet point overuse",
		Type:        "structure",
		Count:       st.ListItems,
		Severity:    markers.SeverityMedium,
		Ratio:       density / listLimit,
		Alternative: "Convert lists to prose paragraphs",
		Context:     fmt.Sprintf("%d list items in %d words", st.ListItems, words),
	}, true
}

func (s *Scanner) hedging(text string, words int) (Finding, bool) {
	if words == 0 {
		return Finding{}, false
	}
	count := 0
	var details []string
	for _, h := range s.hedges {
		n, _ := countBounded(h.re, text)
		if n > 0 {
			count += n
			details = append(details, fmt.Sprintf("%s(%d)", h.word, n))
		}
	}
	rate := float64(count) / float64(words) * 1000
	if rate <= hedgingLimit {
		return Finding{}, false
	}
	if len(details) > hedgingDetails {
		details = details[:hedgingDetails]
	}
	return Finding{
		Pattern:     "Hedging language overuse",
		Type:        "hedging",
		Count:       count,
		Severity:    markers.SeverityMedium,
		Ratio:       rate / hedgingHumanRate,
		Alternative: "Be more direct; reduce typically/often/sometimes",
		Context:     fmt.Sprintf("%.1f per 1k words: %s", rate, strings.Join(details, ", ")),
	}, true
}

func (s *Scanner) formulaic(text string) (Finding, bool) {
	count := 0
	var examples []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		trimmed := strings.TrimSpace(sentence)
		lower := strings.ToLower(trimmed)
		for _, opener := range s.cat.FormulaicOpeners {
			if opener == "" || !strings.HasPrefix(lower, opener) {
				continue
			}
			count++
			if len(examples) < 2 {
				examples = append(examples, truncate(trimmed, formulaicExample)+"...")
			}
			break
		}
	}
	if count < formulaicMin {
		return Finding{}, false
	}
	return Finding{
		Pattern:     "Formulaic sentence starters",
		Type:        markers.KindStarter,
		Count:       count,
		Severity:    markers.SeverityMedium,
		Ratio:       float64(count),
		Alternative: "Vary sentence openings; avoid 'This document/guide/article'",
		Context:     strings.Join(examples, "; "),
	}, true
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
