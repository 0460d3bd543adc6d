package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styleguide/internal/catalog"
	"styleguide/internal/db"
	"styleguide/internal/markers"
	"styleguide/internal/scan"
	"styleguide/internal/workspace"
)

func sampleResult(name string, score int) scan.Result {
	f := &scan.Findings{
		High: []scan.Finding{
			{Pattern: "robust", Type: markers.KindWord, Count: 2, Severity: markers.SeverityHigh, Ratio: 12.5, LogOdds: 3.1,
				Alternative: "strong, solid, reliable", Context: "...a robust design..."},
		},
		Medium: []scan.Finding{
			{Pattern: "additionally", Type: "phrase_transition", Count: 1, Severity: markers.SeverityMedium, Ratio: 5, LogOdds: 1.8},
		},
		ByCategory: map[string][]scan.Finding{},
		Stats: scan.Stats{
			TotalWords:     1234,
			PatternsFound:  2,
			HighSeverity:   1,
			MediumSeverity: 1,
			Structural: scan.Structure{
				ParaCount:          4,
				AvgParaWords:       25,
				SentenceCount:      10,
				AvgSentenceWords:   12,
				PctShortSentences:  30,
				PctMediumSentences: 60,
				PctLongSentences:   10,
			},
		},
	}
	f.ByCategory[markers.KindWord] = f.High
	f.ByCategory["phrase_transition"] = f.Medium
	return scan.Result{Name: name, Findings: f, Score: score}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatText,
		"text":     FormatText,
		"JSON":     FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		" html ":   FormatHTML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleResult("doc.md", 93), Options{MinScore: 60}))
	out := buf.String()

	assert.Contains(t, out, "Writing Analysis: doc.md")
	assert.Contains(t, out, "Words: 1,234")
	assert.Contains(t, out, "Score: 93/100 (Excellent - Very human-like)")
	assert.Contains(t, out, "WARNING: Short paragraphs suggest AI (aim for 40+ words)")
	assert.Contains(t, out, "Short (1-10): 30%  Medium (11-25): 60%  Long (26+): 10%")
	assert.Contains(t, out, `[2x] "robust" -> strong, solid, reliable`)
	assert.Contains(t, out, `Replace "robust" with: strong, solid, reliable`)
	assert.NotContains(t, out, "MEDIUM SEVERITY")
	assert.NotContains(t, out, "BY CATEGORY")
	assert.NotContains(t, out, "a robust design")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Verbose: true, Technical: true, Catalog: catalog.Default()}
	require.NoError(t, Text(&buf, sampleResult("doc.md", 93), opts))
	out := buf.String()

	assert.Contains(t, out, "MEDIUM SEVERITY (moderately AI-like)")
	assert.Contains(t, out, "...a robust design...")
	assert.Contains(t, out, "BY CATEGORY")
	assert.Contains(t, out, "Overused words: 2 occurrences")
	assert.Contains(t, out, "Transitions: 1 occurrences")
	assert.NotContains(t, out, "WARNING: Short paragraphs", "25 words is above the technical threshold")
}

func TestTextColor(t *testing.T) {
	text.EnableColors()
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleResult("doc.md", 30), Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResult("doc.md", 93)))

	var got struct {
		Filename string           `json:"filename"`
		Score    int              `json:"score"`
		Grade    string           `json:"grade"`
		Stats    map[string]any   `json:"stats"`
		High     []map[string]any `json:"high_severity"`
		Medium   []map[string]any `json:"medium_severity"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "doc.md", got.Filename)
	assert.Equal(t, 93, got.Score)
	assert.Equal(t, "Excellent - Very human-like", got.Grade)
	require.Len(t, got.High, 1)
	assert.Equal(t, "robust", got.High[0]["pattern"])
	assert.Len(t, got.Medium, 1)
	assert.EqualValues(t, 1234, got.Stats["total_words"])
}

func TestJSONBatch(t *testing.T) {
	results := []scan.Result{
		sampleResult("a.md", 90),
		sampleResult("b.md", 50),
		{Name: "c.pdf", Err: errors.New("broken pdf")},
	}
	var buf bytes.Buffer
	require.NoError(t, JSONBatch(&buf, results, 60))

	var got struct {
		Files   []map[string]any `json:"files"`
		Summary BatchSummary     `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Files, 3)
	assert.Equal(t, "broken pdf", got.Files[2]["error"])
	assert.Equal(t, BatchSummary{TotalFiles: 2, Passing: 1, Failing: 1, Errors: 1, AverageScore: 70}, got.Summary)
}

func TestWriteTextBatch(t *testing.T) {
	var buf bytes.Buffer
	results := []scan.Result{sampleResult("a.md", 90), sampleResult("b.md", 50)}
	require.NoError(t, Write(&buf, FormatText, results, Options{MinScore: 60}))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "Writing Analysis:"))
	assert.Contains(t, out, "BATCH SUMMARY")
	assert.Contains(t, out, "Files checked: 2")
	assert.Contains(t, out, "Passing (>=60): 1")
	assert.Contains(t, out, "Failing (<60): 1")
	assert.Contains(t, out, "Average score: 70.0")
}

func TestWriteSingleJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, []scan.Result{sampleResult("a.md", 90)}, Options{}))
	assert.NotContains(t, buf.String(), `"summary"`)
	assert.Contains(t, buf.String(), `"filename": "a.md"`)
}

func TestMarkdownReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownReport(&buf, sampleResult("doc.md", 93), Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Writing Analysis: doc.md\n"))
	assert.Contains(t, out, "**Score:** 93/100")
	assert.Contains(t, out, "## High Severity")
	assert.Contains(t, out, "robust")
	assert.Contains(t, out, "12.5x")
	assert.Contains(t, out, "## Suggestions")
}

func TestHTMLReportEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTMLReport(&buf, sampleResult("<b>.md", 93), Options{}))
	out := buf.String()

	assert.Contains(t, out, "&lt;b&gt;.md")
	assert.NotContains(t, out, "<b>.md")
	assert.Contains(t, out, `class="score score-excellent"`)
	assert.Contains(t, out, "<table")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

func TestHTMLBatch(t *testing.T) {
	var buf bytes.Buffer
	results := []scan.Result{sampleResult("a.md", 90), sampleResult("b.md", 50)}
	require.NoError(t, HTMLBatch(&buf, results, 60))
	out := buf.String()

	assert.Contains(t, out, "Passing: 1")
	assert.Contains(t, out, "Failing: 1")
	assert.Contains(t, out, "fail")
}

func TestScoreClass(t *testing.T) {
	for score, want := range map[int]string{
		100: "score-excellent",
		90:  "score-excellent",
		75:  "score-good",
		60:  "score-fair",
		40:  "score-poor",
		39:  "score-bad",
	} {
		assert.Equal(t, want, scoreClass(score), score)
	}
}

func sampleSet() *markers.Set {
	m := func(kind, item string, cr, rr, lo float64, count int, ctx string) markers.Marker {
		return markers.Marker{Kind: kind, Item: item, CandidateRate: cr, ReferenceRate: rr, LogOdds: lo, CandidateCount: count, ExampleContext: ctx}
	}
	return &markers.Set{
		CorpusStats: markers.CorpusStats{CandidateSamples: 1500, ReferenceSamples: 2000, CandidateTotalWords: 300000, ReferenceTotalWords: 900000},
		Markers: []markers.Marker{
			m(markers.KindWord, "delve", 0.001, 0.0001, 3.2, 40, ""),
			m(markers.PhraseKind("hedging"), "it's important to note", 0.002, 0.0002, 2.8, 12, "...it's important to note that..."),
			m(markers.KindWord, "robust", 0.0008, 0.0002, 1.9, 30, ""),
			m(markers.KindStarter, "additionally", 0.02, 0.002, 2.6, 25, ""),
			m(markers.KindBigram, "rich tapestry", 0.0003, 0.00001, 3.0, 8, ""),
			m(markers.KindWord, "rare", 0.0001, 0.00005, 1.0, 2, ""),
		},
	}
}

func TestStyleguide(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	require.NoError(t, Styleguide(&buf, sampleSet(), catalog.Default(), now))
	out := buf.String()

	assert.Contains(t, out, "*Generated 2026-10-17 from analysis of 1,500 AI samples vs 2,000 human texts*")
	assert.Contains(t, out, "## Quick Reference: Top Patterns to Avoid")
	assert.Contains(t, out, `- [ ] Search for "delve" and replace or delete`)
	assert.Contains(t, out, `- [ ] Check uses of "robust"`)
	assert.NotContains(t, out, `Search for "robust"`)
	assert.Contains(t, out, "### Hedging Phrases (often unnecessary)")
	assert.Contains(t, out, "**it's important to note** (10.0x more common in AI)")
	assert.Contains(t, out, "> ...it's important to note that...")
	assert.Contains(t, out, "- *Instead:* Note, delete entirely, just state the fact")
	assert.Contains(t, out, "Additionally")
	assert.Contains(t, out, `- **"rich tapestry"** - 30.0x more common in AI`)
	assert.Contains(t, out, "## Before/After Examples")
	assert.Contains(t, out, "## Methodology")

	words := out[strings.Index(out, "## Words to Avoid"):strings.Index(out, "## Phrases to Avoid")]
	assert.Contains(t, words, "delve")
	assert.Contains(t, words, "0.10%")
	assert.Contains(t, words, "0.010%")
	assert.NotContains(t, words, "rare", "count below five is left out")
	assert.Less(t, strings.Index(words, "delve"), strings.Index(words, "robust"))
}

func TestStyleguideStructural(t *testing.T) {
	set := sampleSet()
	set.Summary.Candidate = markers.Side{
		TotalSentences:   100,
		PassivePct:       5,
		ListItemsPerText: 4,
		Sentences:        markers.Distribution{Mean: 18.2, PctShort: 30},
		Punctuation:      markers.Punctuation{EmDash: 2, Colon: 1},
	}
	set.Summary.Reference = markers.Side{
		TotalSentences:   200,
		PassivePct:       9,
		ListItemsPerText: 1,
		Punctuation:      markers.Punctuation{EmDash: 0.5, Colon: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, Styleguide(&buf, set, nil, time.Now()))
	out := buf.String()

	assert.Contains(t, out, "18.2 words")
	assert.Contains(t, out, "Surprisingly, AI uses LESS passive voice")
	assert.Contains(t, out, "over-using bullet points")
	assert.Contains(t, out, "em dash")
	assert.Contains(t, out, "4.0x")
	assert.NotContains(t, out, "semicolon")
}

func TestStyleguideNoSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Styleguide(&buf, &markers.Set{}, nil, time.Now()))
	out := buf.String()
	assert.Contains(t, out, "## Structural Patterns")
	assert.NotContains(t, out, "### Passive Voice")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Status(&buf, "results/markers.json", sampleSet(), catalog.Default(), 3))
	out := buf.String()

	assert.Contains(t, out, "Markers: results/markers.json")
	assert.Contains(t, out, "1,500 AI samples (300,000 words)")
	assert.Contains(t, out, "Overused words")
	assert.Contains(t, out, "Sentence starters")
	assert.Contains(t, out, "Severity: 4 high, 1 medium, 1 low")
	assert.Contains(t, out, "Top 3 markers")
	assert.Contains(t, out, "delve")
	assert.NotContains(t, out, "rare")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, nil, time.Now()))
	assert.Equal(t, "No scans recorded.\n", buf.String())

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	buf.Reset()
	require.NoError(t, History(&buf, []db.Scan{{
		Source: "docs/a.md", CheckedAt: now.Add(-2 * time.Hour), Words: 1500, Score: 82, Grade: scan.Grade(82),
	}}, now))
	out := buf.String()
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "docs/a.md")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Good - Minor issues")
}

func TestScanDetail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ScanDetail(&buf, "abc", nil))
	assert.Equal(t, "No findings recorded for scan abc.\n", buf.String())

	buf.Reset()
	require.NoError(t, ScanDetail(&buf, "abc", []db.FindingRow{
		{Pattern: "robust", Type: "word", Severity: "high", Count: 2, Ratio: 12.5, LogOdds: 3.1},
	}))
	out := buf.String()
	assert.Contains(t, out, "Scan abc")
	assert.Contains(t, out, "robust")
	assert.Contains(t, out, "12.5x")
}

func TestArchived(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	a := &workspace.Archive{Source: "docs/a.md", Score: 82, Grade: "Good - Minor issues", CheckedAt: now.Add(-3 * time.Hour)}
	require.NoError(t, Archived(&buf, "/ws/reports/x/report.json", a, now))
	assert.Equal(t, "Saved report: /ws/reports/x/report.json (score 82, Good - Minor issues, 3 hours ago)\n", buf.String())
}
