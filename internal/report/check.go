// Package report renders scan results, marker sets and scan history for
// people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"

	"styleguide/internal/catalog"
	"styleguide/internal/scan"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, markdown or html)", s)
}

type Options struct {
	Verbose   bool
	Technical bool
	Color     bool
	MinScore  int
	Catalog   *catalog.Catalog
}

const (
	rule      = "============================================================"
	thinRule  = "------------------------------------------------------------"
	topHigh   = 15
	topMedium = 10
	topHints  = 5
)

// Write renders results in format. A single result gets the per-file
// layout; several get per-file output plus a batch summary.
func Write(w io.Writer, format Format, results []scan.Result, opts Options) error {
	ok := scored(results)
	switch format {
	case FormatJSON:
		if len(ok) == 1 {
			return JSON(w, ok[0])
		}
		return JSONBatch(w, results, opts.MinScore)
	case FormatHTML:
		if len(ok) == 1 {
			return HTMLReport(w, ok[0], opts)
		}
		return HTMLBatch(w, ok, opts.MinScore)
	case FormatMarkdown:
		for i, r := range ok {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := MarkdownReport(w, r, opts); err != nil {
				return err
			}
		}
		if len(ok) > 1 {
			fmt.Fprintln(w)
			return MarkdownBatch(w, ok, opts.MinScore)
		}
		return nil
	default:
		for i, r := range ok {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := Text(w, r, opts); err != nil {
				return err
			}
		}
		if len(ok) > 1 {
			fmt.Fprintln(w)
			return TextBatch(w, ok, opts.MinScore)
		}
		return nil
	}
}

func scored(results []scan.Result) []scan.Result {
	out := make([]scan.Result, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Findings != nil {
			out = append(out, r)
		}
	}
	return out
}

// byRatio returns the first n findings by descending ratio.
func byRatio(fs []scan.Finding, n int) []scan.Finding {
	out := append([]scan.Finding(nil), fs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio > out[j].Ratio })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// suggestions lists replacement hints for the first high findings.
func suggestions(f *scan.Findings) []string {
	var out []string
	seen := map[string]bool{}
	for i, fd := range f.High {
		if i == topHints {
			break
		}
		if fd.Alternative == "" {
			continue
		}
		s := fmt.Sprintf("Replace %q with: %s", fd.Pattern, fd.Alternative)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func label(cat *catalog.Catalog, kind string) string {
	if cat == nil {
		cat = catalog.Default()
	}
	return cat.Label(kind)
}

func fmtRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1fx", r)
}

func paint(on bool, colors text.Colors, s string) string {
	if !on {
		return s
	}
	return colors.Sprint(s)
}

func finding(fd scan.Finding) string {
	alt := ""
	if fd.Alternative != "" {
		alt = " -> " + fd.Alternative
	}
	return fmt.Sprintf("  [%dx] %q%s", fd.Count, fd.Pattern, alt)
}

// Text renders one result in the terminal layout.
func Text(w io.Writer, r scan.Result, opts Options) error {
	f := r.Findings
	st := f.Stats
	var b strings.Builder
	line := func(format string, a ...any) { fmt.Fprintf(&b, format+"\n", a...) }
	section := func(title string) {
		line(thinRule)
		line(title)
		line(thinRule)
	}

	line(rule)
	line("Writing Analysis: %s", r.Name)
	line(rule)
	line("Words: %s", humanize.Comma(int64(st.TotalWords)))
	line("Patterns found: %d", st.PatternsFound)
	line("  High severity: %s", paint(opts.Color, text.Colors{text.FgRed}, fmt.Sprint(st.HighSeverity)))
	line("  Medium severity: %s", paint(opts.Color, text.Colors{text.FgYellow}, fmt.Sprint(st.MediumSeverity)))
	line("")
	line("Score: %s", paint(opts.Color, text.Colors{scoreColor(r.Score), text.Bold}, fmt.Sprintf("%d/100 (%s)", r.Score, scan.Grade(r.Score))))
	line("")

	s := st.Structural
	threshold := scan.ParagraphThreshold(opts.Technical)
	section("STRUCTURE ANALYSIS")
	line("  Paragraphs: %d (avg %.0f words each)", s.ParaCount, s.AvgParaWords)
	if s.AvgParaWords > 0 && s.AvgParaWords < float64(threshold) {
		line("    WARNING: Short paragraphs suggest AI (aim for %d+ words)", threshold)
	}
	line("  Sentences: %d (avg %.0f words each)", s.SentenceCount, s.AvgSentenceWords)
	line("    Short (1-10): %.0f%%  Medium (11-25): %.0f%%  Long (26+): %.0f%%", s.PctShortSentences, s.PctMediumSentences, s.PctLongSentences)
	if s.ListItems > 0 {
		line("  List items: %d", s.ListItems)
	}
	line("")

	if len(f.High) > 0 {
		section(paint(opts.Color, text.Colors{text.FgRed, text.Bold}, "HIGH SEVERITY (strongly suggests AI)"))
		for _, fd := range byRatio(f.High, topHigh) {
			line("%s", finding(fd))
			if opts.Verbose && fd.Context != "" {
				line("       %s", fd.Context)
			}
		}
		line("")
	}

	if opts.Verbose && len(f.Medium) > 0 {
		section(paint(opts.Color, text.Colors{text.FgYellow, text.Bold}, "MEDIUM SEVERITY (moderately AI-like)"))
		for _, fd := range byRatio(f.Medium, topMedium) {
			line("%s", finding(fd))
		}
		line("")
	}

	if opts.Verbose && len(f.ByCategory) > 0 {
		section("BY CATEGORY")
		kinds := make([]string, 0, len(f.ByCategory))
		for k := range f.ByCategory {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			total := 0
			for _, fd := range f.ByCategory[k] {
				total += fd.Count
			}
			line("  %s: %d occurrences", label(opts.Catalog, k), total)
		}
		line("")
	}

	if hints := suggestions(f); len(f.High) > 0 {
		section("SUGGESTIONS")
		for _, h := range hints {
			line("  - %s", h)
		}
		line("")
	}

	line(rule)
	_, err := io.WriteString(w, b.String())
	return err
}

func scoreColor(score int) text.Color {
	switch {
	case score >= 75:
		return text.FgGreen
	case score >= 60:
		return text.FgYellow
	}
	return text.FgRed
}

// TextBatch prints the pass/fail summary for several files.
func TextBatch(w io.Writer, results []scan.Result, minScore int) error {
	sum := summarize(results, minScore)
	t := newTable(ASCII)
	t.header("File", "Score", "Grade", "High", "Medium")
	for _, r := range results {
		t.row(r.Name, r.Score, scan.Grade(r.Score), r.Findings.Stats.HighSeverity, r.Findings.Stats.MediumSeverity)
	}
	t.rightAlign(2, 4, 5)

	_, err := fmt.Fprintf(w, "%s\nBATCH SUMMARY\n%s\n%s\nFiles checked: %d\nPassing (>=%d): %d\nFailing (<%d): %d\nAverage score: %.1f\n%s\n",
		rule, rule, t.String(), sum.TotalFiles, minScore, sum.Passing, minScore, sum.Failing, sum.AverageScore, rule)
	return err
}

type fileJSON struct {
	Filename       string         `json:"filename"`
	Score          int            `json:"score"`
	Grade          string         `json:"grade"`
	Stats          scan.Stats     `json:"stats"`
	HighSeverity   []scan.Finding `json:"high_severity"`
	MediumSeverity []scan.Finding `json:"medium_severity"`
	LowSeverity    []scan.Finding `json:"low_severity,omitempty"`
}

type errorJSON struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BatchSummary struct {
	TotalFiles   int     `json:"total_files"`
	Passing      int     `json:"passing"`
	Failing      int     `json:"failing"`
	Errors       int     `json:"errors,omitempty"`
	AverageScore float64 `json:"average_score"`
}

func toJSON(r scan.Result) fileJSON {
	return fileJSON{
		Filename:       r.Name,
		Score:          r.Score,
		Grade:          scan.Grade(r.Score),
		Stats:          r.Findings.Stats,
		HighSeverity:   r.Findings.High,
		MediumSeverity: r.Findings.Medium,
		LowSeverity:    r.Findings.Low,
	}
}

func JSON(w io.Writer, r scan.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(r))
}

// JSONBatch writes every file plus a summary. Files that failed to load
// are listed with their error and left out of the summary scores.
func JSONBatch(w io.Writer, results []scan.Result, minScore int) error {
	files := make([]any, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Findings == nil {
			msg := "not scanned"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			files = append(files, errorJSON{Filename: r.Name, Error: msg})
			continue
		}
		files = append(files, toJSON(r))
	}
	sum := summarize(scored(results), minScore)
	sum.Errors = len(results) - sum.TotalFiles

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Files   []any        `json:"files"`
		Summary BatchSummary `json:"summary"`
	}{files, sum})
}

func summarize(results []scan.Result, minScore int) BatchSummary {
	s := BatchSummary{TotalFiles: len(results)}
	total := 0
	for _, r := range results {
		total += r.Score
		if r.Score >= minScore {
			s.Passing++
		} else {
			s.Failing++
		}
	}
	if len(results) > 0 {
		s.AverageScore = float64(total) / float64(len(results))
	}
	return s
}

func findingsTable(mode Mode, fs []scan.Finding, cat *catalog.Catalog) string {
	t := newTable(mode)
	t.header("Count", "Pattern", "Category", "Ratio", "Instead")
	for _, fd := range fs {
		t.row(fd.Count, fd.Pattern, label(cat, fd.Type), fmtRatio(fd.Ratio), fd.Alternative)
	}
	t.rightAlign(1, 4)
	return t.String()
}

func structureTable(mode Mode, s scan.Structure) string {
	t := newTable(mode)
	t.header("Metric", "Value")
	t.row("Paragraphs", fmt.Sprintf("%d (avg %.0f words)", s.ParaCount, s.AvgParaWords))
	t.row("Sentences", fmt.Sprintf("%d (avg %.0f words)", s.SentenceCount, s.AvgSentenceWords))
	t.row("Short / medium / long", fmt.Sprintf("%.0f%% / %.0f%% / %.0f%%", s.PctShortSentences, s.PctMediumSentences, s.PctLongSentences))
	t.row("List items", s.ListItems)
	return t.String()
}

func MarkdownReport(w io.Writer, r scan.Result, opts Options) error {
	f := r.Findings
	var b strings.Builder
	fmt.Fprintf(&b, "# Writing Analysis: %s\n\n", r.Name)
	fmt.Fprintf(&b, "**Score:** %d/100 (%s)\n\n", r.Score, scan.Grade(r.Score))
	fmt.Fprintf(&b, "**Words:** %s | **Patterns:** %d | **High:** %d | **Medium:** %d\n\n",
		humanize.Comma(int64(f.Stats.TotalWords)), f.Stats.PatternsFound, f.Stats.HighSeverity, f.Stats.MediumSeverity)
	fmt.Fprintf(&b, "## Structure\n\n%s\n\n", structureTable(Markdown, f.Stats.Structural))
	if len(f.High) > 0 {
		fmt.Fprintf(&b, "## High Severity\n\n%s\n\n", findingsTable(Markdown, byRatio(f.High, topHigh), opts.Catalog))
	}
	if len(f.Medium) > 0 {
		fmt.Fprintf(&b, "## Medium Severity\n\n%s\n\n", findingsTable(Markdown, byRatio(f.Medium, topMedium), opts.Catalog))
	}
	if opts.Verbose && len(f.Low) > 0 {
		fmt.Fprintf(&b, "## Low Severity\n\n%s\n\n", findingsTable(Markdown, byRatio(f.Low, topMedium), opts.Catalog))
	}
	if hints := suggestions(f); len(hints) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, h := range hints {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

func MarkdownBatch(w io.Writer, results []scan.Result, minScore int) error {
	sum := summarize(results, minScore)
	t := newTable(Markdown)
	t.header("File", "Score", "Grade", "High", "Medium")
	for _, r := range results {
		t.row(r.Name, r.Score, scan.Grade(r.Score), r.Findings.Stats.HighSeverity, r.Findings.Stats.MediumSeverity)
	}
	_, err := fmt.Fprintf(w, "# Batch Summary\n\nFiles: %d | Passing (>=%d): %d | Failing: %d | Average score: %.1f\n\n%s\n",
		sum.TotalFiles, minScore, sum.Passing, sum.Failing, sum.AverageScore, t.String())
	return err
}

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;line-height:1.6;color:#333;max-width:900px;margin:0 auto;padding:20px}
table.prose-check{border-collapse:collapse;width:100%%;margin:1em 0}
table.prose-check td,table.prose-check th{border:1px solid #ddd;padding:6px 10px;text-align:left}
.high{color:#e74c3c}.medium{color:#f39c12}.pass{color:#27ae60}.fail{color:#e74c3c}
.score{font-size:2em;font-weight:bold}
.score-excellent{color:#27ae60}.score-good{color:#2ecc71}.score-fair{color:#f39c12}.score-poor{color:#e67e22}.score-bad{color:#e74c3c}
</style>
</head>
<body>
`

func scoreClass(score int) string {
	switch {
	case score >= 90:
		return "score-excellent"
	case score >= 75:
		return "score-good"
	case score >= 60:
		return "score-fair"
	case score >= 40:
		return "score-poor"
	}
	return "score-bad"
}

func HTMLReport(w io.Writer, r scan.Result, opts Options) error {
	f := r.Findings
	name := html.EscapeString(r.Name)
	var b strings.Builder
	fmt.Fprintf(&b, htmlHead, "Writing Analysis: "+name)
	fmt.Fprintf(&b, "<h1>Writing Analysis: %s</h1>\n", name)
	fmt.Fprintf(&b, "<p class=\"score %s\">%d/100</p>\n<p>%s</p>\n", scoreClass(r.Score), r.Score, html.EscapeString(scan.Grade(r.Score)))
	fmt.Fprintf(&b, "<p><strong>Words:</strong> %s | <strong>Patterns:</strong> %d | <span class=\"high\">High: %d</span> | <span class=\"medium\">Medium: %d</span></p>\n",
		humanize.Comma(int64(f.Stats.TotalWords)), f.Stats.PatternsFound, f.Stats.HighSeverity, f.Stats.MediumSeverity)
	fmt.Fprintf(&b, "<h2>Structure</h2>\n%s\n", structureTable(HTML, f.Stats.Structural))
	if len(f.High) > 0 {
		fmt.Fprintf(&b, "<h2 class=\"high\">High Severity</h2>\n%s\n", findingsTable(HTML, byRatio(f.High, topHigh), opts.Catalog))
	}
	if len(f.Medium) > 0 {
		fmt.Fprintf(&b, "<h2 class=\"medium\">Medium Severity</h2>\n%s\n", findingsTable(HTML, byRatio(f.Medium, topMedium), opts.Catalog))
	}
	if hints := suggestions(f); len(hints) > 0 {
		b.WriteString("<h2>Suggestions</h2>\n<ul>\n")
		for _, h := range hints {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(h))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func HTMLBatch(w io.Writer, results []scan.Result, minScore int) error {
	sum := summarize(results, minScore)
	t := newTable(HTML)
	t.header("File", "Score", "Grade", "High", "Medium", "Status")
	for _, r := range results {
		status := "pass"
		if r.Score < minScore {
			status = "fail"
		}
		t.row(r.Name, r.Score, scan.Grade(r.Score), r.Findings.Stats.HighSeverity, r.Findings.Stats.MediumSeverity, status)
	}
	var b strings.Builder
	fmt.Fprintf(&b, htmlHead, "Batch Writing Analysis")
	b.WriteString("<h1>Batch Writing Analysis</h1>\n")
	fmt.Fprintf(&b, "<p>Files: %d | <span class=\"pass\">Passing: %d</span> | <span class=\"fail\">Failing: %d</span> | Average score: %.1f</p>\n",
		sum.TotalFiles, sum.Passing, sum.Failing, sum.AverageScore)
	b.WriteString(t.String())
	b.WriteString("\n</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
