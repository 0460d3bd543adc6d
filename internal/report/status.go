package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"styleguide/internal/catalog"
	"styleguide/internal/db"
	"styleguide/internal/markers"
	"styleguide/internal/workspace"
)

// Status summarizes the marker set loaded from path.
func Status(w io.Writer, path string, set *markers.Set, cat *catalog.Catalog, top int) error {
	cs := set.CorpusStats
	fmt.Fprintf(w, "Markers: %s\n", path)
	fmt.Fprintf(w, "Corpus: %s AI samples (%s words), %s human texts (%s words)\n\n",
		humanize.Comma(int64(cs.CandidateSamples)), humanize.Comma(int64(cs.CandidateTotalWords)),
		humanize.Comma(int64(cs.ReferenceSamples)), humanize.Comma(int64(cs.ReferenceTotalWords)))

	counts := set.CountByKind()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	kt := newTable(ASCII)
	kt.header("Kind", "Markers")
	for _, k := range kinds {
		kt.row(label(cat, k), counts[k])
	}
	kt.w.AppendFooter([]any{"Total", len(set.Markers)})
	kt.rightAlign(2)
	fmt.Fprintf(w, "%s\n\n", kt.String())

	sev := map[markers.Severity]int{}
	for _, m := range set.Markers {
		sev[m.Severity()]++
	}
	fmt.Fprintf(w, "Severity: %d high, %d medium, %d low\n", sev[markers.SeverityHigh], sev[markers.SeverityMedium], sev[markers.SeverityLow])

	if top <= 0 || len(set.Markers) == 0 {
		return nil
	}
	tt := newTable(ASCII)
	tt.header("Pattern", "Kind", "Log-odds", "Ratio", "Severity")
	for _, m := range head(byLogOdds(set.Markers), top) {
		tt.row(m.Item, label(cat, m.Kind), fmt.Sprintf("%.2f", m.LogOdds), fmtRatio(m.Ratio()), string(m.Severity()))
	}
	tt.rightAlign(3, 4)
	_, err := fmt.Fprintf(w, "\nTop %d markers\n%s\n", top, tt.String())
	return err
}

// History lists stored scans, newest first.
func History(w io.Writer, scans []db.Scan, now time.Time) error {
	if len(scans) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded.")
		return err
	}
	t := newTable(ASCII)
	t.header("ID", "Checked", "Source", "Words", "Score", "Grade", "High", "Medium")
	for _, s := range scans {
		t.row(s.ID, humanize.RelTime(s.CheckedAt, now, "ago", "from now"), s.Source, humanize.Comma(int64(s.Words)), s.Score, s.Grade, s.High, s.Medium)
	}
	t.rightAlign(4, 5, 7, 8)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// ScanDetail lists the findings stored for one scan.
func ScanDetail(w io.Writer, id string, rows []db.FindingRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "No findings recorded for scan %s.\n", id)
		return err
	}
	t := newTable(ASCII)
	t.header("Severity", "Pattern", "Type", "Count", "Ratio")
	for _, r := range rows {
		t.row(r.Severity, r.Pattern, r.Type, r.Count, fmtRatio(r.Ratio))
	}
	t.rightAlign(4, 5)
	_, err := fmt.Fprintf(w, "Scan %s\n%s\n", id, t.String())
	return err
}

// Archived describes the report saved for a document by check --save.
func Archived(w io.Writer, path string, a *workspace.Archive, now time.Time) error {
	_, err := fmt.Fprintf(w, "Saved report: %s (score %d, %s, %s)\n",
		path, a.Score, a.Grade, humanize.RelTime(a.CheckedAt, now, "ago", "from now"))
	return err
}
