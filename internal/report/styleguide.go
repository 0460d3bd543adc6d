package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"styleguide/internal/catalog"
	"styleguide/internal/markers"
)

var phraseHeadings = map[string]string{
	"hedging":      "Hedging Phrases (often unnecessary)",
	"transition":   "Overly Formal Transitions",
	"filler":       "Filler Phrases (delete these)",
	"structure":    "Meta-Structure Phrases",
	"conclusion":   "Conclusion Phrases",
	"emphasis":     "Emphasis Words (usually delete)",
	"llm_favorite": "AI Favorite Words",
}

var rewrites = [][2]string{
	{
		"It's important to note that this approach has several crucial advantages. Additionally, it facilitates seamless integration.",
		"This approach has several key advantages. It also makes integration easier.",
	},
	{
		"Let's delve into the intricacies of this multifaceted problem. Furthermore, we should leverage existing solutions.",
		"Let's look at this complex problem. We should also use existing solutions.",
	},
	{
		"In order to achieve optimal results, it is essential that you utilize the comprehensive documentation.",
		"To get the best results, use the full documentation.",
	},
	{
		"That being said, the aforementioned methodology provides a robust framework for addressing these challenges.",
		"Still, this method gives you a solid framework for these challenges.",
	},
	{
		"Ultimately, at its core, this represents a pivotal shift in the landscape of software development.",
		"This is a major shift in software development.",
	},
}

// byLogOdds returns markers sorted by descending log-odds, keeping the
// input order for ties.
func byLogOdds(ms []markers.Marker) []markers.Marker {
	out := append([]markers.Marker(nil), ms...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LogOdds > out[j].LogOdds })
	return out
}

func ofKind(ms []markers.Marker, minCount int, keep func(kind string) bool) []markers.Marker {
	var out []markers.Marker
	for _, m := range ms {
		if keep(m.Kind) && m.CandidateCount >= minCount {
			out = append(out, m)
		}
	}
	return byLogOdds(out)
}

func kindIs(kind string) func(string) bool {
	return func(k string) bool { return k == kind }
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

func safeRatio(a, b float64) float64 {
	if b <= 0 {
		return math.Inf(1)
	}
	return a / b
}

// Styleguide writes the markdown guide derived from a marker set.
func Styleguide(w io.Writer, set *markers.Set, cat *catalog.Catalog, now time.Time) error {
	if cat == nil {
		cat = catalog.Default()
	}
	var b strings.Builder
	line := func(format string, a ...any) { fmt.Fprintf(&b, format+"\n", a...) }
	blank := func() { b.WriteString("\n") }
	cs := set.CorpusStats
	ranked := byLogOdds(set.Markers)

	line("# Personal Writing Styleguide: Avoiding LLM Patterns")
	blank()
	line("*Generated %s from analysis of %s AI samples vs %s human texts*",
		now.Format("2006-01-02"), humanize.Comma(int64(cs.CandidateSamples)), humanize.Comma(int64(cs.ReferenceSamples)))
	blank()

	line("## Quick Reference: Top Patterns to Avoid")
	blank()
	line("These are the most distinctively \"AI-sounding\" patterns. Avoiding these will make your writing sound more human.")
	blank()
	if len(ranked) > 0 {
		t := newTable(Markdown)
		t.header("Pattern", "Type", "AI vs Human", "Action")
		for _, m := range head(ranked, 15) {
			action := "consider rephrasing"
			if alts := cat.Suggestions(m.Item); len(alts) > 0 {
				action = alts[0]
			}
			t.row(m.Item, m.Kind, fmtRatio(m.Ratio()), action)
		}
		line("%s", t.String())
		blank()
	}

	line("## Self-Editing Checklist")
	blank()
	line("Run through this checklist when reviewing your writing:")
	blank()
	line("### High Priority (Very AI-like)")
	blank()
	var high, medium []markers.Marker
	for _, m := range set.Markers {
		switch m.Severity() {
		case markers.SeverityHigh:
			high = append(high, m)
		case markers.SeverityMedium:
			medium = append(medium, m)
		}
	}
	for _, m := range head(high, 20) {
		line("- [ ] Search for %q and replace or delete", m.Item)
	}
	blank()
	line("### Medium Priority (Moderately AI-like)")
	blank()
	for _, m := range head(medium, 15) {
		line("- [ ] Check uses of %q", m.Item)
	}
	blank()

	line("## Words to Avoid")
	blank()
	line("These individual words appear significantly more often in AI writing than human writing.")
	blank()
	if words := ofKind(set.Markers, 5, kindIs(markers.KindWord)); len(words) > 0 {
		t := newTable(Markdown)
		t.header("Word", "AI Rate", "Human Rate", "Ratio", "Alternatives")
		for _, m := range head(words, 30) {
			alt := cat.Alternative(m.Item)
			if alt == "" {
				alt = "-"
			}
			t.row(m.Item, fmt.Sprintf("%.2f%%", m.CandidateRate*100), fmt.Sprintf("%.3f%%", m.ReferenceRate*100), fmtRatio(m.Ratio()), alt)
		}
		line("%s", t.String())
		blank()
	}

	line("## Phrases to Avoid")
	blank()
	line("These multi-word phrases are telltale signs of AI-generated text.")
	blank()
	groups := map[string][]markers.Marker{}
	for _, m := range set.Markers {
		if markers.IsPhraseKind(m.Kind) {
			c := strings.TrimPrefix(m.Kind, "phrase_")
			groups[c] = append(groups[c], m)
		}
	}
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		heading, ok := phraseHeadings[c]
		if !ok {
			heading = title(strings.ReplaceAll(c, "_", " "))
		}
		line("### %s", heading)
		blank()
		for _, m := range head(byLogOdds(groups[c]), 10) {
			line("**%s** (%s more common in AI)", m.Item, fmtRatio(m.Ratio()))
			if m.ExampleContext != "" {
				line("> %s", m.ExampleContext)
			}
			instead := strings.Join(cat.Suggestions(m.Item), ", ")
			if instead == "" {
				instead = "rephrase"
			}
			line("- *Instead:* %s", instead)
			blank()
		}
	}

	line("## Sentence Starters to Vary")
	blank()
	line("AI tends to overuse certain sentence openers. If you find yourself starting many sentences the same way, vary it up.")
	blank()
	if starters := ofKind(set.Markers, 5, kindIs(markers.KindStarter)); len(starters) > 0 {
		t := newTable(Markdown)
		t.header("Starter", "AI Usage", "Human Usage", "Ratio")
		for _, m := range head(starters, 15) {
			t.row(title(m.Item), fmt.Sprintf("%.1f%%", m.CandidateRate*100), fmt.Sprintf("%.2f%%", m.ReferenceRate*100), fmtRatio(m.Ratio()))
		}
		line("%s", t.String())
		blank()
	}

	line("## Common AI Bigrams and Trigrams")
	blank()
	line("These word combinations are distinctively AI-like.")
	blank()
	for _, g := range []struct{ kind, heading string }{
		{markers.KindBigram, "Bigrams (2-word combinations)"},
		{markers.KindTrigram, "Trigrams (3-word combinations)"},
	} {
		ms := ofKind(set.Markers, 3, kindIs(g.kind))
		if len(ms) == 0 {
			continue
		}
		line("### %s", g.heading)
		blank()
		for _, m := range head(ms, 15) {
			line("- **%q** - %s more common in AI", m.Item, fmtRatio(m.Ratio()))
		}
		blank()
	}

	structural(&b, set.Summary)
	line("## Before/After Examples")
	blank()
	line("Here's how to rewrite AI-sounding text to sound more natural:")
	blank()
	for _, ex := range rewrites {
		line("**Before (AI-like):**")
		line("> %s", ex[0])
		blank()
		line("**After (more natural):**")
		line("> %s", ex[1])
		blank()
		line("---")
		blank()
	}

	line("## Methodology")
	blank()
	line("This styleguide was generated by:")
	blank()
	line("1. Collecting %s AI-generated text samples", humanize.Comma(int64(cs.CandidateSamples)))
	line("2. Collecting %s human-written texts", humanize.Comma(int64(cs.ReferenceSamples)))
	line("3. Comparing word frequencies, phrase patterns, and structural features")
	line("4. Identifying patterns where AI usage is statistically significantly higher (95%% interval above zero) and at least 2x more frequent")
	blank()
	line("The log-odds ratio measures how much more likely a pattern is in AI text vs human text. Higher values = more distinctively AI.")

	_, err := io.WriteString(w, b.String())
	return err
}

func structural(b *strings.Builder, s markers.Summary) {
	line := func(format string, a ...any) { fmt.Fprintf(b, format+"\n", a...) }
	blank := func() { b.WriteString("\n") }
	c, r := s.Candidate, s.Reference

	line("## Structural Patterns")
	blank()
	line("Beyond word choice, AI writing has distinctive structural patterns.")
	blank()
	if c.TotalSentences == 0 && r.TotalSentences == 0 {
		return
	}

	line("### Sentence Length Distribution")
	blank()
	t := newTable(Markdown)
	t.header("Metric", "AI", "Human", "Insight")
	t.row("Mean length", fmt.Sprintf("%.1f words", c.Sentences.Mean), fmt.Sprintf("%.1f words", r.Sentences.Mean), "AI sentences slightly longer")
	t.row("Coefficient of variation", fmt.Sprintf("%.1f%%", c.Sentences.CV), fmt.Sprintf("%.1f%%", r.Sentences.CV), "AI has more extreme variation")
	t.row("Short sentences (1-10 words)", fmt.Sprintf("%.1f%%", c.Sentences.PctShort), fmt.Sprintf("%.1f%%", r.Sentences.PctShort), "AI uses more short sentences")
	t.row("Medium sentences (11-25 words)", fmt.Sprintf("%.1f%%", c.Sentences.PctMedium), fmt.Sprintf("%.1f%%", r.Sentences.PctMedium), "Human writing more consistent")
	t.row("Long sentences (26+ words)", fmt.Sprintf("%.1f%%", c.Sentences.PctLong), fmt.Sprintf("%.1f%%", r.Sentences.PctLong), "Similar long sentence usage")
	line("%s", t.String())
	blank()
	line("*Tip: AI tends to alternate between very short and very long sentences. Human writing has more medium-length sentences.*")
	blank()

	line("### Passive Voice")
	blank()
	line("- AI uses passive voice in **%.1f%%** of sentences", c.PassivePct)
	line("- Human writing uses passive voice in **%.1f%%** of sentences", r.PassivePct)
	if c.PassivePct < r.PassivePct {
		line("- *Surprisingly, AI uses LESS passive voice than humans. Don't over-correct by avoiding all passive constructions.*")
	}
	blank()

	line("### Paragraph Structure")
	blank()
	line("- AI average: **%.1f words** per paragraph", c.Paragraphs.AvgLength)
	line("- AI uses **%.1f paragraphs** per document on average", c.Paragraphs.AvgPerDoc)
	blank()
	line("*Tip: AI tends to fragment text into many short paragraphs. Consider combining related ideas into longer, more developed paragraphs.*")
	blank()

	line("### List Usage")
	blank()
	line("- AI uses **%.1f** list items per response on average", c.ListItemsPerText)
	line("- Human writing uses **%.1f** list items per text on average", r.ListItemsPerText)
	if c.ListItemsPerText > r.ListItemsPerText*1.5 {
		line("- *Tip: You might be over-using bullet points. Consider prose instead.*")
	}
	blank()

	line("### Punctuation")
	blank()
	pt := newTable(Markdown)
	pt.header("Punctuation", "AI (per 1k chars)", "Human (per 1k chars)", "Ratio")
	for _, p := range []struct {
		name string
		c, r float64
	}{
		{"em dash", c.Punctuation.EmDash, r.Punctuation.EmDash},
		{"colon", c.Punctuation.Colon, r.Punctuation.Colon},
		{"semicolon", c.Punctuation.Semicolon, r.Punctuation.Semicolon},
	} {
		if p.c > 0 || p.r > 0 {
			pt.row(p.name, fmt.Sprintf("%.2f", p.c), fmt.Sprintf("%.2f", p.r), fmtRatio(safeRatio(p.c, p.r)))
		}
	}
	line("%s", pt.String())
	blank()
	line("*Tip: Em dashes are a strong AI signal. Replace with commas, periods, or parentheses.*")
	blank()
}
