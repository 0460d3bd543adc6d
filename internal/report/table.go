package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode selects how tables render.
type Mode int

const (
	ASCII Mode = iota
	Markdown
	HTML
)

// tableBuilder wraps a go-pretty writer so the renderers share one
// table shape across output modes.
type tableBuilder struct {
	w    table.Writer
	mode Mode
}

func newTable(m Mode) *tableBuilder {
	w := table.NewWriter()
	switch m {
	case ASCII:
		w.SetStyle(table.StyleLight)
	case HTML:
		w.Style().HTML = table.HTMLOptions{
			CSSClass:    "prose-check",
			EscapeText:  true,
			Newline:     "<br/>",
			EmptyColumn: "&nbsp;",
		}
	}
	return &tableBuilder{w: w, mode: m}
}

func (t *tableBuilder) header(cols ...any) { t.w.AppendHeader(table.Row(cols)) }

func (t *tableBuilder) row(vals ...any) { t.w.AppendRow(table.Row(vals)) }

// rightAlign right-aligns the given 1-based columns.
func (t *tableBuilder) rightAlign(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.w.SetColumnConfigs(cfgs)
}

func (t *tableBuilder) String() string {
	switch t.mode {
	case Markdown:
		return t.w.RenderMarkdown()
	case HTML:
		return t.w.RenderHTML()
	default:
		return t.w.Render()
	}
}
