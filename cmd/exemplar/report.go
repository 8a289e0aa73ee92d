package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/usestring/exemplar-mcp/internal/conflict"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
)

// maxCellWidth bounds the example column so wide values do not wrap.
const maxCellWidth = 48

// table renders aligned columns. Widths are display widths, so CJK and
// emoji values line up.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	for i, h := range t.headers {
		bold.Fprint(w, runewidth.FillRight(h, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)

	gray := color.New(color.FgHiBlack)
	for i, width := range widths {
		gray.Fprint(w, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i == len(row)-1 {
				fmt.Fprint(w, cell)
				continue
			}
			fmt.Fprint(w, runewidth.FillRight(cell, widths[i]), "  ")
		}
		fmt.Fprintln(w)
	}
}

// renderConflicts writes one row per conflicting type: the selector, the
// type and the first value observed for it with its document index.
func renderConflicts(w io.Writer, res *inference.Result, preview *jsoncompact.Options) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(w, "\n%s; left out of the example:\n\n", res.Summary)

	t := &table{headers: []string{"SELECTOR", "TYPE", "DOC", "EXAMPLE"}}
	for _, entry := range res.Conflicts {
		for i, ex := range entry.Examples {
			selector := ""
			if i == 0 {
				selector = entry.Selector
			}
			t.addRow(
				selector,
				conflict.Describe(ex.Type),
				docIndex(res.DocumentIndex(ex.Parent)),
				runewidth.Truncate(jsoncompact.Preview(ex.Value, preview), maxCellWidth, "…"),
			)
		}
	}
	t.render(w)
}

func docIndex(i int) string {
	if i < 0 {
		return "?"
	}
	return fmt.Sprintf("#%d", i)
}
