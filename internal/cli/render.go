package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/viant/seqvec/pipeline"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(1)
)

type match struct {
	ID       string  `json:"id"`
	Class    string  `json:"class"`
	Sequence string  `json:"sequence"`
	Distance float32 `json:"distance"`
}

type queryOutput struct {
	Query     string  `json:"query"`
	Namespace string  `json:"namespace"`
	Matches   []match `json:"matches"`
}

func toOutput(query, namespace string, r *pipeline.Result) queryOutput {
	out := queryOutput{Query: query, Namespace: namespace, Matches: make([]match, r.Len())}
	for i := range out.Matches {
		out.Matches[i] = match{ID: r.IDs[i], Class: r.Classes[i], Sequence: r.Sequences[i], Distance: r.Distances[i]}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable renders one query result as an aligned text table.
func writeTable(w io.Writer, q queryOutput) {
	fmt.Fprintln(w, titleStyle.Render("query "+q.Query)+faintStyle.Render("  namespace "+q.Namespace))
	if len(q.Matches) == 0 {
		fmt.Fprintln(w, faintStyle.Render("  no matches"))
		return
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("#", "ID", "CLASS", "DISTANCE", "SEQUENCE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(1)
			}
			return cellStyle
		})
	for i, m := range q.Matches {
		t.Row(fmt.Sprint(i+1), m.ID, m.Class, fmt.Sprintf("%.6f", m.Distance), abbreviate(m.Sequence, 48))
	}
	fmt.Fprintln(w, t.Render())
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
