package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tgienger/firmdesk/internal/importer"
	"github.com/tgienger/firmdesk/internal/ui/styles"
)

var theme = styles.NewStyles()

// printPlanErrors lists every validation error of p, one line per error.
func printPlanErrors(w io.Writer, p *importer.Plan) {
	fmt.Fprintln(w, theme.RowError.Render(fmt.Sprintf("%s: %d error(s) in %d row(s)",
		p.Source, len(p.Errors), p.InvalidRows())))
	for _, e := range p.Errors {
		col := e.Column
		if col == "" {
			col = "-"
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			theme.TitleMuted.Render(fmt.Sprintf("row %d", e.Row)),
			theme.HelpKey.Render(col),
			theme.ErrorText.Render(e.Message))
	}
}

func printReport(w io.Writer, r *importer.Report) {
	fmt.Fprintf(w, "%s %s\n",
		theme.RowSuccess.Render(fmt.Sprintf("%d %s created", r.Succeeded(), r.Entity)),
		theme.TitleMuted.Render("("+r.ImportID+")"))
	failed := r.Failed()
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(w, theme.RowError.Render(fmt.Sprintf("%d row(s) failed", len(failed))))
	for _, o := range failed {
		fmt.Fprintf(w, "  %s  %s\n",
			theme.TitleMuted.Render(fmt.Sprintf("row %d", o.Row)),
			theme.ErrorText.Render(o.Err.Error()))
	}
}

// printFieldErrors prints form errors sorted by field.
func printFieldErrors(w io.Writer, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s  %s\n", theme.HelpKey.Render(f), theme.ErrorText.Render(errs[f]))
	}
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, theme.StatusError.Render(msg))
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Current.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header
			}
			return theme.Cell
		}).
		String()
}
