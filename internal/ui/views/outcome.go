package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/firmdesk/internal/importer"
	"github.com/tgienger/firmdesk/internal/ui/keys"
	"github.com/tgienger/firmdesk/internal/ui/styles"
)

// Submitted carries the result of executing a plan.
type Submitted struct {
	Report *importer.Report
	Err    error
}

// Retry asks for the rows that Report failed to create to be submitted
// again.
type Retry struct {
	Report *importer.Report
}

// OutcomeView shows what happened to each submitted row. It stays up until
// the user quits or retries.
type OutcomeView struct {
	result Submitted
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
}

func NewOutcomeView(result Submitted) *OutcomeView {
	return &OutcomeView{
		result: result,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *OutcomeView) Init() tea.Cmd {
	return nil
}

func (v *OutcomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Retry) && v.retryable():
			r := v.result.Report
			return v, func() tea.Msg { return Retry{Report: r} }
		}
	}
	return v, nil
}

func (v *OutcomeView) retryable() bool {
	return v.result.Report != nil && len(v.result.Report.Failed()) > 0
}

// View renders the view
func (v *OutcomeView) View() string {
	s := v.styles
	r := v.result.Report

	var lines []string
	switch {
	case r == nil:
		lines = append(lines,
			s.RowError.Render("Import failed"),
			"",
			s.ErrorText.Render(v.result.Err.Error()),
		)
	default:
		failed := r.Failed()
		lines = append(lines,
			s.Title.Render(fmt.Sprintf("Import %s", r.Entity))+"  "+s.TitleMuted.Render(r.ImportID),
			"",
			s.RowSuccess.Render(fmt.Sprintf("%d created", r.Succeeded())),
		)
		if len(failed) > 0 {
			lines = append(lines, s.RowError.Render(fmt.Sprintf("%d failed", len(failed))), "")
			limit := len(failed)
			if v.height > 0 {
				limit = min(limit, max(v.height-10, 1))
			}
			for _, o := range failed[:limit] {
				lines = append(lines, s.ErrorText.Render(fmt.Sprintf("• row %d: %v", o.Row, o.Err)))
			}
			if limit < len(failed) {
				lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("... %d more", len(failed)-limit)))
			}
		}
	}
	hint := "Press q to quit"
	if v.retryable() {
		hint = "Press r to retry failed rows, q to quit"
	}
	lines = append(lines, "", s.TitleMuted.Render(hint))

	content := s.Panel.Width(styles.ContentWidth(v.width) - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return styles.CenterView(content, v.width, v.height)
}
