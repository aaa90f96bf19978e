package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/firmdesk/internal/importer"
	"github.com/tgienger/firmdesk/internal/ui/keys"
	"github.com/tgienger/firmdesk/internal/ui/styles"
)

// Submit asks the app to execute the plan under review.
type Submit struct {
	Plan *importer.Plan
}

const (
	rowColWidth    = 5
	markColWidth   = 3
	minFieldWidth  = 8
	maxFieldWidth  = 18
	detailMaxLines = 6
)

// ReviewView lists the parsed rows of an upload with their errors.
type ReviewView struct {
	plan   *importer.Plan
	table  table.Model
	help   help.Model
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	errorsOnly bool
	visible    []importer.RowView
	status     string
	submitting bool
}

func NewReviewView(plan *importer.Plan) *ReviewView {
	s := styles.NewStyles()

	t := table.New(
		table.WithColumns(columns(plan, styles.MaxWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.HelpDesc
	h.Styles.FullKey = s.HelpKey
	h.Styles.FullDesc = s.HelpDesc

	v := &ReviewView{
		plan:   plan,
		table:  t,
		help:   h,
		styles: s,
		keys:   keys.DefaultKeyMap(),
	}
	v.refresh()
	return v
}

// columns fits the row number, the error mark and as many schema columns as
// the width allows.
func columns(plan *importer.Plan, width int) []table.Column {
	cols := []table.Column{
		{Title: "Row", Width: rowColWidth},
		{Title: "!", Width: markColWidth},
	}
	used := rowColWidth + markColWidth + 4
	for _, h := range plan.Schema.Headers() {
		w := clamp(len(h), minFieldWidth, maxFieldWidth)
		if used+w+2 > width {
			break
		}
		cols = append(cols, table.Column{Title: h, Width: w})
		used += w + 2
	}
	return cols
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// refresh rebuilds the table rows from the plan and the filter.
func (v *ReviewView) refresh() {
	v.visible = v.visible[:0]
	for _, r := range v.plan.Rows {
		if v.errorsOnly && r.Valid() {
			continue
		}
		v.visible = append(v.visible, r)
	}

	fields := len(v.table.Columns()) - 2
	rows := make([]table.Row, len(v.visible))
	for i, r := range v.visible {
		mark := ""
		if !r.Valid() {
			mark = "✗"
		}
		row := table.Row{strconv.Itoa(r.Row), mark}
		for j := 0; j < fields; j++ {
			cell := ""
			if j < len(r.Raw) {
				cell = r.Raw[j]
			}
			row = append(row, cell)
		}
		rows[i] = row
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
	v.restyle()
}

// restyle paints the selection bar in the error color on invalid rows.
func (v *ReviewView) restyle() {
	r, ok := v.Selected()
	v.table.SetStyles(styles.TableStyles(ok && !r.Valid()))
}

// Selected returns the row under the cursor.
func (v *ReviewView) Selected() (importer.RowView, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.visible) {
		return importer.RowView{}, false
	}
	return v.visible[i], true
}

// Visible returns the rows currently listed.
func (v *ReviewView) Visible() []importer.RowView {
	return v.visible
}

func (v *ReviewView) Status() string {
	return v.status
}

func (v *ReviewView) Init() tea.Cmd {
	return nil
}

func (v *ReviewView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.table.SetColumns(columns(v.plan, contentWidth))
		v.table.SetWidth(contentWidth)
		v.table.SetHeight(max(msg.Height-detailMaxLines-8, 3))
		v.help.Width = contentWidth
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Help):
			v.help.ShowAll = !v.help.ShowAll
			return v, nil
		case key.Matches(msg, v.keys.Filter):
			v.errorsOnly = !v.errorsOnly
			v.table.SetCursor(0)
			v.refresh()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	v.restyle()
	return v, cmd
}

func (v *ReviewView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	if !v.plan.Valid() {
		v.status = fmt.Sprintf("Fix %d error(s) in %d row(s) before submitting",
			len(v.plan.Errors), v.plan.InvalidRows())
		return nil
	}
	if len(v.plan.Rows) == 0 {
		v.status = "Nothing to import"
		return nil
	}
	v.submitting = true
	v.status = "Submitting..."
	plan := v.plan
	return func() tea.Msg {
		return Submit{Plan: plan}
	}
}

// View renders the view
func (v *ReviewView) View() string {
	s := v.styles

	parts := []string{
		v.renderTitle(),
		v.table.View(),
		v.renderDetail(),
	}
	if v.status != "" {
		style := s.StatusBar
		if !v.plan.Valid() {
			style = s.StatusError
		}
		parts = append(parts, style.Render(v.status))
	}
	parts = append(parts, s.Help.Render(v.help.View(v.keys)))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *ReviewView) renderTitle() string {
	s := v.styles
	p := v.plan

	title := s.Title.Render("Import " + string(p.Entity))
	info := fmt.Sprintf("%s • %d row(s)", p.Source, len(p.Rows))
	errs := s.RowSuccess.Render("no errors")
	if n := len(p.Errors); n > 0 {
		errs = s.RowError.Render(fmt.Sprintf("%d error(s)", n))
	}
	filter := ""
	if v.errorsOnly {
		filter = s.TitleMuted.Render(" [errors only]")
	}
	return s.TitleBar.Render(title + "  " + s.TitleMuted.Render(info) + "  " + errs + filter)
}

func (v *ReviewView) renderDetail() string {
	s := v.styles
	width := styles.ContentWidth(v.width) - 4

	r, ok := v.Selected()
	if !ok {
		msg := "No rows"
		if v.errorsOnly {
			msg = "No invalid rows"
		}
		return s.Panel.Width(width).Render(s.TitleMuted.Render(msg))
	}

	lines := []string{s.Title.Render(fmt.Sprintf("Row %d", r.Row))}
	if r.Valid() {
		lines = append(lines, s.RowSuccess.Render("All fields valid"))
	}
	for i, e := range r.Errors {
		if i == detailMaxLines-1 && len(r.Errors) > detailMaxLines {
			lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("... %d more", len(r.Errors)-i)))
			break
		}
		line := e.Message
		if e.Column != "" {
			line = e.Column + ": " + e.Message
		}
		lines = append(lines, s.ErrorText.Render("• "+line))
	}
	return s.Panel.Width(width).Render(strings.Join(lines, "\n"))
}
