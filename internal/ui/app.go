package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/firmdesk/internal/importer"
	"github.com/tgienger/firmdesk/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewReview View = iota
	ViewOutcome
)

// Executor submits a reviewed plan.
type Executor interface {
	Execute(ctx context.Context, p *importer.Plan) (*importer.Report, error)
}

type App struct {
	ctx         context.Context
	exec        Executor
	plan        *importer.Plan
	currentView View
	review      *views.ReviewView
	outcome     *views.OutcomeView
	result      *views.Submitted
	width       int
	height      int
}

// Creates a new review application for plan
func NewApp(ctx context.Context, plan *importer.Plan, exec Executor) *App {
	return &App{
		ctx:         ctx,
		exec:        exec,
		plan:        plan,
		currentView: ViewReview,
		review:      views.NewReviewView(plan),
	}
}

func (a *App) Init() tea.Cmd {
	return a.review.Init()
}

func (a *App) execute(p *importer.Plan) tea.Cmd {
	return func() tea.Msg {
		report, err := a.exec.Execute(a.ctx, p)
		return views.Submitted{Report: report, Err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.Submit:
		a.plan = msg.Plan
		return a, a.execute(msg.Plan)

	case views.Retry:
		a.plan = a.plan.Retry(msg.Report)
		return a, a.execute(a.plan)

	case views.Submitted:
		a.result = &msg
		a.currentView = ViewOutcome
		a.outcome = views.NewOutcomeView(msg)
		return a, func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewReview:
		_, cmd = a.review.Update(msg)
	case ViewOutcome:
		_, cmd = a.outcome.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewOutcome:
		if a.outcome != nil {
			return a.outcome.View()
		}
	}
	return a.review.View()
}

// Result returns the latest submission result, or false if the user quit without
// submitting.
func (a *App) Result() (views.Submitted, bool) {
	if a.result == nil {
		return views.Submitted{}, false
	}
	return *a.result, true
}

// Run shows the review screen until the user quits.
func Run(ctx context.Context, plan *importer.Plan, exec Executor) (*App, error) {
	app := NewApp(ctx, plan, exec)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return app, nil
}
