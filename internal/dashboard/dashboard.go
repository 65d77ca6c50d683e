// Package dashboard is an interactive terminal form that runs the pipeline
// for a typed-in sales figure and renders the resulting record.
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/khanglvm/sales-pipeline/internal/rules"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error)
}

type resultMsg struct {
	record pipeline.Record
	err    error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctx    context.Context
	runner Runner

	input    textinput.Model
	running  bool
	result   *pipeline.Record
	err      error
	inputErr string

	width  int
	styles Styles
}

// New creates a dashboard model with the input prefilled to the default sales figure.
func New(ctx context.Context, runner Runner) Model {
	ti := textinput.New()
	ti.Placeholder = "Latest sales"
	ti.CharLimit = 20
	ti.Width = 20
	ti.SetValue(strconv.FormatFloat(pipeline.DefaultLatestSales, 'f', -1, 64))
	ti.Focus()

	return Model{
		ctx:    ctx,
		runner: runner,
		input:  ti,
		styles: DefaultStyles(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			sales, err := parseSales(m.input.Value())
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.inputErr = ""
			m.running = true
			return m, m.run(sales)
		}

	case resultMsg:
		m.running = false
		m.err = msg.err
		if msg.err == nil {
			rec := msg.record
			m.result = &rec
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) run(sales float64) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		rec, err := runner.Run(ctx, pipeline.NewRecord(sales))
		return resultMsg{record: rec, err: err}
	}
}

// parseSales reads the input field. An empty field means the default figure.
func parseSales(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	raw = strings.TrimPrefix(raw, "$")
	if raw == "" {
		return pipeline.DefaultLatestSales, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("latest sales must be a number, got %q", raw)
	}
	return v, nil
}

// View renders the form and the most recent result.
func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Sales Decision Pipeline"))
	b.WriteString("\n")
	b.WriteString(s.Label.Render("Latest Sales: "))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.inputErr != "" {
		b.WriteString(s.Error.Render(m.inputErr))
		b.WriteString("\n")
	}

	switch {
	case m.running:
		b.WriteString(s.Help.Render("Running workflow..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(s.Error.Render("Workflow failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString(m.renderResult(*m.result))
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render("enter: run workflow • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderResult(rec pipeline.Record) string {
	s := m.styles

	anomaly := s.Calm.Render("false")
	if rec.Anomaly {
		anomaly = s.Alert.Render("true")
	}

	wrap := s.Value
	if m.width > 4 {
		wrap = wrap.Width(m.width - 4)
	}

	rows := []string{
		s.Label.Render("Anomaly Detected: ") + anomaly,
		s.Label.Render("Z-Score: ") + s.Value.Render(fmt.Sprintf("%.2f", rec.ZScore)),
		s.Label.Render("Forecast Sales: ") + s.Value.Render(rules.Currency(rec.ForecastSales)),
		s.Label.Render("Avg Sales (SQL): ") + s.Value.Render(rules.Currency(rec.SQLAvgSales)),
		s.Label.Render("Decision: ") + s.Value.Render(rec.Decision),
		s.Label.Render("RAG Insight:"),
		wrap.Render(rec.RAGInsight),
		s.Label.Render("Recommended Action:"),
		wrap.Render(rec.Action),
	}

	return s.Section.Render("Workflow Results") + "\n" +
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, runner Runner, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, runner), opts...).Run()
	return err
}
