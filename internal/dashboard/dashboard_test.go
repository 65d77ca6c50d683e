package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanglvm/sales-pipeline/internal/pipeline"
)

type runnerFunc func(ctx context.Context, rec pipeline.Record) (pipeline.Record, error)

func (f runnerFunc) Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error) {
	return f(ctx, rec)
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNewPrefillsDefaultSales(t *testing.T) {
	m := New(context.Background(), nil)
	assert.Equal(t, "100000", m.input.Value())
}

func TestEnterRunsPipelineAndRendersResult(t *testing.T) {
	var got float64
	runner := runnerFunc(func(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
		got = rec.LatestSales
		rec.Anomaly = true
		rec.ZScore = 8.333333
		rec.SQLAvgSales = 27512.4
		rec.ForecastSales = 385000
		rec.RAGInsight = "RAG Search: Sales decline reasons include seasonality."
		rec.Decision = "🚨 CRITICAL: Extreme sales spike detected"
		rec.Action = "[URGENT] Market Opportunity Response"
		return rec, nil
	})

	m := New(context.Background(), runner)
	m.input.SetValue("350,000")

	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.running)
	assert.Contains(t, m.View(), "Running workflow...")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.running)
	assert.Equal(t, 350000.0, got)

	view := m.View()
	for _, want := range []string{
		"Anomaly Detected:", "true",
		"Z-Score:", "8.33",
		"Forecast Sales:", "$385,000",
		"Avg Sales (SQL):", "$27,512",
		"Decision:", "CRITICAL",
		"RAG Insight:", "seasonality",
		"Recommended Action:", "[URGENT]",
	} {
		assert.Contains(t, view, want)
	}
}

func TestEnterIgnoredWhileRunning(t *testing.T) {
	m := New(context.Background(), runnerFunc(func(_ context.Context, rec pipeline.Record) (pipeline.Record, error) {
		return rec, nil
	}))
	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)

	_, cmd = press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
}

func TestInvalidInputShowsError(t *testing.T) {
	m := New(context.Background(), nil)
	m.input.SetValue("lots")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.running)
	assert.Contains(t, m.View(), "latest sales must be a number")
}

func TestRunnerErrorIsShown(t *testing.T) {
	m := New(context.Background(), runnerFunc(func(context.Context, pipeline.Record) (pipeline.Record, error) {
		return pipeline.Record{}, errors.New("store exploded")
	}))

	m, cmd := press(t, m, tea.KeyEnter)
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.Nil(t, m.result)
	assert.Contains(t, m.View(), "Workflow failed: store exploded")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := press(t, New(context.Background(), nil), key)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	}
}

func TestParseSales(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", pipeline.DefaultLatestSales, false},
		{"  ", pipeline.DefaultLatestSales, false},
		{"25000", 25000, false},
		{"$1,250.50", 1250.5, false},
		{"-10", -10, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSales(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWindowSizeWrapsLongText(t *testing.T) {
	m := New(context.Background(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	m = next.(Model)
	rec := pipeline.Record{Action: strings.Repeat("word ", 20)}
	m.result = &rec

	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(line))), 60)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
