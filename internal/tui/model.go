// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/model"
	"github.com/verte-zerg/saype/internal/passage"
	statsPkg "github.com/verte-zerg/saype/internal/stats"
)

const missingMark = "·"

// History is the part of the history store the practice UI needs.
type History interface {
	Append(ctx context.Context, reference, recognized string) (model.HistoryRecord, error)
	List(ctx context.Context) ([]model.HistoryRecord, error)
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	history  History
	picker   *passage.Picker
	passages []string

	width  int
	height int

	reference string
	input     textinput.Model
	result    *assess.Result
	saveErr   string

	lastAcc  string
	hasLast  bool
	allTotal float64
	allCount int
}

var (
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Underline(true)
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	bandStyles     = map[assess.Band]lipgloss.Style{
		assess.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		assess.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")).Bold(true),
		assess.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
	}
)

// NewModel constructs a practice TUI model.
func NewModel(cfg model.Config, history History, picker *passage.Picker, passages []string) *Model {
	input := textinput.New()
	input.Placeholder = "type what you said, or paste the recognizer output"
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		config:   cfg,
		history:  history,
		picker:   picker,
		passages: passages,
		input:    input,
	}
	m.nextPassage()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.contentWidth()-len(m.input.Prompt)-1, 1)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.nextPassage()
			return m, nil
		case tea.KeyEnter:
			if m.result != nil {
				m.nextPassage()
				return m, nil
			}
			m.submit()
			return m, nil
		}
		if m.result != nil {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.reference == "" {
		return ""
	}
	width := m.contentWidth()
	sections := []string{labelStyle.Render("Read aloud:")}
	if m.result != nil {
		sections = append(sections,
			wrapWords(buildDiffWords(m.result.Comparison.ReferenceWords()), width),
			"",
			labelStyle.Render("Recognized:"),
			wrapWords(buildDiffWords(m.result.Comparison.RecognizedWords()), width),
			"",
			m.renderResult(),
		)
	} else {
		sections = append(sections,
			wrapWords(buildPlainWords(m.reference), width),
			"",
			m.input.View(),
		)
	}
	if m.saveErr != "" {
		sections = append(sections, errorStyle.Render(m.saveErr))
	}
	content := lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.config.Width > 0 {
		if m.width > 0 {
			return min(m.config.Width, m.width)
		}
		return m.config.Width
	}
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderResult() string {
	res := m.result
	style := bandStyles[res.Band]
	lines := []string{style.Render(fmt.Sprintf("Accuracy %s%% - %s", assess.FormatScore(res.Score), res.Band.Label()))}
	if len(res.Comparison.Errors) == 0 {
		lines = append(lines, correctStyle.Render("Pronunciation is accurate, keep it up!"))
	} else {
		for _, msg := range res.Comparison.Errors {
			lines = append(lines, "  • "+msg)
		}
	}
	lines = append(lines, "", footerStyle.Render("enter next passage · esc quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("%d chars", utf8.RuneCountInString(m.reference))}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %s%%", m.lastAcc))
	}
	if m.allCount > 0 {
		segments = append(segments, fmt.Sprintf("Avg %s%% over %d", assess.FormatScore(m.allTotal/float64(m.allCount)), m.allCount))
	}
	segments = append(segments, "tab skip")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) submit() {
	recognized := assess.Normalize(m.input.Value())
	if recognized == "" {
		return
	}
	reference := assess.Normalize(m.reference)
	res := assess.Assess(reference, recognized)
	m.result = &res
	m.saveErr = ""

	rec, err := m.history.Append(context.Background(), reference, recognized)
	if err != nil {
		m.saveErr = fmt.Sprintf("failed to save attempt: %v", err)
		logErrf("failed to save attempt: %v\n", err)
		return
	}
	m.lastAcc = rec.Accuracy
	m.hasLast = true
	m.allTotal += res.Score
	m.allCount++
}

func (m *Model) nextPassage() {
	m.reference = m.picker.Next(m.passages)
	m.result = nil
	m.saveErr = ""
	m.input.Reset()
}

func (m *Model) loadFooterStats() {
	records, err := m.history.List(context.Background())
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		return
	}
	if len(records) == 0 {
		return
	}
	m.lastAcc = records[0].Accuracy
	m.hasLast = true
	summary := statsPkg.Summarize(records)
	m.allTotal = summary.Avg * float64(summary.Count)
	m.allCount = summary.Count
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
