// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/history"
	"github.com/verte-zerg/saype/internal/model"
	"github.com/verte-zerg/saype/internal/stats"
)

const (
	tabAttempts = iota
	tabOverview
)

const weakTop = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Underline(true)
	missingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Source is the part of the history store the browser needs.
type Source interface {
	List(ctx context.Context) ([]model.HistoryRecord, error)
	Clear(ctx context.Context) error
}

// Model implements the Bubble Tea history UI.
type Model struct {
	source Source
	cfg    model.StatsConfig

	// records are most recent first, as stored.
	records []model.HistoryRecord
	report  stats.Report
	errMsg  string

	tabs      []string
	activeTab int
	overview  viewport.Model
	attempts  table.Model

	width  int
	height int

	detail     *model.HistoryRecord
	confirming bool
}

// NewModel constructs a history UI model.
func NewModel(src Source, cfg model.StatsConfig) *Model {
	m := &Model{
		source:   src,
		cfg:      cfg,
		tabs:     []string{"Attempts", "Overview"},
		overview: viewport.New(0, 0),
		attempts: buildAttemptsTable(nil, 0, 1),
	}
	m.attempts.Focus()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirming {
			return m.updateConfirm(msg)
		}
		if m.detail != nil {
			switch msg.String() {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h", "right", "l", "tab":
			m.toggleTab()
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refresh()
			return m, nil
		case "c":
			if len(m.records) > 0 {
				m.confirming = true
			}
			return m, nil
		case "enter":
			if m.activeTab == tabAttempts {
				m.openDetail()
			}
			return m, nil
		}
		if m.activeTab == tabAttempts {
			var cmd tea.Cmd
			m.attempts, cmd = m.attempts.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirming {
		return m.renderModal(strings.Join([]string{
			titleStyle.Render("Clear history?"),
			fmt.Sprintf("This removes all %d saved attempts.", len(m.records)),
			headerStyle.Render("y to confirm / n to cancel"),
		}, "\n"))
	}
	if m.detail != nil {
		return m.renderModal(renderDetail(*m.detail, modalInnerWidth(m.width)))
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.confirming = false
		if err := m.source.Clear(context.Background()); err != nil {
			m.errMsg = fmt.Sprintf("failed to clear history: %v", err)
			return m, nil
		}
		m.refresh()
	case "n", "esc", "q":
		m.confirming = false
	}
	return m, nil
}

func (m *Model) openDetail() {
	idx := m.attempts.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return
	}
	rec := m.records[idx]
	m.detail = &rec
}

func (m *Model) toggleTab() {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	if m.activeTab == tabAttempts {
		m.attempts.Focus()
	} else {
		m.attempts.Blur()
	}
}

func (m *Model) refresh() {
	records, err := m.source.List(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	report, err := stats.BuildReport(context.Background(), staticSource(records), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.records = records
	m.report = report
	m.attempts.SetRows(attemptRows(records))
	if m.attempts.Cursor() >= len(records) {
		m.attempts.SetCursor(max(len(records)-1, 0))
	}
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load history.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := m.report.Render(&buf, weakTop, stats.SparklineWidthFor(width)); err != nil {
		m.overview.SetContent(fmt.Sprintf("Failed to render stats: %v", err))
		return
	}
	m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.attempts.SetColumns(attemptColumns(m.width))
	m.attempts.SetWidth(m.width)
	m.attempts.SetHeight(max(bodyHeight-1, 1))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabOverview {
		return m.overview.View()
	}
	if len(m.records) == 0 {
		return "No practice records yet."
	}
	return tableMutedStyle.Render(m.attempts.View())
}

func (m *Model) renderFooter() string {
	help := fmt.Sprintf("Nav: tab  Details: enter  Clear: c  Window: -/= (%d)  Quit: q", max(m.cfg.CurveWindow, 1))
	help = headerStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderModal(content string) string {
	box := modalStyle.Width(modalWidth(m.width)).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderDetail re-runs the comparison on the stored texts of rec.
func renderDetail(rec model.HistoryRecord, width int) string {
	res := history.Replay(rec)
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Attempt %d", rec.ID)),
		headerStyle.Render(rec.Date),
		"",
		fmt.Sprintf("Accuracy: %s%% - %s", rec.Accuracy, verdict(rec.Accuracy)),
		"",
		"Reference:",
		wrap(diffLine(res.Comparison.ReferenceWords()), width),
		"Recognized:",
		wrap(diffLine(res.Comparison.RecognizedWords()), width),
		"",
	}
	if len(res.Comparison.Errors) == 0 {
		lines = append(lines, correctStyle.Render("Pronunciation is accurate, keep it up!"))
	} else {
		for _, msg := range res.Comparison.Errors {
			lines = append(lines, wrap("• "+msg, width))
		}
	}
	lines = append(lines, "", headerStyle.Render("esc to close"))
	return strings.Join(lines, "\n")
}

func diffLine(words []assess.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		switch {
		case w.Text == "":
			parts[i] = missingStyle.Render("·")
		case w.Match:
			parts[i] = correctStyle.Render(w.Text)
		default:
			parts[i] = incorrectStyle.Render(w.Text)
		}
	}
	return strings.Join(parts, " ")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func attemptColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Date", Width: 19},
		{Title: "Accuracy", Width: 9},
		{Title: "Verdict", Width: 17},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 1
	}
	cols = append(cols, table.Column{Title: "Text", Width: max(width-used-1, 12)})
	return cols
}

func attemptRows(records []model.HistoryRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row{
			strconv.FormatInt(rec.ID, 10),
			rec.Date,
			rec.Accuracy + "%",
			verdict(rec.Accuracy),
			rec.OriginalText,
		})
	}
	return rows
}

// verdict labels a stored accuracy string. Unparseable values get no label.
func verdict(accuracy string) string {
	score, err := strconv.ParseFloat(strings.TrimSpace(accuracy), 64)
	if err != nil {
		return ""
	}
	return assess.BandFor(score).Label()
}

func buildAttemptsTable(records []model.HistoryRecord, width, height int) table.Model {
	t := table.New(
		table.WithColumns(attemptColumns(width)),
		table.WithRows(attemptRows(records)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(attemptsTableStyles())
	return t
}

func attemptsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

type staticSource []model.HistoryRecord

func (s staticSource) List(context.Context) ([]model.HistoryRecord, error) {
	return s, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	return max(modalWidth(width)-6, 10) // 2 border + 4 padding
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
