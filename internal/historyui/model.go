// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/stats"
)

const (
	tabRounds = iota
	tabSummary
	tabCard
)

const maxTrendWindow = 20

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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	ctx    context.Context
	loader stats.GameLoader
	cfg    model.HistoryConfig

	games   []model.Game
	courses []string
	report  stats.Report
	card    *model.Game
	errMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	rounds    table.Model

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewModel constructs a history UI model.
func NewModel(ctx context.Context, loader stats.GameLoader, cfg model.HistoryConfig) *Model {
	m := &Model{
		ctx:    ctx,
		loader: loader,
		cfg:    cfg,
		tabs:   []string{"Rounds", "Summary", "Card"},
		keys:   newKeyMap(),
		help:   help.New(),
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.initInputs()
	m.rounds = table.New(
		table.WithColumns(roundColumns()),
		table.WithFocused(true),
		table.WithStyles(roundTableStyles()),
	)
	m.reload()
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
		m.help.Width = msg.Width
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			return m.startFilter()
		case key.Matches(msg, m.keys.PrevTab):
			m.moveTab(-1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.NextTab):
			m.moveTab(1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.Open):
			m.openSelected()
			return m, nil
		case key.Matches(msg, m.keys.Course):
			m.cfg.Course = nextCourse(m.courses, m.cfg.Course)
			m.refreshReport()
			return m, nil
		case key.Matches(msg, m.keys.Wider):
			m.cfg.TrendWindow = min(maxTrendWindow, max(1, m.cfg.TrendWindow)+1)
			m.refreshReport()
			return m, nil
		case key.Matches(msg, m.keys.Narrower):
			m.cfg.TrendWindow = max(1, m.cfg.TrendWindow-1)
			m.refreshReport()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.updateLayout()
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabRounds {
				m.rounds, cmd = m.rounds.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// reload reads every stored game and rebuilds the filtered report.
func (m *Model) reload() {
	m.games = m.loader.LoadGames(m.ctx)
	m.courses = courseNames(m.games)
	m.refreshReport()
}

func (m *Model) refreshReport() {
	m.report = stats.NewReport(m.games, m.cfg)
	m.rounds.SetRows(roundRows(m.report.Recent))
	m.rounds.SetCursor(0)
	m.card = nil
	m.renderTabContents()
}

func (m *Model) openSelected() {
	if m.activeTab != tabRounds {
		return
	}
	idx := m.rounds.Cursor()
	if idx < 0 || idx >= len(m.report.Recent) {
		return
	}
	game := m.report.Recent[idx]
	m.card = &game
	m.renderTabContents()
	m.activeTab = tabCard
	m.rounds.Blur()
}

func (m *Model) renderTabContents() {
	var summary bytes.Buffer
	m.errMsg = ""
	if err := m.report.Render(&summary); err != nil {
		m.errMsg = err.Error()
	}
	m.viewports[tabSummary].SetContent(strings.TrimRight(summary.String(), "\n"))

	if m.card == nil {
		m.viewports[tabCard].SetContent("Select a round and press enter.")
		return
	}
	var card bytes.Buffer
	if err := stats.RenderGameDetail(&card, *m.card); err != nil {
		m.errMsg = err.Error()
	}
	m.viewports[tabCard].SetContent(strings.TrimRight(card.String(), "\n"))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = lipgloss.Height(m.renderFooter())
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.resizeInputs()
	m.rounds.SetWidth(m.width)
	// Header row and its border.
	m.rounds.SetHeight(max(1, bodyHeight-2))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRounds {
		m.rounds.Focus()
	} else {
		m.rounds.Blur()
	}
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

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	course := m.cfg.Course
	if course == "" {
		course = "all"
	}
	recent := "all"
	if m.cfg.Recent > 0 {
		recent = fmt.Sprintf("%d", m.cfg.Recent)
	}
	summary := fmt.Sprintf("Settings: course=%s  recent=%s  window=%d", course, recent, max(1, m.cfg.TrendWindow))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if len(m.report.All) == 0 {
		return "No games saved yet."
	}
	if m.activeTab == tabRounds {
		return m.rounds.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	out := m.help.View(m.keys)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func roundColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Course", Width: 28},
		{Title: "Score", Width: 5},
		{Title: "Par", Width: 3},
		{Title: "To Par", Width: 6},
	}
}

func roundRows(games []model.Game) []table.Row {
	rows := make([]table.Row, 0, len(games))
	for _, g := range games {
		rows = append(rows, table.Row{
			g.Date.Local().Format("2006-01-02"),
			g.Course.Name,
			fmt.Sprintf("%d", stats.TotalStrokes(g)),
			fmt.Sprintf("%d", stats.TotalPar(g)),
			stats.FormatToPar(stats.ScoreToPar(g)),
		})
	}
	return rows
}

func roundTableStyles() table.Styles {
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

// courseNames lists distinct course names in storage order.
func courseNames(games []model.Game) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, g := range games {
		if _, ok := seen[g.Course.Name]; ok {
			continue
		}
		seen[g.Course.Name] = struct{}{}
		names = append(names, g.Course.Name)
	}
	return names
}

// nextCourse cycles all -> first course -> ... -> last course -> all.
func nextCourse(courses []string, current string) string {
	if current == "" {
		if len(courses) == 0 {
			return ""
		}
		return courses[0]
	}
	for i, c := range courses {
		if model.SameCourse(c, current) {
			if i+1 < len(courses) {
				return courses[i+1]
			}
			return ""
		}
	}
	return ""
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
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
