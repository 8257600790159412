// Package tui provides the Bubble Tea score-entry interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/round"
	"github.com/verte-zerg/mulligan/internal/stats"
)

// Model implements the Bubble Tea score-entry UI.
type Model struct {
	ctx     context.Context
	session *round.Session
	logger  *slog.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	errMsg string
	game   *model.Game

	lastToPar  int
	hasLast    bool
	avgToPar   float64
	roundsHere int
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	holeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	strokesStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

var classStyles = map[model.ScoreClass]lipgloss.Style{
	model.ClassEagleOrBetter: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
	model.ClassBirdie:        lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")),
	model.ClassPar:           lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
	model.ClassBogey:         lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A060")),
	model.ClassDoubleBogey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	model.ClassOther:         lipgloss.NewStyle().Foreground(lipgloss.Color("#B03A3A")),
}

func classStyle(strokes, par int) lipgloss.Style {
	return classStyles[model.Classify(strokes, par)]
}

// NewModel constructs a score-entry model for a started session. history
// feeds the footer comparison with earlier rounds and may be nil.
func NewModel(ctx context.Context, session *round.Session, history stats.GameLoader, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Model{
		ctx:     ctx,
		session: session,
		logger:  logger,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	if history != nil {
		m.loadFooterStats(history)
	}
	return m
}

// Game returns the finished game, if the round was completed.
func (m *Model) Game() (model.Game, bool) {
	if m.game == nil {
		return model.Game{}, false
	}
	return *m.game, true
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
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.State() == round.StateCompleted {
		return m, tea.Quit
	}
	switch {
	case msg.Type == tea.KeyCtrlC:
		// Leave even when the snapshot could not be written.
		m.saveAndExit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		if m.saveAndExit() {
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.Finish):
		m.finish()
	case key.Matches(msg, m.keys.Next):
		m.next()
	case key.Matches(msg, m.keys.Prev):
		m.prev()
	case key.Matches(msg, m.keys.More):
		m.step(1)
	case key.Matches(msg, m.keys.Less):
		m.step(-1)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		m.set(int(msg.Runes[0] - '0'))
	}
	return m, nil
}

func (m *Model) step(delta int) {
	if m.session.State() != round.StatePlaying {
		return
	}
	idx := m.session.FocusIndex()
	hole := m.session.CurrentHole()
	m.record(idx, round.ClampStrokes(m.session.DisplayStrokes(idx)+delta, hole.Par))
}

func (m *Model) set(strokes int) {
	if m.session.State() != round.StatePlaying {
		return
	}
	hole := m.session.CurrentHole()
	m.record(m.session.FocusIndex(), round.ClampStrokes(strokes, hole.Par))
}

func (m *Model) record(idx, strokes int) {
	if err := m.session.RecordStroke(idx, strokes); err != nil {
		m.fail("Score not recorded", err)
		return
	}
	m.errMsg = ""
}

func (m *Model) next() {
	s := m.session
	switch {
	case s.State() == round.StateReviewing:
		m.finish()
	case s.FocusIndex() != s.CurrentIndex():
		s.ReturnToCurrent()
	case s.IsLastHole():
		if err := s.Review(); err != nil {
			m.fail("Cannot review round", err)
		}
	default:
		if err := s.Advance(m.ctx); err != nil {
			m.fail("Cannot advance", err)
			return
		}
		if err := s.LastPersistErr(); err != nil {
			m.errMsg = fmt.Sprintf("Progress not saved: %v", err)
			return
		}
		m.errMsg = ""
	}
}

func (m *Model) prev() {
	s := m.session
	if s.State() == round.StateReviewing {
		if err := s.Resume(); err != nil {
			m.fail("Cannot return to play", err)
		}
		return
	}
	if s.FocusIndex() == 0 {
		return
	}
	if err := s.Jump(s.FocusIndex() - 1); err != nil {
		m.fail("Cannot go back", err)
	}
}

func (m *Model) finish() {
	s := m.session
	if s.State() == round.StatePlaying && !s.IsLastHole() {
		m.errMsg = "Finish is available on the last hole"
		return
	}
	game, err := s.Finish(m.ctx)
	if err != nil {
		if s.GameStored() {
			m.fail("Round stored but saved copy not cleared, press f to retry", err)
			return
		}
		m.fail("Round not saved", err)
		return
	}
	m.game = &game
	m.errMsg = ""
}

func (m *Model) saveAndExit() bool {
	if m.session.GameStored() {
		m.finish()
		return m.game != nil
	}
	if err := m.session.SaveAndExit(m.ctx); err != nil {
		m.fail("Round not saved", err)
		return false
	}
	return true
}

func (m *Model) fail(prefix string, err error) {
	m.errMsg = fmt.Sprintf("%s: %v", prefix, err)
	m.logger.DebugContext(m.ctx, "score entry action failed", "action", prefix, "error", err)
}

func (m *Model) loadFooterStats(history stats.GameLoader) {
	games := stats.GamesAtCourse(history.LoadGames(m.ctx), m.session.Course().Name)
	if len(games) == 0 {
		return
	}
	last := stats.RecentGames(games, 1)
	m.lastToPar = stats.ScoreToPar(last[0])
	m.hasLast = true
	sum := stats.Summarize(games)
	m.avgToPar = sum.AvgToPar
	m.roundsHere = sum.Rounds
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.session.State() {
	case round.StateCompleted:
		content = m.renderCompleted()
	case round.StateReviewing:
		content = m.renderReview()
	case round.StateExited:
		return ""
	default:
		content = m.renderHole()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+2 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) renderHole() string {
	s := m.session
	course := s.Course()
	hole := s.CurrentHole()
	idx := s.FocusIndex()

	lines := []string{
		titleStyle.Render(courseTitle(course)),
		"",
		holeStyle.Render(fmt.Sprintf("Hole %d of %d", hole.Number, len(course.Holes))) + pendingStyle.Render(fmt.Sprintf("  Par %d", hole.Par)),
	}
	if idx != s.CurrentIndex() {
		current, _ := s.Hole(s.CurrentIndex())
		lines = append(lines, pendingStyle.Render(fmt.Sprintf("Editing a played hole, enter returns to hole %d", current.Number)))
	}

	strokes := s.DisplayStrokes(idx)
	label := "not entered"
	style := strokesStyle.Foreground(pendingStyle.GetForeground())
	if v, ok := s.StrokesFor(idx); ok {
		label = model.Classify(v, hole.Par).String()
		style = strokesStyle.Foreground(classStyle(v, hole.Par).GetForeground())
	}
	lines = append(lines, "", style.Render(fmt.Sprintf("%d", strokes)), pendingStyle.Render(label), "")
	lines = append(lines, renderScorecard(scorecardCells(s), m.width))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderReview() string {
	s := m.session
	strokes, par := s.Totals()
	lines := []string{
		titleStyle.Render("Round Summary"),
		pendingStyle.Render(courseTitle(s.Course())),
		"",
		renderScorecard(scorecardCells(s), m.width),
		"",
		fmt.Sprintf("Total %d  Par %d  %s vs par", strokes, par, stats.FormatToPar(strokes-par)),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCompleted() string {
	if m.game == nil {
		return titleStyle.Render("Round Complete!")
	}
	g := *m.game
	lines := []string{
		titleStyle.Render("Round Complete!"),
		fmt.Sprintf("Course: %s", g.Course.Name),
		fmt.Sprintf("Total Score: %d", stats.TotalStrokes(g)),
		fmt.Sprintf("Par: %d", stats.TotalPar(g)),
		titleStyle.Render(fmt.Sprintf("%s vs Par", stats.FormatToPar(stats.ScoreToPar(g)))),
		"",
		pendingStyle.Render("Press any key to exit"),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	var segments []string
	s := m.session
	if s.State() == round.StatePlaying || s.State() == round.StateReviewing {
		strokes, par := s.Totals()
		segments = append(segments, fmt.Sprintf("Total %d (%s)", strokes, stats.FormatToPar(strokes-par)))
	}
	if s.Resumed() {
		segments = append(segments, "Resumed")
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last here %s", stats.FormatToPar(m.lastToPar)))
	}
	if m.roundsHere > 0 {
		segments = append(segments, fmt.Sprintf("Avg here %+.1f over %d", m.avgToPar, m.roundsHere))
	}
	lines := []string{footerStyle.Render(strings.Join(segments, "  "))}
	if s.State() != round.StateCompleted {
		lines = append(lines, m.help.View(m.keys.forState(s)))
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func courseTitle(c model.Course) string {
	if c.Location == "" {
		return c.Name
	}
	return c.Name + " · " + c.Location
}
