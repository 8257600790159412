package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/persist"
	"github.com/verte-zerg/mulligan/internal/round"
	"github.com/verte-zerg/mulligan/internal/store"
)

func testCourse(name string, pars ...int) model.Course {
	holes := make([]model.Hole, len(pars))
	for i, par := range pars {
		holes[i] = model.Hole{Number: i + 1, Par: par}
	}
	return model.Course{Name: name, Location: "Twickenham", Holes: holes}
}

func newTestModel(t *testing.T, course model.Course) (*Model, *persist.Repository, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	repo := persist.New(kv, nil)
	s, err := round.Start(context.Background(), repo, course)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return NewModel(context.Background(), s, repo, nil), repo, kv
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStrokeKeysClamp(t *testing.T) {
	m, _, _ := newTestModel(t, testCourse("Fulwell", 4, 4))

	press(m, "-", "-", "-", "-", "-")
	if v, _ := m.session.StrokesFor(0); v != 1 {
		t.Fatalf("expected strokes clamped to 1, got %d", v)
	}
	press(m, "9")
	if v, _ := m.session.StrokesFor(0); v != 9 {
		t.Fatalf("expected 9 strokes, got %d", v)
	}
	press(m, "+", "+", "+")
	if v, _ := m.session.StrokesFor(0); v != round.MaxStrokes(4) {
		t.Fatalf("expected strokes clamped to %d, got %d", round.MaxStrokes(4), v)
	}
}

func TestEnterPlaysThroughRound(t *testing.T) {
	m, repo, _ := newTestModel(t, testCourse("Fulwell", 4, 3))
	ctx := context.Background()

	press(m, "enter")
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("expected hole index 1, got %d", m.session.CurrentIndex())
	}
	if _, ok := repo.LoadRound(ctx); !ok {
		t.Fatalf("expected snapshot after advancing")
	}

	press(m, "enter")
	if m.session.State() != round.StateReviewing {
		t.Fatalf("expected review, got %s", m.session.State())
	}
	if !strings.Contains(m.View(), "Round Summary") {
		t.Fatalf("expected summary view")
	}

	press(m, "enter")
	game, ok := m.Game()
	if !ok {
		t.Fatalf("expected finished game")
	}
	if len(game.Scores) != 2 || game.Scores[0].Strokes != 4 || game.Scores[1].Strokes != 3 {
		t.Fatalf("unexpected scores: %+v", game.Scores)
	}
	if len(repo.LoadGames(ctx)) != 1 {
		t.Fatalf("expected stored game")
	}
	if _, ok := repo.LoadRound(ctx); ok {
		t.Fatalf("expected snapshot cleared")
	}
	if !strings.Contains(m.View(), "Round Complete!") {
		t.Fatalf("expected completion view")
	}
	if !isQuit(press(m, "x")) {
		t.Fatalf("expected any key to quit after completion")
	}
}

func TestPrevEditsPlayedHole(t *testing.T) {
	m, _, _ := newTestModel(t, testCourse("Fulwell", 4, 4, 5))

	press(m, "enter", "enter", "left")
	if m.session.FocusIndex() != 1 || m.session.CurrentIndex() != 2 {
		t.Fatalf("unexpected focus/current: %d/%d", m.session.FocusIndex(), m.session.CurrentIndex())
	}
	press(m, "7", "enter")
	if v, _ := m.session.StrokesFor(1); v != 7 {
		t.Fatalf("expected edited hole to hold 7, got %d", v)
	}
	if m.session.FocusIndex() != 2 {
		t.Fatalf("expected enter to return to the current hole")
	}
}

func TestFinishOnlyOnLastHole(t *testing.T) {
	m, _, _ := newTestModel(t, testCourse("Fulwell", 4, 4))
	press(m, "f")
	if m.session.State() != round.StatePlaying {
		t.Fatalf("expected to keep playing, got %s", m.session.State())
	}
	if m.errMsg != "Finish is available on the last hole" {
		t.Fatalf("unexpected message %q", m.errMsg)
	}
}

func TestSaveKeyExits(t *testing.T) {
	m, repo, _ := newTestModel(t, testCourse("Fulwell", 4, 4))
	press(m, "5")
	if !isQuit(press(m, "s")) {
		t.Fatalf("expected quit after save")
	}
	if m.session.State() != round.StateExited {
		t.Fatalf("expected exited, got %s", m.session.State())
	}
	saved, ok := repo.LoadRound(context.Background())
	if !ok || len(saved.Scores) != 1 || *saved.Scores[0] != 5 {
		t.Fatalf("unexpected snapshot: %+v", saved)
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after exit")
	}
}

func TestSaveFailureKeepsModelOpen(t *testing.T) {
	m, _, kv := newTestModel(t, testCourse("Fulwell", 4, 4))
	kv.PutErr = errors.New("disk full")

	if isQuit(press(m, "s")) {
		t.Fatalf("expected to stay open when the save fails")
	}
	if m.session.State() != round.StatePlaying {
		t.Fatalf("expected playing, got %s", m.session.State())
	}
	if !strings.Contains(m.errMsg, "Round not saved") || !strings.Contains(m.errMsg, "disk full") {
		t.Fatalf("unexpected message %q", m.errMsg)
	}
	if !isQuit(press(m, "ctrl+c")) {
		t.Fatalf("expected ctrl+c to quit regardless")
	}
}

func TestFinishClearFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	m, repo, kv := newTestModel(t, testCourse("Fulwell", 4, 3))
	press(m, "enter")
	kv.DeleteErr = errors.New("disk full")

	press(m, "f")
	if _, ok := m.Game(); ok {
		t.Fatalf("expected round to stay open while the saved copy remains")
	}
	if !strings.Contains(m.errMsg, "press f to retry") {
		t.Fatalf("unexpected message %q", m.errMsg)
	}

	kv.DeleteErr = nil
	press(m, "f")
	if _, ok := m.Game(); !ok {
		t.Fatalf("expected finished game after retry")
	}
	if n := len(repo.LoadGames(ctx)); n != 1 {
		t.Fatalf("expected one stored game, got %d", n)
	}
}

func TestAdvanceReportsUnsavedProgress(t *testing.T) {
	m, _, kv := newTestModel(t, testCourse("Fulwell", 4, 4, 4))
	kv.PutErr = errors.New("disk full")
	press(m, "enter")
	if m.session.CurrentIndex() != 1 {
		t.Fatalf("expected play to continue")
	}
	if !strings.HasPrefix(m.errMsg, "Progress not saved") {
		t.Fatalf("unexpected message %q", m.errMsg)
	}
	kv.PutErr = nil
	press(m, "enter")
	if m.errMsg != "" {
		t.Fatalf("expected message cleared, got %q", m.errMsg)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := persist.New(kv, nil)
	course := testCourse("Fulwell", 4, 4)
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, strokes := range [][2]int{{4, 4}, {5, 5}} {
		g := model.Game{
			Date:   day.AddDate(0, 0, i),
			Course: course,
			Scores: []model.Score{{HoleNumber: 1, Strokes: strokes[0]}, {HoleNumber: 2, Strokes: strokes[1]}},
		}
		if err := repo.AppendGame(ctx, g); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	s, err := round.Start(ctx, repo, course)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	m := NewModel(ctx, s, repo, nil)
	press(m, "5")

	out := m.renderFooter()
	if !containsAll(out, []string{"Total 5 (+1)", "Last here +2", "Avg here +1.0 over 2"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
