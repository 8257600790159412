// Package round drives a single round of golf from the first tee to a
// finalized game.
package round

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/mulligan/internal/model"
)

var (
	// ErrInvalidTransition is returned when a call violates the session's
	// state preconditions. A correctly driven caller never sees it.
	ErrInvalidTransition = errors.New("invalid round transition")

	// ErrEmptyCourse is returned when starting a round on a course without holes.
	ErrEmptyCourse = errors.New("course has no holes")

	// ErrInvalidStrokes is returned for stroke counts below one.
	ErrInvalidStrokes = errors.New("strokes must be at least 1")
)

// State is the lifecycle stage of a session.
type State int

const (
	StatePlaying State = iota
	StateReviewing
	StateCompleted
	StateExited
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateReviewing:
		return "reviewing"
	case StateCompleted:
		return "completed"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Repository is the persistence the session writes through.
type Repository interface {
	LoadRound(ctx context.Context) (model.InProgressRound, bool)
	SaveRound(ctx context.Context, round model.InProgressRound) error
	ClearRound(ctx context.Context) error
	AppendGame(ctx context.Context, game model.Game) error
}

// Session is an in-progress round. It is not safe for concurrent use.
type Session struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	course  model.Course
	index   int
	focus   int
	scores  map[int]int
	state   State
	resumed bool

	pending        *model.Game
	stored         *model.Game
	lastPersistErr error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to date finished games.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Start begins a round on course. A saved round for a course with the same
// name is resumed at its hole with its recorded scores.
func Start(ctx context.Context, repo Repository, course model.Course, opts ...Option) (*Session, error) {
	if len(course.Holes) == 0 {
		return nil, fmt.Errorf("start %q: %w", course.Name, ErrEmptyCourse)
	}
	s := &Session{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		course: course,
		scores: map[int]int{},
		state:  StatePlaying,
	}
	for _, opt := range opts {
		opt(s)
	}

	if saved, ok := repo.LoadRound(ctx); ok && model.SameCourse(saved.Course.Name, course.Name) {
		s.restore(saved)
		s.logger.InfoContext(ctx, "round resumed",
			"course", course.Name,
			"hole_index", s.index,
			"recorded", len(s.scores),
		)
		return s, nil
	}
	s.logger.InfoContext(ctx, "round started", "course", course.Name, "holes", len(course.Holes))
	return s, nil
}

func (s *Session) restore(saved model.InProgressRound) {
	last := len(s.course.Holes) - 1
	s.index = saved.CurrentHoleIndex
	if s.index < 0 {
		s.index = 0
	}
	if s.index > last {
		s.index = last
	}
	for i, v := range saved.Scores {
		if i > last {
			break
		}
		if v != nil && *v >= 1 {
			s.scores[i] = *v
		}
	}
	s.focus = s.index
	s.resumed = true
}

// Course returns the course being played.
func (s *Session) Course() model.Course {
	return s.course
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	return s.state
}

// Resumed reports whether the session continued a saved round.
func (s *Session) Resumed() bool {
	return s.resumed
}

// CurrentIndex is the furthest hole reached, 0-based.
func (s *Session) CurrentIndex() int {
	return s.index
}

// FocusIndex is the hole currently shown; it differs from CurrentIndex after
// a Jump back.
func (s *Session) FocusIndex() int {
	return s.focus
}

// IsLastHole reports whether the current hole is the final one.
func (s *Session) IsLastHole() bool {
	return s.index == len(s.course.Holes)-1
}

// Hole returns the hole at index.
func (s *Session) Hole(index int) (model.Hole, bool) {
	if index < 0 || index >= len(s.course.Holes) {
		return model.Hole{}, false
	}
	return s.course.Holes[index], true
}

// CurrentHole returns the hole in focus.
func (s *Session) CurrentHole() model.Hole {
	return s.course.Holes[s.focus]
}

// StrokesFor returns the recorded strokes for a hole and whether one is set.
func (s *Session) StrokesFor(index int) (int, bool) {
	v, ok := s.scores[index]
	return v, ok
}

// DisplayStrokes is the recorded value or the hole's par when unset.
func (s *Session) DisplayStrokes(index int) int {
	if v, ok := s.scores[index]; ok {
		return v
	}
	if h, ok := s.Hole(index); ok {
		return h.Par
	}
	return 0
}

// Totals sums strokes and par over holes with a recorded score.
func (s *Session) Totals() (strokes, par int) {
	for i, v := range s.scores {
		strokes += v
		par += s.course.Holes[i].Par
	}
	return strokes, par
}

// LastPersistErr returns the most recent failed snapshot write, or nil once a
// later write succeeds.
func (s *Session) LastPersistErr() error {
	return s.lastPersistErr
}

// RecordStroke sets the score for a hole, overwriting any previous value.
// Holes ahead of the current one may be set as well.
func (s *Session) RecordStroke(index, strokes int) error {
	if (s.state != StatePlaying && s.state != StateReviewing) || s.stored != nil {
		return s.invalid("record stroke")
	}
	if index < 0 || index >= len(s.course.Holes) {
		return fmt.Errorf("record stroke on hole index %d of %d: %w", index, len(s.course.Holes), ErrInvalidTransition)
	}
	if strokes < 1 {
		return fmt.Errorf("record %d strokes: %w", strokes, ErrInvalidStrokes)
	}
	s.scores[index] = strokes
	s.pending = nil
	return nil
}

// Advance moves to the next hole, defaulting the current hole to par when it
// has no score, and saves a snapshot. A failed save is logged and kept in
// LastPersistErr; the round continues in memory.
func (s *Session) Advance(ctx context.Context) error {
	if s.state != StatePlaying || s.IsLastHole() {
		return s.invalid("advance")
	}
	s.defaultToPar(s.index)
	s.index++
	s.focus = s.index
	s.persistSnapshot(ctx)
	return nil
}

// Jump shows an already visited hole for editing without moving the current
// hole.
func (s *Session) Jump(index int) error {
	if s.state != StatePlaying || index < 0 || index >= s.index {
		return fmt.Errorf("jump to hole index %d from %d: %w", index, s.index, ErrInvalidTransition)
	}
	s.focus = index
	return nil
}

// ReturnToCurrent moves focus back to the current hole after a Jump.
func (s *Session) ReturnToCurrent() {
	s.focus = s.index
}

// Review closes play on the last hole and shows the summary. An unscored
// last hole defaults to par.
func (s *Session) Review() error {
	if s.state != StatePlaying || !s.IsLastHole() {
		return s.invalid("review")
	}
	s.defaultToPar(s.index)
	s.focus = s.index
	s.state = StateReviewing
	return nil
}

// Resume returns from the summary to the last hole.
func (s *Session) Resume() error {
	if s.state != StateReviewing {
		return s.invalid("resume")
	}
	s.state = StatePlaying
	return nil
}

// Finish finalizes the round into a game, stores it and clears the saved
// snapshot. It is valid on the last hole or from the summary. The round is
// complete only once both writes succeed; on failure the session stays where
// it was and Finish may be retried. A stored game is never appended twice.
func (s *Session) Finish(ctx context.Context) (model.Game, error) {
	switch {
	case s.state == StateReviewing:
	case s.state == StatePlaying && s.IsLastHole():
	default:
		return model.Game{}, s.invalid("finish")
	}

	if s.stored == nil {
		s.defaultToPar(s.index)
		if s.pending == nil {
			game := s.buildGame()
			s.pending = &game
		}
		if err := s.repo.AppendGame(ctx, *s.pending); err != nil {
			s.lastPersistErr = err
			s.logger.ErrorContext(ctx, "failed to store game", "course", s.course.Name, "error", err)
			return model.Game{}, fmt.Errorf("finish round: %w", err)
		}
		s.stored = s.pending
		s.pending = nil
	}
	game := *s.stored

	if err := s.repo.ClearRound(ctx); err != nil {
		s.lastPersistErr = err
		s.logger.ErrorContext(ctx, "game stored but saved round not cleared",
			"course", s.course.Name,
			"game_id", game.ID.String(),
			"error", err,
		)
		return model.Game{}, fmt.Errorf("finish round: game stored, saved round not cleared: %w", err)
	}
	s.stored = nil
	s.lastPersistErr = nil
	s.state = StateCompleted

	strokes, par := gameTotals(game)
	s.logger.InfoContext(ctx, "round finished",
		"course", s.course.Name,
		"game_id", game.ID.String(),
		"strokes", strokes,
		"par", par,
	)
	return game, nil
}

// GameStored reports whether a finished game is already in the history while
// its saved round still waits to be cleared.
func (s *Session) GameStored() bool {
	return s.stored != nil
}

// SaveAndExit stores the snapshot as-is and ends the session without
// creating a game. On a failed write the session stays open. Once the game
// is stored the snapshot is cleared instead of rewritten.
func (s *Session) SaveAndExit(ctx context.Context) error {
	if s.state != StatePlaying && s.state != StateReviewing {
		return s.invalid("save and exit")
	}
	if s.stored != nil {
		_, err := s.Finish(ctx)
		return err
	}
	if err := s.repo.SaveRound(ctx, s.Snapshot()); err != nil {
		s.lastPersistErr = err
		s.logger.ErrorContext(ctx, "failed to save round", "course", s.course.Name, "error", err)
		return fmt.Errorf("save and exit: %w", err)
	}
	s.lastPersistErr = nil
	s.state = StateExited
	s.logger.InfoContext(ctx, "round saved", "course", s.course.Name, "hole_index", s.index)
	return nil
}

// Snapshot returns the resumable form of the round. Scores has one entry per
// hole up to the last recorded one; unset holes are nil.
func (s *Session) Snapshot() model.InProgressRound {
	length := 0
	for i := range s.scores {
		if i+1 > length {
			length = i + 1
		}
	}
	scores := make([]*int, length)
	for i, v := range s.scores {
		scores[i] = &v
	}
	return model.InProgressRound{
		Course:           s.course,
		CurrentHoleIndex: s.index,
		Scores:           scores,
	}
}

func (s *Session) buildGame() model.Game {
	scores := make([]model.Score, len(s.course.Holes))
	for i, h := range s.course.Holes {
		strokes := h.Par
		if v, ok := s.scores[i]; ok {
			strokes = v
		}
		scores[i] = model.Score{ID: uuid.New(), HoleNumber: h.Number, Strokes: strokes}
	}
	return model.Game{
		ID:     uuid.New(),
		Date:   s.now(),
		Course: s.course,
		Scores: scores,
	}
}

func (s *Session) defaultToPar(index int) {
	if _, ok := s.scores[index]; ok {
		return
	}
	s.scores[index] = s.course.Holes[index].Par
}

func (s *Session) persistSnapshot(ctx context.Context) {
	if err := s.repo.SaveRound(ctx, s.Snapshot()); err != nil {
		s.lastPersistErr = err
		s.logger.WarnContext(ctx, "snapshot not saved; round continues in memory",
			"course", s.course.Name,
			"hole_index", s.index,
			"error", err,
		)
		return
	}
	s.lastPersistErr = nil
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%s in state %s at hole index %d of %d: %w", op, s.state, s.index, len(s.course.Holes), ErrInvalidTransition)
}

func gameTotals(game model.Game) (strokes, par int) {
	for _, sc := range game.Scores {
		strokes += sc.Strokes
	}
	return strokes, game.Course.TotalPar()
}
