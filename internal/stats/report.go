package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/mulligan/internal/model"
)

// GameLoader reads finalized games.
type GameLoader interface {
	LoadGames(ctx context.Context) []model.Game
}

// Report contains precomputed data for history rendering.
type Report struct {
	All     []model.Game
	Recent  []model.Game
	Summary Summary
	Trend   []float64
}

// BuildReport loads games and applies the history filters.
func BuildReport(ctx context.Context, loader GameLoader, cfg model.HistoryConfig) Report {
	return NewReport(loader.LoadGames(ctx), cfg)
}

// NewReport applies the history filters to already loaded games.
func NewReport(games []model.Game, cfg model.HistoryConfig) Report {
	if cfg.Course != "" {
		games = GamesAtCourse(games, cfg.Course)
	}
	return Report{
		All:     games,
		Recent:  RecentGames(games, cfg.Recent),
		Summary: Summarize(games),
		Trend:   MovingAverage(ToParTrend(games), cfg.TrendWindow),
	}
}

// Render writes the full text report.
func (r Report) Render(w io.Writer) error {
	if err := RenderSummary(w, r.All); err != nil {
		return err
	}
	if len(r.Trend) > 1 {
		if _, err := fmt.Fprintf(w, "Trend (to par, oldest to newest): [%s]\n\n", Sparkline(r.Trend)); err != nil {
			return err
		}
	}
	if err := RenderGames(w, r.Recent); err != nil {
		return err
	}
	return RenderClassTable(w, r.All)
}
