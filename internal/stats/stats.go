// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/mulligan/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TotalStrokes sums strokes over the game's scores.
func TotalStrokes(game model.Game) int {
	total := 0
	for _, s := range game.Scores {
		total += s.Strokes
	}
	return total
}

// TotalPar sums par over the game's course.
func TotalPar(game model.Game) int {
	return game.Course.TotalPar()
}

// ScoreToPar is total strokes minus total par.
func ScoreToPar(game model.Game) int {
	return TotalStrokes(game) - TotalPar(game)
}

// FormatToPar renders a score relative to par: "+3", "+0", "-2".
func FormatToPar(diff int) string {
	if diff < 0 {
		return fmt.Sprintf("%d", diff)
	}
	return fmt.Sprintf("+%d", diff)
}

// RecentGames returns games newest first, keeping storage order among equal
// dates, truncated to n. n <= 0 keeps all games.
func RecentGames(games []model.Game, n int) []model.Game {
	out := append([]model.Game(nil), games...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// GamesAtCourse keeps games played on the named course.
func GamesAtCourse(games []model.Game, courseName string) []model.Game {
	var out []model.Game
	for _, g := range games {
		if model.SameCourse(g.Course.Name, courseName) {
			out = append(out, g)
		}
	}
	return out
}

// Summary aggregates a set of games.
type Summary struct {
	Rounds     int
	BestToPar  int
	WorstToPar int
	AvgToPar   float64
	AvgStrokes float64
	Classes    map[model.ScoreClass]int
}

// Summarize computes totals over games. Holes are counted per score class.
func Summarize(games []model.Game) Summary {
	sum := Summary{Classes: map[model.ScoreClass]int{}}
	if len(games) == 0 {
		return sum
	}
	var totalToPar, totalStrokes int
	for i, g := range games {
		diff := ScoreToPar(g)
		if i == 0 || diff < sum.BestToPar {
			sum.BestToPar = diff
		}
		if i == 0 || diff > sum.WorstToPar {
			sum.WorstToPar = diff
		}
		totalToPar += diff
		totalStrokes += TotalStrokes(g)

		pars := parByHole(g.Course)
		for _, s := range g.Scores {
			par, ok := pars[s.HoleNumber]
			if !ok {
				continue
			}
			sum.Classes[model.Classify(s.Strokes, par)]++
		}
	}
	sum.Rounds = len(games)
	sum.AvgToPar = float64(totalToPar) / float64(len(games))
	sum.AvgStrokes = float64(totalStrokes) / float64(len(games))
	return sum
}

// ToParTrend returns score-to-par per game, oldest first.
func ToParTrend(games []model.Game) []float64 {
	ordered := append([]model.Game(nil), games...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	out := make([]float64, len(ordered))
	for i, g := range ordered {
		out[i] = float64(ScoreToPar(g))
	}
	return out
}

func parByHole(c model.Course) map[int]int {
	pars := make(map[int]int, len(c.Holes))
	for _, h := range c.Holes {
		pars[h.Number] = h.Par
	}
	return pars
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for games.
func RenderSummary(w io.Writer, games []model.Game) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games saved yet.")
		return err
	}
	sum := Summarize(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", sum.Rounds),
		fmt.Sprintf("Best: %s", FormatToPar(sum.BestToPar)),
		fmt.Sprintf("Worst: %s", FormatToPar(sum.WorstToPar)),
		fmt.Sprintf("Avg to par: %+.1f", sum.AvgToPar),
		fmt.Sprintf("Avg strokes: %.1f", sum.AvgStrokes),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGames prints one row per game in the given order.
func RenderGames(w io.Writer, games []model.Game) error {
	if len(games) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Rounds"); err != nil {
		return err
	}
	headers := []string{"Date", "Course", "Score", "Par", "To Par"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			g.Date.Local().Format("2006-01-02"),
			g.Course.Name,
			fmt.Sprintf("%d", TotalStrokes(g)),
			fmt.Sprintf("%d", TotalPar(g)),
			FormatToPar(ScoreToPar(g)),
		})
	}
	return WriteTable(w, headers, rows, map[int]bool{2: true, 3: true, 4: true})
}

// RenderClassTable prints hole counts per score class.
func RenderClassTable(w io.Writer, games []model.Game) error {
	if len(games) == 0 {
		return nil
	}
	sum := Summarize(games)
	if _, err := fmt.Fprintln(w, "Holes by Result"); err != nil {
		return err
	}
	order := []model.ScoreClass{
		model.ClassEagleOrBetter,
		model.ClassBirdie,
		model.ClassPar,
		model.ClassBogey,
		model.ClassDoubleBogey,
		model.ClassOther,
	}
	total := 0
	for _, c := range order {
		total += sum.Classes[c]
	}
	rows := make([][]string, 0, len(order))
	for _, c := range order {
		label := c.String()
		if c == model.ClassOther {
			label = "worse"
		}
		pct := 0.0
		if total > 0 {
			pct = float64(sum.Classes[c]) / float64(total) * 100
		}
		rows = append(rows, []string{label, fmt.Sprintf("%d", sum.Classes[c]), fmt.Sprintf("%.1f%%", pct)})
	}
	return WriteTable(w, []string{"Result", "Holes", "Share"}, rows, map[int]bool{1: true, 2: true})
}

// RenderGameDetail prints the hole-by-hole card of one game.
func RenderGameDetail(w io.Writer, game model.Game) error {
	header := fmt.Sprintf("%s  %s  %d (%s)",
		game.Course.Name,
		game.Date.Local().Format("2006-01-02"),
		TotalStrokes(game),
		FormatToPar(ScoreToPar(game)),
	)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	strokes := make(map[int]int, len(game.Scores))
	for _, s := range game.Scores {
		strokes[s.HoleNumber] = s.Strokes
	}
	rows := make([][]string, 0, len(game.Course.Holes))
	for _, h := range game.Course.Holes {
		v, ok := strokes[h.Number]
		if !ok {
			rows = append(rows, []string{fmt.Sprintf("%d", h.Number), fmt.Sprintf("%d", h.Par), "-"})
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", h.Number),
			fmt.Sprintf("%d", h.Par),
			fmt.Sprintf("%d", v),
			model.Classify(v, h.Par).String(),
		})
	}
	return WriteTable(w, []string{"Hole", "Par", "Strokes", "Result"}, rows, map[int]bool{0: true, 1: true, 2: true})
}

// WriteTable prints an aligned table followed by a blank line.
func WriteTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
