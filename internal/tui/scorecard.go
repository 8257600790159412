package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mulligan/internal/round"
)

const (
	cellWidth    = 4
	labelWidth   = 6
	holesPerNine = 9
)

type scoreCell struct {
	hole    int
	par     int
	strokes int
	set     bool
	focus   bool
}

func scorecardCells(s *round.Session) []scoreCell {
	holes := s.Course().Holes
	cells := make([]scoreCell, len(holes))
	for i, h := range holes {
		v, ok := s.StrokesFor(i)
		cells[i] = scoreCell{
			hole:    h.Number,
			par:     h.Par,
			strokes: v,
			set:     ok,
			focus:   i == s.FocusIndex() && s.State() == round.StatePlaying,
		}
	}
	return cells
}

func (c scoreCell) strokesText() string {
	if !c.set {
		return "-"
	}
	return fmt.Sprintf("%d", c.strokes)
}

// renderScorecard lays the card out in blocks of up to nine holes, fewer
// when the terminal is too narrow.
func renderScorecard(cells []scoreCell, width int) string {
	perRow := holesPerNine
	if width > 0 {
		perRow = max(1, min(perRow, (width-labelWidth)/cellWidth))
	}
	blocks := make([]string, 0, len(cells)/perRow+1)
	for start := 0; start < len(cells); start += perRow {
		end := min(start+perRow, len(cells))
		blocks = append(blocks, renderBlock(cells[start:end]))
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlock(cells []scoreCell) string {
	var hole, par, score strings.Builder
	hole.WriteString(padLabel("Hole"))
	par.WriteString(padLabel("Par"))
	score.WriteString(padLabel("Score"))
	for _, c := range cells {
		hole.WriteString(padCell(fmt.Sprintf("%d", c.hole)))
		par.WriteString(padCell(fmt.Sprintf("%d", c.par)))

		text := c.strokesText()
		style := pendingStyle
		if c.set {
			style = classStyle(c.strokes, c.par)
		}
		if c.focus {
			style = style.Underline(true)
		}
		score.WriteString(strings.Repeat(" ", cellWidth-runewidth.StringWidth(text)))
		score.WriteString(style.Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, footerStyle.Render(hole.String()), footerStyle.Render(par.String()), score.String())
}

func padLabel(s string) string {
	return s + strings.Repeat(" ", max(0, labelWidth-runewidth.StringWidth(s)))
}

func padCell(s string) string {
	return strings.Repeat(" ", max(0, cellWidth-runewidth.StringWidth(s))) + s
}
