package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/verte-zerg/mulligan/internal/catalog"
	"github.com/verte-zerg/mulligan/internal/persist"
	"github.com/verte-zerg/mulligan/internal/round"
	"github.com/verte-zerg/mulligan/internal/store"
)

func TestScorecardCellsMarkUnsetHoles(t *testing.T) {
	ctx := context.Background()
	s, err := round.Start(ctx, persist.New(store.NewMemory(), nil), testCourse("Fulwell", 4, 3, 5))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.RecordStroke(2, 6); err != nil {
		t.Fatalf("record: %v", err)
	}
	cells := scorecardCells(s)
	got := []string{cells[0].strokesText(), cells[1].strokesText(), cells[2].strokesText()}
	want := []string{"-", "-", "6"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if !cells[0].focus || cells[2].focus {
		t.Fatalf("expected focus on the first hole only")
	}
}

func TestRenderScorecardWrapsToWidth(t *testing.T) {
	course, ok := catalog.Lookup("Pebble Beach Golf Links")
	if !ok {
		t.Fatalf("expected catalog course")
	}
	s, err := round.Start(context.Background(), persist.New(store.NewMemory(), nil), course)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	cells := scorecardCells(s)

	tests := []struct {
		width  int
		blocks int
	}{
		{width: 0, blocks: 2},
		{width: 120, blocks: 2},
		{width: labelWidth + 3*cellWidth, blocks: 6},
		{width: 1, blocks: 18},
	}
	for _, tt := range tests {
		out := renderScorecard(cells, tt.width)
		if got := strings.Count(out, "Hole"); got != tt.blocks {
			t.Fatalf("width %d: expected %d blocks, got %d\n%s", tt.width, tt.blocks, got, out)
		}
	}
}

func TestPadCell(t *testing.T) {
	if got := padCell("7"); got != "   7" {
		t.Fatalf("unexpected cell %q", got)
	}
	if got := padLabel("Par"); got != "Par   " {
		t.Fatalf("unexpected label %q", got)
	}
}
