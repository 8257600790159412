package round

import "testing"

func TestClampStrokes(t *testing.T) {
	tests := []struct {
		strokes, par, want int
	}{
		{strokes: 0, par: 4, want: 1},
		{strokes: 11, par: 4, want: 10},
		{strokes: 11, par: 6, want: 11},
		{strokes: 12, par: 6, want: 11},
		{strokes: 7, par: 3, want: 7},
	}
	for _, tt := range tests {
		if got := ClampStrokes(tt.strokes, tt.par); got != tt.want {
			t.Errorf("ClampStrokes(%d, %d) = %d want %d", tt.strokes, tt.par, got, tt.want)
		}
	}
}
