package model

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		strokes int
		par     int
		want    ScoreClass
	}{
		{strokes: 1, par: 5, want: ClassEagleOrBetter},
		{strokes: 3, par: 5, want: ClassEagleOrBetter},
		{strokes: 3, par: 4, want: ClassBirdie},
		{strokes: 4, par: 4, want: ClassPar},
		{strokes: 5, par: 4, want: ClassBogey},
		{strokes: 6, par: 4, want: ClassDoubleBogey},
		{strokes: 7, par: 4, want: ClassOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.strokes, tt.par); got != tt.want {
			t.Errorf("Classify(%d, %d) = %v want %v", tt.strokes, tt.par, got, tt.want)
		}
	}
}
