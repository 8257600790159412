package model

// ScoreClass names a hole result relative to par.
type ScoreClass int

const (
	ClassOther ScoreClass = iota
	ClassEagleOrBetter
	ClassBirdie
	ClassPar
	ClassBogey
	ClassDoubleBogey
)

// Classify maps strokes on a hole of the given par to its class.
func Classify(strokes, par int) ScoreClass {
	diff := strokes - par
	switch {
	case diff <= -2:
		return ClassEagleOrBetter
	case diff == -1:
		return ClassBirdie
	case diff == 0:
		return ClassPar
	case diff == 1:
		return ClassBogey
	case diff == 2:
		return ClassDoubleBogey
	default:
		return ClassOther
	}
}

func (c ScoreClass) String() string {
	switch c {
	case ClassEagleOrBetter:
		return "eagle"
	case ClassBirdie:
		return "birdie"
	case ClassPar:
		return "par"
	case ClassBogey:
		return "bogey"
	case ClassDoubleBogey:
		return "double bogey"
	default:
		return ""
	}
}
