package round

// MaxStrokes is the highest value offered by stroke input for a hole.
func MaxStrokes(par int) int {
	if par+5 > 10 {
		return par + 5
	}
	return 10
}

// ClampStrokes bounds an input value to [1, MaxStrokes(par)].
func ClampStrokes(strokes, par int) int {
	if strokes < 1 {
		return 1
	}
	if limit := MaxStrokes(par); strokes > limit {
		return limit
	}
	return strokes
}
