// Package catalog provides the built-in course list and nearest-course lookup.
package catalog

import (
	"math"

	"github.com/google/uuid"

	"github.com/verte-zerg/mulligan/internal/model"
)

const earthRadiusMeters = 6371008.8

// StandardPars is the 18-hole par template used for courses without a
// dedicated layout.
var StandardPars = []int{4, 4, 4, 4, 5, 3, 3, 4, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5}

var known = []model.CourseSuggestion{
	{Name: "Pebble Beach Golf Links", Location: "Pebble Beach, CA", Latitude: 36.5680, Longitude: -121.9500},
	{Name: "St Andrews Old Course", Location: "St Andrews, Scotland", Latitude: 56.3432, Longitude: -2.8032},
	{Name: "Royal Mid-Surrey Golf Club", Location: "Richmond, London", Latitude: 51.4682, Longitude: -0.3082},
	{Name: "Richmond Golf Club", Location: "Richmond, London", Latitude: 51.4457, Longitude: -0.2922},
	{Name: "The Richmond Hill Golf Club", Location: "Richmond, London", Latitude: 51.4500, Longitude: -0.3000},
	{Name: "Fulwell Golf Club", Location: "Twickenham, London", Latitude: 51.4472, Longitude: -0.3372},
	{Name: "Dukes Meadows Golf", Location: "Chiswick, London", Latitude: 51.4842, Longitude: -0.2587},
}

// Courses with a known hole-by-hole layout.
var layouts = map[string][]int{
	"Pebble Beach Golf Links": {4, 4, 4, 4, 5, 3, 3, 4, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5},
	"St Andrews Old Course":   {4, 4, 4, 4, 5, 4, 4, 3, 4, 4, 3, 4, 4, 5, 4, 4, 3, 4},
}

// List returns the seed catalog in its fixed order.
func List() []model.CourseSuggestion {
	return append([]model.CourseSuggestion(nil), known...)
}

// Nearest returns the entry closest to loc by great-circle distance. A nil
// location selects the first entry. An empty catalog returns false.
func Nearest(loc *model.Coordinate, entries []model.CourseSuggestion) (model.CourseSuggestion, bool) {
	if len(entries) == 0 {
		return model.CourseSuggestion{}, false
	}
	if loc == nil {
		return entries[0], true
	}
	best := entries[0]
	bestDist := Distance(*loc, coordinateOf(best))
	for _, e := range entries[1:] {
		if d := Distance(*loc, coordinateOf(e)); d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best, true
}

// Distance returns the haversine distance between two points in meters.
func Distance(a, b model.Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ToCourse builds a full course from a suggestion using the standard template.
func ToCourse(s model.CourseSuggestion) model.Course {
	return newCourse(s.Name, s.Location, StandardPars)
}

// Lookup resolves a catalog entry by name. Courses with a dedicated layout use
// it; other entries get the standard template.
func Lookup(name string) (model.Course, bool) {
	for _, s := range known {
		if !model.SameCourse(s.Name, name) {
			continue
		}
		if pars, ok := layouts[s.Name]; ok {
			return newCourse(s.Name, s.Location, pars), true
		}
		return ToCourse(s), true
	}
	return model.Course{}, false
}

func newCourse(name, location string, pars []int) model.Course {
	holes := make([]model.Hole, len(pars))
	for i, par := range pars {
		holes[i] = model.Hole{ID: uuid.New(), Number: i + 1, Par: par}
	}
	return model.Course{
		ID:       uuid.New(),
		Name:     name,
		Location: location,
		Holes:    holes,
	}
}

func coordinateOf(s model.CourseSuggestion) model.Coordinate {
	return model.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
