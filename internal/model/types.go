// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Hole is a single hole of a course. Numbers are 1-based and contiguous.
type Hole struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Number int       `json:"number" yaml:"number"`
	Par    int       `json:"par" yaml:"par"`
}

// Course is a named layout of holes ordered by number.
type Course struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Location string    `json:"location" yaml:"location"`
	Holes    []Hole    `json:"holes" yaml:"holes"`
}

// TotalPar sums par over every hole of the course.
func (c Course) TotalPar() int {
	total := 0
	for _, h := range c.Holes {
		total += h.Par
	}
	return total
}

// Score is the stroke count recorded for one hole of a game.
type Score struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	HoleNumber int       `json:"holeNumber" yaml:"holeNumber"`
	Strokes    int       `json:"strokes" yaml:"strokes"`
}

// Game is the finalized record of a completed round. It holds a snapshot of
// the course it was played on and exactly one score per hole.
type Game struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Date   time.Time `json:"date" yaml:"date"`
	Course Course    `json:"course" yaml:"course"`
	Scores []Score   `json:"scores" yaml:"scores"`
}

// InProgressRound is the resumable snapshot of a round being played.
// Scores is indexed by hole index; nil entries are holes without a recorded
// value.
type InProgressRound struct {
	Course           Course `json:"course"`
	CurrentHoleIndex int    `json:"currentHoleIndex"`
	Scores           []*int `json:"scores"`
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// CourseSuggestion is a catalog entry used to pick a course.
type CourseSuggestion struct {
	Name      string
	Location  string
	Latitude  float64
	Longitude float64
}

// SameCourse reports whether two course names refer to the same course.
// Courses are identified by exact, case-sensitive name.
func SameCourse(a, b string) bool {
	return a == b
}

// PlayConfig defines round start settings.
type PlayConfig struct {
	Course string
	Near   *Coordinate
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Course      string
	Recent      int
	TrendWindow int
}
