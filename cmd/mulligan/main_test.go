package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/mulligan/internal/catalog"
	"github.com/verte-zerg/mulligan/internal/config"
	"github.com/verte-zerg/mulligan/internal/model"
)

func TestResolveCourse(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.PlayConfig
		want string
	}{
		{name: "named", cfg: model.PlayConfig{Course: "St Andrews Old Course"}, want: "St Andrews Old Course"},
		{name: "no location", cfg: model.PlayConfig{}, want: "Pebble Beach Golf Links"},
		{
			name: "nearest",
			cfg:  model.PlayConfig{Near: &model.Coordinate{Latitude: 51.4470, Longitude: -0.3370}},
			want: "Fulwell Golf Club",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course, err := resolveCourse(tt.cfg)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if course.Name != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, course.Name)
			}
			if len(course.Holes) != 18 {
				t.Fatalf("expected 18 holes, got %d", len(course.Holes))
			}
		})
	}
}

func TestResolveCourseUnknown(t *testing.T) {
	_, err := resolveCourse(model.PlayConfig{Course: "Augusta"})
	if err == nil || !strings.Contains(err.Error(), "unknown course") {
		t.Fatalf("expected unknown course error, got %v", err)
	}
}

func TestApplyConfigFlagWins(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var course string
	cmd.Flags().StringVar(&course, "course", "", "")
	fromFile := "Richmond Golf Club"

	applyStringConfig(cmd, "course", &course, &fromFile)
	if course != fromFile {
		t.Fatalf("expected file value, got %q", course)
	}
	if err := cmd.Flags().Set("course", "Dukes Meadows Golf"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	applyStringConfig(cmd, "course", &course, &fromFile)
	if course != "Dukes Meadows Golf" {
		t.Fatalf("expected flag value, got %q", course)
	}
	applyStringConfig(cmd, "course", &course, nil)
	if course != "Dukes Meadows Golf" {
		t.Fatalf("expected nil config to keep value, got %q", course)
	}
}

func TestLatLonFlagsRequiredTogether(t *testing.T) {
	for _, args := range [][]string{{"--lat", "51.4"}, {"--lon", "-0.3"}} {
		cmd := newCoursesCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "lat lon") {
			t.Fatalf("expected paired flag error for %v, got %v", args, err)
		}
	}
}

func TestLocationSet(t *testing.T) {
	lat, lon := 51.4, -0.3
	tests := []struct {
		name    string
		flags   []string
		file    config.PlayConfig
		want    bool
		wantErr bool
	}{
		{name: "nothing", want: false},
		{name: "flags", flags: []string{"--lat", "1", "--lon", "2"}, want: true},
		{name: "file", file: config.PlayConfig{Latitude: &lat, Longitude: &lon}, want: true},
		{name: "file latitude only", file: config.PlayConfig{Latitude: &lat}, wantErr: true},
		{name: "flags override partial file", flags: []string{"--lat", "1", "--lon", "2"}, file: config.PlayConfig{Longitude: &lon}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			var a, b float64
			cmd.Flags().Float64Var(&a, "lat", 0, "")
			cmd.Flags().Float64Var(&b, "lon", 0, "")
			if err := cmd.Flags().Parse(tt.flags); err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := locationSet(cmd, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Play.Course != nil || cfg.History.Recent != nil || cfg.Log.Level != nil {
		t.Fatalf("expected every value commented out, got %+v", cfg)
	}

	uncommented := strings.NewReplacer("# course =", "course =", "# recent =", "recent =", "# level =", "level =").Replace(defaultConfigTemplate())
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented: %v", err)
	}
	if cfg.Play.Course == nil || *cfg.Play.Course != "Pebble Beach Golf Links" {
		t.Fatalf("unexpected course %v", cfg.Play.Course)
	}
	if cfg.History.Recent == nil || *cfg.History.Recent != defaultRecent {
		t.Fatalf("unexpected recent %v", cfg.History.Recent)
	}
}

func TestWriteCourses(t *testing.T) {
	var buf bytes.Buffer
	near := &model.Coordinate{Latitude: 51.4470, Longitude: -0.3370}
	if err := writeCourses(&buf, catalog.List(), near); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 8 {
		t.Fatalf("expected a row per course:\n%s", buf.String())
	}
	for _, line := range lines[1:8] {
		starred := strings.HasPrefix(line, "*")
		if starred != strings.Contains(line, "Fulwell Golf Club") {
			t.Fatalf("unexpected nearest marker on %q", line)
		}
		if !strings.HasSuffix(line, " km") {
			t.Fatalf("expected distance on %q", line)
		}
	}
}

func TestWriteExport(t *testing.T) {
	course, _ := catalog.Lookup("Fulwell Golf Club")
	game := model.Game{
		Date:   time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC),
		Course: course,
		Scores: []model.Score{{HoleNumber: 1, Strokes: 5}},
	}

	var js bytes.Buffer
	if err := writeExport(&js, []model.Game{game}, "json"); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []model.Game
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Course.Name != "Fulwell Golf Club" || !decoded[0].Date.Equal(game.Date) {
		t.Fatalf("unexpected decoded games: %+v", decoded)
	}

	var ym bytes.Buffer
	if err := writeExport(&ym, []model.Game{game}, "YAML"); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for _, want := range []string{"name: Fulwell Golf Club", "holeNumber: 1", "strokes: 5"} {
		if !strings.Contains(ym.String(), want) {
			t.Fatalf("yaml missing %q:\n%s", want, ym.String())
		}
	}

	var empty bytes.Buffer
	if err := writeExport(&empty, nil, "json"); err != nil {
		t.Fatalf("empty: %v", err)
	}
	if strings.TrimSpace(empty.String()) != "[]" {
		t.Fatalf("expected empty list, got %q", empty.String())
	}

	if err := writeExport(&empty, nil, "csv"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestValidateHistoryConfig(t *testing.T) {
	if err := validateHistoryConfig(model.HistoryConfig{Recent: 0, TrendWindow: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateHistoryConfig(model.HistoryConfig{Recent: -1, TrendWindow: 1}); err == nil {
		t.Fatalf("expected recent error")
	}
	if err := validateHistoryConfig(model.HistoryConfig{TrendWindow: 0}); err == nil {
		t.Fatalf("expected window error")
	}
}
