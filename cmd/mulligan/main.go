// Package main provides the CLI entrypoint for mulligan.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mulligan/internal/catalog"
	"github.com/verte-zerg/mulligan/internal/config"
	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/persist"
	"github.com/verte-zerg/mulligan/internal/round"
	"github.com/verte-zerg/mulligan/internal/stats"
	"github.com/verte-zerg/mulligan/internal/store"
	"github.com/verte-zerg/mulligan/internal/tui"
)

const (
	defaultRecent      = 10
	defaultTrendWindow = 3
	defaultLogLevel    = "info"
)

var (
	playCourse string
	playLat    float64
	playLon    float64

	coursesLat float64
	coursesLon float64

	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mulligan",
		Short:         "Golf round scorecard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playCourse, "course", "", "course name from the catalog (default: nearest)")
	rootCmd.Flags().Float64Var(&playLat, "lat", 0, "latitude used to suggest the nearest course")
	rootCmd.Flags().Float64Var(&playLon, "lon", 0, "longitude used to suggest the nearest course")
	rootCmd.MarkFlagsRequiredTogether("lat", "lon")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newDiscardCmd())
	rootCmd.AddCommand(newCoursesCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles what every command opens: config, logger and storage.
type app struct {
	cfg    config.FileConfig
	logger *slog.Logger
	store  *store.Store
	repo   *persist.Repository

	closeLog func() error
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	level, err := config.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger, closeLog := newLogger(config.DefaultLogPath(), level)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &app{
		cfg:      fileCfg,
		logger:   logger,
		store:    st,
		repo:     persist.New(st, logger),
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	if err := a.closeLog(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

// newLogger writes to the log file so output never lands on the TUI. When
// the file cannot be opened logs are dropped.
func newLogger(path string, level slog.Level) (*slog.Logger, func() error) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logErrf("failed to create log directory: %v\n", err)
		return discard, func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logErrf("failed to open log file: %v\n", err)
		return discard, func() error { return nil }
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f.Close
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	applyStringConfig(cmd, "course", &playCourse, a.cfg.Play.Course)
	applyFloatConfig(cmd, "lat", &playLat, a.cfg.Play.Latitude)
	applyFloatConfig(cmd, "lon", &playLon, a.cfg.Play.Longitude)

	cfg := model.PlayConfig{Course: strings.TrimSpace(playCourse)}
	located, err := locationSet(cmd, a.cfg.Play)
	if err != nil {
		return err
	}
	if located {
		cfg.Near = &model.Coordinate{Latitude: playLat, Longitude: playLon}
	}
	course, err := resolveCourse(cfg)
	if err != nil {
		return err
	}
	return playRound(cmd, a, course)
}

// locationSet reports whether a full coordinate came from the flags or the
// config file. Flags are paired by cobra; the file must set both or neither.
func locationSet(cmd *cobra.Command, fileCfg config.PlayConfig) (bool, error) {
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		return true, nil
	}
	if (fileCfg.Latitude == nil) != (fileCfg.Longitude == nil) {
		return false, errors.New("config [play] needs both latitude and longitude")
	}
	return fileCfg.Latitude != nil, nil
}

// resolveCourse picks the named course or, without a name, the catalog entry
// nearest to cfg.Near.
func resolveCourse(cfg model.PlayConfig) (model.Course, error) {
	name := cfg.Course
	if name == "" {
		suggestion, ok := catalog.Nearest(cfg.Near, catalog.List())
		if !ok {
			return model.Course{}, fmt.Errorf("course catalog is empty")
		}
		name = suggestion.Name
	}
	course, ok := catalog.Lookup(name)
	if !ok {
		return model.Course{}, fmt.Errorf("unknown course %q (run: mulligan courses)", name)
	}
	return course, nil
}

func playRound(cmd *cobra.Command, a *app, course model.Course) error {
	ctx := cmd.Context()
	session, err := round.Start(ctx, a.repo, course, round.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}
	m := tui.NewModel(ctx, session, a.repo, a.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	out := cmd.OutOrStdout()
	if game, ok := m.Game(); ok {
		return printf(out, "Saved %s: %d (%s)\n", game.Course.Name, stats.TotalStrokes(game), stats.FormatToPar(stats.ScoreToPar(game)))
	}
	if session.GameStored() {
		return fmt.Errorf("round at %s was stored but its saved copy was not cleared (run: mulligan discard): %w", course.Name, session.LastPersistErr())
	}
	if session.State() == round.StateExited {
		return printf(out, "Round at %s saved. Continue with: mulligan resume\n", course.Name)
	}
	if err := session.LastPersistErr(); err != nil {
		return fmt.Errorf("round at %s was not saved: %w", course.Name, err)
	}
	return nil
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Continue the saved round",
		Args:  cobra.NoArgs,
		RunE:  runResumeCmd,
	}
}

func runResumeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	saved, ok := a.repo.LoadRound(cmd.Context())
	if !ok {
		return errors.New("no saved round; start one with: mulligan --course <name>")
	}
	return playRound(cmd, a, saved.Course)
}

func newDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Delete the saved round",
		Args:  cobra.NoArgs,
		RunE:  runDiscardCmd,
	}
}

func runDiscardCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	saved, ok := a.repo.LoadRound(ctx)
	if err := a.repo.ClearRound(ctx); err != nil {
		return fmt.Errorf("failed to discard round: %w", err)
	}
	if !ok {
		return printf(cmd.OutOrStdout(), "No saved round.\n")
	}
	return printf(cmd.OutOrStdout(), "Discarded round at %s.\n", saved.Course.Name)
}

func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List catalog courses",
		Args:  cobra.NoArgs,
		RunE:  runCoursesCmd,
	}
	cmd.Flags().Float64Var(&coursesLat, "lat", 0, "latitude to measure distances from")
	cmd.Flags().Float64Var(&coursesLon, "lon", 0, "longitude to measure distances from")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	return cmd
}

func runCoursesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "lat", &coursesLat, fileCfg.Play.Latitude)
	applyFloatConfig(cmd, "lon", &coursesLon, fileCfg.Play.Longitude)

	located, err := locationSet(cmd, fileCfg.Play)
	if err != nil {
		return err
	}
	var near *model.Coordinate
	if located {
		near = &model.Coordinate{Latitude: coursesLat, Longitude: coursesLon}
	}
	return writeCourses(cmd.OutOrStdout(), catalog.List(), near)
}

func writeCourses(w io.Writer, courses []model.CourseSuggestion, near *model.Coordinate) error {
	nearest, _ := catalog.Nearest(near, courses)
	headers := []string{"", "Course", "Location", "Par"}
	rightAlign := map[int]bool{3: true}
	if near != nil {
		headers = append(headers, "Distance")
		rightAlign[4] = true
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		mark := ""
		if c.Name == nearest.Name {
			mark = "*"
		}
		course, _ := catalog.Lookup(c.Name)
		row := []string{mark, c.Name, c.Location, fmt.Sprintf("%d", course.TotalPar())}
		if near != nil {
			km := catalog.Distance(*near, model.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}) / 1000
			row = append(row, fmt.Sprintf("%.1f km", km))
		}
		rows = append(rows, row)
	}
	return stats.WriteTable(w, headers, rows, rightAlign)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mulligan configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# course = %q   # Course to play when --course is not given
# latitude = 51.4472                 # Used to suggest the nearest course
# longitude = -0.3372

[history]
# recent = %d          # Rounds listed in history (0 = all)
# course = ""          # Only show rounds at this course
# trend-window = %d     # Moving average window for the trend line

[log]
# level = %q        # debug, info, warn or error
`,
		catalog.List()[0].Name,
		defaultRecent,
		defaultTrendWindow,
		defaultLogLevel,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func printf(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
