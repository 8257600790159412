package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/mulligan/internal/historyui"
	"github.com/verte-zerg/mulligan/internal/model"
	"github.com/verte-zerg/mulligan/internal/stats"
)

var (
	historyRecent int
	historyCourse string
	historyWindow int
	historyClear  bool
	historyPlain  bool

	exportFormat string
	exportOutput string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished rounds",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyRecent, "recent", defaultRecent, "number of recent rounds to list (0 = all)")
	cmd.Flags().StringVar(&historyCourse, "course", "", "only rounds at this course (exact name)")
	cmd.Flags().IntVar(&historyWindow, "trend-window", defaultTrendWindow, "moving average window for the trend line")
	cmd.Flags().BoolVar(&historyClear, "clear", false, "delete every finished round")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if historyClear {
		n := len(a.repo.LoadGames(ctx))
		if err := a.repo.ClearGames(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		return printf(cmd.OutOrStdout(), "Deleted %d rounds.\n", n)
	}

	applyIntConfig(cmd, "recent", &historyRecent, a.cfg.History.Recent)
	applyStringConfig(cmd, "course", &historyCourse, a.cfg.History.Course)
	applyIntConfig(cmd, "trend-window", &historyWindow, a.cfg.History.TrendWindow)
	cfg := model.HistoryConfig{
		Course:      strings.TrimSpace(historyCourse),
		Recent:      historyRecent,
		TrendWindow: historyWindow,
	}
	if err := validateHistoryConfig(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyPlain || !isTerminal(out) {
		return stats.BuildReport(ctx, a.repo, cfg).Render(out)
	}
	program := tea.NewProgram(historyui.NewModel(ctx, a.repo, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func validateHistoryConfig(cfg model.HistoryConfig) error {
	if cfg.Recent < 0 {
		return fmt.Errorf("--recent must be >= 0")
	}
	if cfg.TrendWindow < 1 {
		return fmt.Errorf("--trend-window must be >= 1")
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export finished rounds",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or yaml)")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	games := a.repo.LoadGames(cmd.Context())
	if exportOutput == "" {
		return writeExport(cmd.OutOrStdout(), games, exportFormat)
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	if err := writeExport(f, games, exportFormat); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", exportOutput, err)
	}
	logErrf("Wrote %d rounds to %s\n", len(games), exportOutput)
	return nil
}

func writeExport(w io.Writer, games []model.Game, format string) error {
	if games == nil {
		games = []model.Game{}
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(games); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(games); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
