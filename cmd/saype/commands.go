package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/saype/internal/assess"
	"github.com/verte-zerg/saype/internal/history"
	"github.com/verte-zerg/saype/internal/historyui"
	"github.com/verte-zerg/saype/internal/model"
	"github.com/verte-zerg/saype/internal/report"
	"github.com/verte-zerg/saype/internal/stats"
)

var (
	checkRef     string
	checkSaid    string
	checkFormat  string
	checkSave    bool
	checkNoColor bool

	historyFormat  string
	historyNoColor bool
	historyYes     bool

	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
	statsWidth       int
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Score a recognized text against a reference",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}
	cmd.Flags().StringVar(&checkRef, "ref", "", "reference text")
	cmd.Flags().StringVar(&checkSaid, "said", "", "recognized text")
	cmd.Flags().StringVar(&checkFormat, "format", string(report.FormatText), "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&checkSave, "save", false, "append the attempt to history")
	cmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored output")
	_ = cmd.MarkFlagRequired("ref")
	_ = cmd.MarkFlagRequired("said")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(checkFormat)
	if err != nil {
		return err
	}
	reference := assess.Normalize(checkRef)
	recognized := assess.Normalize(checkSaid)
	if reference == "" {
		return fmt.Errorf("--ref must not be empty")
	}
	if recognized == "" {
		logErrln("nothing was recognized; the attempt scores 0")
	}
	res := assess.Assess(reference, recognized)

	if checkSave {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		hist, closer, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer closeHistory(closer)
		rec, err := hist.Append(context.Background(), reference, recognized)
		if err != nil {
			return fmt.Errorf("failed to save attempt: %w", err)
		}
		logErrf("Saved attempt %d\n", rec.ID)
	}

	out := cmd.OutOrStdout()
	if format != report.FormatText {
		return report.Encode(out, format, res)
	}
	return report.NewFormatter(checkNoColor).Result(out, res)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past attempts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryBrowseCmd,
	}
	cmd.PersistentFlags().BoolVar(&historyNoColor, "no-color", false, "disable colored output")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List past attempts, most recent first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an attempt with its word-level comparison",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all attempts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clearCmd.Flags().BoolVar(&historyYes, "yes", false, "confirm removal")
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write all attempts as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVar(&historyFormat, "format", string(report.FormatJSON), "output format (json, yaml)")

	cmd.AddCommand(listCmd, showCmd, clearCmd, exportCmd)
	return cmd
}

// withHistory opens the configured history for the duration of fn.
func withHistory(cmd *cobra.Command, fn func(*history.Store) error) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	hist, closer, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory(closer)
	return fn(hist)
}

func runHistoryBrowseCmd(cmd *cobra.Command, _ []string) error {
	return withHistory(cmd, func(hist *history.Store) error {
		ui := historyui.NewModel(hist, model.StatsConfig{CurveWindow: defaultCurveWindow})
		program := tea.NewProgram(ui, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	})
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	return withHistory(cmd, func(hist *history.Store) error {
		records, err := hist.List(context.Background())
		if err != nil {
			return err
		}
		return report.NewFormatter(historyNoColor).Records(cmd.OutOrStdout(), records)
	})
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}
	return withHistory(cmd, func(hist *history.Store) error {
		rec, ok, err := hist.Find(context.Background(), id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no record with id %d", id)
		}
		return report.NewFormatter(historyNoColor).Record(cmd.OutOrStdout(), rec, history.Replay(rec))
	})
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	if !historyYes {
		return errors.New("refusing to clear history without --yes")
	}
	return withHistory(cmd, func(hist *history.Store) error {
		if err := hist.Clear(context.Background()); err != nil {
			return err
		}
		logErrln("History cleared")
		return nil
	})
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(historyFormat)
	if err != nil {
		return err
	}
	if format == report.FormatText {
		return fmt.Errorf("--format must be json or yaml")
	}
	return withHistory(cmd, func(hist *history.Store) error {
		records, err := hist.List(context.Background())
		if err != nil {
			return err
		}
		return report.Encode(cmd.OutOrStdout(), format, records)
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show accuracy stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", defaultWeakTop, "number of weak words to show")
	cmd.Flags().IntVar(&statsWidth, "trend-width", 0, "trend width (0: fit terminal)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	statsCfg := model.StatsConfig{Last: statsLast, CurveWindow: statsCurveWindow}
	return withHistory(cmd, func(hist *history.Store) error {
		rep, err := stats.BuildReport(context.Background(), hist, statsCfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		width := statsWidth
		if width > 0 {
			width = stats.SparklineWidthFor(width)
		}
		return rep.Render(cmd.OutOrStdout(), statsWeakTop, width)
	})
}
