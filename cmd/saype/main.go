// Package main provides the CLI entrypoint for saype.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/saype/internal/config"
	"github.com/verte-zerg/saype/internal/history"
	"github.com/verte-zerg/saype/internal/model"
	"github.com/verte-zerg/saype/internal/passage"
	"github.com/verte-zerg/saype/internal/store"
	"github.com/verte-zerg/saype/internal/tui"
)

const (
	defaultWidth       = 0
	defaultCurveWindow = 5
	defaultWeakTop     = 8
)

var (
	practicePassages string
	practiceWidth    int

	historyBackend string
	historyPath    string
	historyLimit   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "saype",
		Short:         "TUI pronunciation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadEnv()
		},
		RunE: runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practicePassages, "passages", "", "passage file, one passage per line")
	rootCmd.Flags().IntVar(&practiceWidth, "width", defaultWidth, "wrap width for the reference text (0: 70% of terminal)")

	rootCmd.PersistentFlags().StringVar(&historyBackend, "backend", config.BackendSQLite, "history backend (sqlite or json)")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history-path", "", "history database or file path")
	rootCmd.PersistentFlags().IntVar(&historyLimit, "history-limit", history.DefaultLimit, "number of attempts kept")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// resolveConfig merges the config file into flag values the user did not set.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "passages", &practicePassages, fileCfg.Practice.Passages)
	applyIntConfig(cmd, "width", &practiceWidth, fileCfg.Practice.Width)
	applyStringConfig(cmd, "backend", &historyBackend, fileCfg.History.Backend)
	applyStringConfig(cmd, "history-path", &historyPath, fileCfg.History.Path)
	applyIntConfig(cmd, "history-limit", &historyLimit, fileCfg.History.Limit)

	cfg := model.Config{
		PassagesPath: practicePassages,
		Width:        practiceWidth,
		HistoryLimit: historyLimit,
		Backend:      strings.ToLower(strings.TrimSpace(historyBackend)),
		StorePath:    historyPath,
	}
	if cfg.PassagesPath == "" {
		cfg.PassagesPath = config.DefaultPassagesPath()
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath(cfg.Backend)
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func defaultStorePath(backend string) string {
	if backend == config.BackendJSON {
		return config.DefaultHistoryFile()
	}
	return config.DefaultDBPath()
}

func validateConfig(cfg model.Config) error {
	if !config.ValidBackend(cfg.Backend) {
		return fmt.Errorf("--backend must be %q or %q", config.BackendSQLite, config.BackendJSON)
	}
	if cfg.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("--history-limit must be > 0")
	}
	return nil
}

// openHistory opens the configured backend. The returned closer releases it.
func openHistory(cfg model.Config) (*history.Store, io.Closer, error) {
	var (
		kv     history.KV
		closer io.Closer
	)
	switch cfg.Backend {
	case config.BackendJSON:
		fs, err := store.OpenFile(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history file: %w", err)
		}
		kv, closer = fs, fs
	default:
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db: %w", err)
		}
		kv, closer = st, st
	}
	return history.New(kv, cfg.HistoryLimit), closer, nil
}

func closeHistory(closer io.Closer) {
	if cerr := closer.Close(); cerr != nil {
		logErrf("failed to close history: %v\n", cerr)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	passages, err := passage.LoadOrDefault(cfg.PassagesPath)
	if err != nil {
		return passageLoadError(cfg.PassagesPath, err)
	}

	hist, closer, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory(closer)

	model := tui.NewModel(cfg, hist, passage.NewPicker(), passages)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newPassagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "List practice passages",
		Args:  cobra.NoArgs,
		RunE:  runPassagesCmd,
	}
	cmd.Flags().StringVar(&practicePassages, "passages", "", "passage file, one passage per line")
	return cmd
}

func runPassagesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	passages, err := passage.LoadOrDefault(cfg.PassagesPath)
	if err != nil {
		return passageLoadError(cfg.PassagesPath, err)
	}
	if _, statErr := os.Stat(cfg.PassagesPath); os.IsNotExist(statErr) {
		logErrf("No passage file at %s, using built-in passages\n", cfg.PassagesPath)
	}
	out := cmd.OutOrStdout()
	for i, p := range passages {
		if _, err := fmt.Fprintf(out, "%3d  %s\n", i+1, p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# saype configuration
# Uncomment a value to enable it. CLI flags override config values.
# SAYPE_CONFIG, SAYPE_DB and SAYPE_HISTORY_FILE (also read from .env) override default paths.

[practice]
# passages = %q   # One passage per line, # starts a comment
# width = %d              # Wrap width (0: 70%% of terminal)

[history]
# backend = %q        # sqlite or json
# path = ""               # Database or JSON file (default depends on backend)
# limit = %d              # Number of attempts kept
`,
		config.DefaultPassagesPath(),
		defaultWidth,
		config.BackendSQLite,
		history.DefaultLimit,
	)
}

func passageLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load passages: %v", err),
		fmt.Sprintf("passage file: %s", path),
		"Write one passage per line, or remove the file to use the built-in set.",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
