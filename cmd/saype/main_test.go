package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/saype/internal/config"
	"github.com/verte-zerg/saype/internal/model"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(config.EnvHistoryFile, "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Backend: config.BackendSQLite, HistoryLimit: 50}
	if err := validateConfig(base); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := []model.Config{
		{Backend: "redis", HistoryLimit: 50},
		{Backend: config.BackendJSON, HistoryLimit: 0},
		{Backend: config.BackendJSON, HistoryLimit: 10, Width: -1},
	}
	for _, cfg := range bad {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestCheckJSON(t *testing.T) {
	isolateEnv(t)
	out, err := execute(t, "check", "--ref", "The quick brown fox", "--said", "the quick brown dog", "--format", "json")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var decoded struct {
		Score float64 `json:"score"`
		Band  string  `json:"band"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if decoded.Score != 75 || decoded.Band != "medium" {
		t.Fatalf("unexpected result %+v", decoded)
	}
}

func TestCheckSaveAndHistoryCommands(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "history.json")
	backend := []string{"--backend", "json", "--history-path", path}

	if _, err := execute(t, append([]string{"check", "--ref", "Hello World", "--said", "hello wrld", "--save", "--no-color"}, backend...)...); err != nil {
		t.Fatalf("check --save: %v", err)
	}

	out, err := execute(t, append([]string{"history", "list", "--no-color"}, backend...)...)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, "90.0%") || !strings.Contains(out, "hello world") {
		t.Fatalf("unexpected list output %q", out)
	}

	out, err = execute(t, append([]string{"history", "export", "--format", "json"}, backend...)...)
	if err != nil {
		t.Fatalf("history export: %v", err)
	}
	var records []model.HistoryRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := []string{records[0].OriginalText, records[0].RecognizedText, records[0].Accuracy}
	if diff := cmp.Diff([]string{"hello world", "hello wrld", "90.0"}, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := execute(t, append([]string{"history", "clear"}, backend...)...); err == nil {
		t.Fatalf("expected clear without --yes to fail")
	}
	if _, err := execute(t, append([]string{"history", "clear", "--yes"}, backend...)...); err != nil {
		t.Fatalf("history clear: %v", err)
	}
	out, err = execute(t, append([]string{"history", "list"}, backend...)...)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if out != "No practice records yet.\n" {
		t.Fatalf("expected empty history, got %q", out)
	}
}

func TestConfigFileSelectsBackend(t *testing.T) {
	dir := isolateEnv(t)
	historyFile := filepath.Join(dir, "from-config.json")
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[history]\nbackend = \"json\"\npath = " + `"` + filepath.ToSlash(historyFile) + `"` + "\nlimit = 5\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, cfgPath)

	if _, err := execute(t, "check", "--ref", "hi", "--said", "hi", "--save"); err != nil {
		t.Fatalf("check --save: %v", err)
	}
	if _, err := os.Stat(historyFile); err != nil {
		t.Fatalf("expected history file from config: %v", err)
	}
}

func TestStatsCommand(t *testing.T) {
	dir := isolateEnv(t)
	backend := []string{"--backend", "json", "--history-path", filepath.Join(dir, "h.json")}
	for _, said := range []string{"good morning", "good evening"} {
		if _, err := execute(t, append([]string{"check", "--ref", "good morning", "--said", said, "--save"}, backend...)...); err != nil {
			t.Fatalf("check: %v", err)
		}
	}
	out, err := execute(t, append([]string{"stats", "--trend-width", "40"}, backend...)...)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Attempts: 2", "Best: 100.0%", "Bands", "Accuracy Trend", "Weak Words", "morning"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in stats output:\n%s", want, out)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Practice.Passages != nil || cfg.History.Backend != nil {
		t.Fatalf("expected commented template to leave values unset")
	}
}
