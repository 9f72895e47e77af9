package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tichme/internal/config"
	"tichme/internal/testsupport"
)

var fixtureNames = []string{
	"incomplete.tch",
	"one_round_grand_tichu.tch",
	"one_round_no_tichu.tch",
	"one_round_tichu_after.tch",
	"one_round_tichu_before.tch",
	"player_swap.tch",
}

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	baseDir     string
	fixturesDir string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TICHME_DATA_DIR", "")

	configPath := filepath.Join(homeDir, ".config", "tichme", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	fixturesDir := filepath.Join(base, "transcripts")
	for _, name := range fixtureNames {
		testsupport.WriteTranscript(t, fixturesDir, name)
	}

	return &cliTestEnv{
		cfg:         cfg,
		configPath:  configPath,
		baseDir:     base,
		fixturesDir: fixturesDir,
	}
}

func (e *cliTestEnv) fixture(name string) string {
	return filepath.Join(e.fixturesDir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[database]\nbusy_timeout_ms = %d\nwipe_confirm_mb = %d\n\n[archive]\nepoch_year = %d\nepoch_month = %d\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Database.BusyTimeoutMS,
		cfg.Database.WipeConfirmMB,
		cfg.Archive.EpochYear,
		cfg.Archive.EpochMonth,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
