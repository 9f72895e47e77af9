package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tichme/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TICHME_DATA_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "tichme")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "tichme.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.LockPath() != cfg.DatabasePath()+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Archive.EpochYear != 2007 || cfg.Archive.EpochMonth != 1 {
		t.Fatalf("unexpected archive epoch: %d-%d", cfg.Archive.EpochYear, cfg.Archive.EpochMonth)
	}
	if cfg.Database.WipeConfirmMB != 10 || cfg.WipeConfirmBytes() != 10*1024*1024 {
		t.Fatalf("unexpected wipe threshold: %d", cfg.Database.WipeConfirmMB)
	}
	if strings.Join(cfg.Import.Extensions, ",") != ".tch,.txt" {
		t.Fatalf("unexpected import extensions: %v", cfg.Import.Extensions)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tichme.toml")
	t.Setenv("TICHME_DATA_DIR", "")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Database struct {
			File string `toml:"file"`
		} `toml:"database"`
		Import struct {
			Extensions []string `toml:"extensions"`
		} `toml:"import"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Database.File = "games.db"
	custom.Import.Extensions = []string{"TCH", ".log", ".tch", " "}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.DatabasePath() != filepath.Join(tempDir, "data", "games.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if strings.Join(cfg.Import.Extensions, ",") != ".tch,.log" {
		t.Fatalf("expected normalized extensions, got %v", cfg.Import.Extensions)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tichme.toml")
	if err := os.WriteFile(configPath, []byte("[database]\nfiel = \"x.db\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvVarOverridesDataDir(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tichme.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\ndata_dir = \"/from/file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	override := t.TempDir()
	t.Setenv("TICHME_DATA_DIR", override)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	defaults := config.Default()
	if cfg.Database != defaults.Database {
		t.Fatalf("sample database section drifted from defaults: %+v", cfg.Database)
	}
	if cfg.Archive != defaults.Archive {
		t.Fatalf("sample archive section drifted from defaults: %+v", cfg.Archive)
	}
	if !strings.Contains(cfg.Paths.DataDir, "tichme") {
		t.Fatalf("expected data dir to contain tichme, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Archive.EpochMonth = 13
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for epoch month out of range")
	}

	cfg = config.Default()
	cfg.Database.File = filepath.Join("nested", "tichme.db")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for database path instead of file name")
	}

	cfg = config.Default()
	cfg.Database.BusyTimeoutMS = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive busy timeout")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
