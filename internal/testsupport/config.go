package testsupport

import (
	"path/filepath"
	"testing"

	"tichme/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Database.BusyTimeoutMS = 1000

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithArchiveEpoch overrides the first month the gap query may return.
func WithArchiveEpoch(year, month int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.EpochYear = year
		b.cfg.Archive.EpochMonth = month
	}
}

// WithWipeThreshold sets the database size in MiB above which wipe asks
// for confirmation.
func WithWipeThreshold(mb int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Database.WipeConfirmMB = mb
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
