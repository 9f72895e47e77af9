package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.File == "" {
		return errors.New("database.file must be set")
	}
	if filepath.Base(c.Database.File) != c.Database.File {
		return fmt.Errorf("database.file %q must be a file name, not a path", c.Database.File)
	}
	if c.Database.BusyTimeoutMS <= 0 {
		return errors.New("database.busy_timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.EpochYear < 1 {
		return errors.New("archive.epoch_year must be positive")
	}
	if c.Archive.EpochMonth < 1 || c.Archive.EpochMonth > 12 {
		return fmt.Errorf("archive.epoch_month must be between 1 and 12, got %d", c.Archive.EpochMonth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
