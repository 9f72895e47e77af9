package config

const (
	defaultConfigPath    = "~/.config/tichme/config.toml"
	defaultDataDir       = "~/.local/share/tichme"
	defaultLogDir        = "~/.local/share/tichme/logs"
	defaultDatabaseFile  = "tichme.db"
	defaultBusyTimeoutMS = 5000
	defaultWipeConfirmMB = 10
	// The archive starts in January 2007.
	defaultEpochYear  = 2007
	defaultEpochMonth = 1
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	dataDirEnv = "TICHME_DATA_DIR"
)

var defaultExtensions = []string{".tch", ".txt"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Database: Database{
			File:          defaultDatabaseFile,
			BusyTimeoutMS: defaultBusyTimeoutMS,
			WipeConfirmMB: defaultWipeConfirmMB,
		},
		Archive: Archive{
			EpochYear:  defaultEpochYear,
			EpochMonth: defaultEpochMonth,
		},
		Import: Import{
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
