package config

const (
	defaultMusicDir             = "~/Music/tubetag"
	defaultLogDir               = "~/.local/share/tubetag/logs"
	defaultLibraryDB            = "~/.local/share/tubetag/library.db"
	defaultAudioFormat          = "mp3"
	defaultShortDescriptorLimit = 30
	defaultMaxNameLength        = 200
	minNameLength               = 16
	defaultDuplicateThreshold   = 0.85
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
)

// Default returns a Config populated with repository defaults. Empty rule
// tables mean the built-in tables.
func Default() Config {
	return Config{
		Paths: Paths{
			MusicDir:  defaultMusicDir,
			LogDir:    defaultLogDir,
			LibraryDB: defaultLibraryDB,
		},
		Download: Download{
			AudioFormat: defaultAudioFormat,
		},
		Rules: Rules{
			ShortDescriptorLimit: defaultShortDescriptorLimit,
		},
		Filenames: Filenames{
			MaxLength:       defaultMaxNameLength,
			ReserveWithLock: true,
		},
		Library: Library{
			DuplicateThreshold: defaultDuplicateThreshold,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
