package config

const (
	defaultStillsRoot = "~/Pictures/Import"
	defaultVideosRoot = "~/Videos/Import"
	defaultStateDir   = "~/.local/state/mediaimport"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StillsRoot: defaultStillsRoot,
			VideosRoot: defaultVideosRoot,
			StateDir:   defaultStateDir,
		},
		Import: Import{
			Mode: "copy",
		},
		Metadata: Metadata{
			StillReader:       "goexif",
			VideoReader:       "auto",
			Timezone:          "Local",
			ExpectedFrameRate: 25,
			FallbackOffset:    "2h",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
