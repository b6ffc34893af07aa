package config

const (
	defaultLibraryPath         = "~/.local/share/pngcard/library.db"
	defaultLogLevel            = "info"
	defaultLogFormat           = "text"
	defaultWidth               = 400
	defaultHeight              = 600
	defaultMaxDescriptionLines = 8
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		LibraryPath: defaultLibraryPath,
		LogLevel:    defaultLogLevel,
		LogFormat:   defaultLogFormat,
		Render: Render{
			Width:               defaultWidth,
			Height:              defaultHeight,
			MaxDescriptionLines: defaultMaxDescriptionLines,
		},
	}
}
