package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if strings.TrimSpace(c.LibraryPath) == "" {
		c.LibraryPath = defaultLibraryPath
	}
	var err error
	if c.LibraryPath, err = expandPath(c.LibraryPath); err != nil {
		return fmt.Errorf("library_path: %w", err)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	return nil
}
