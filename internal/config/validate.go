package config

import (
	"errors"
	"fmt"
)

const (
	minCanvas = 64
	maxCanvas = 4096
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json (got %q)", c.LogFormat)
	}
	return nil
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.Width < minCanvas || r.Width > maxCanvas || r.Height < minCanvas || r.Height > maxCanvas {
		return fmt.Errorf("render.width and render.height must be between %d and %d", minCanvas, maxCanvas)
	}
	if r.Width*3 != r.Height*2 {
		return fmt.Errorf("render.width:render.height must be 2:3 (got %dx%d)", r.Width, r.Height)
	}
	if r.MaxDescriptionLines < 1 {
		return errors.New("render.max_description_lines must be at least 1")
	}
	return nil
}
