// Package config loads the optional TOML configuration file controlling the
// data directory and the diagram geometry.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"sqlitepad/internal/diagram"
)

// DefaultFile is the config file looked up when none is specified.
const DefaultFile = "sqlitepad.toml"

// Config is the top-level TOML document.
type Config struct {
	DataDir string  `toml:"data_dir"`
	Diagram Diagram `toml:"diagram"`
}

// Diagram maps the [diagram] section. Non-positive values fall back to the
// built-in geometry.
type Diagram struct {
	CanvasWidth int `toml:"canvas_width"`
	BoxWidth    int `toml:"box_width"`
	GapX        int `toml:"gap_x"`
	GapY        int `toml:"gap_y"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{DataDir: "data"}
}

// Load reads the configuration file at path. A missing file is only an error
// when the path was explicitly requested; the default location is optional.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	return cfg, nil
}

// Geometry converts the diagram section into layout geometry, keeping the
// defaults for unset values.
func (c Config) Geometry() diagram.Geometry {
	g := diagram.DefaultGeometry()
	if c.Diagram.CanvasWidth > 0 {
		g.CanvasWidth = c.Diagram.CanvasWidth
	}
	if c.Diagram.BoxWidth > 0 {
		g.BoxWidth = c.Diagram.BoxWidth
	}
	if c.Diagram.GapX > 0 {
		g.GapX = c.Diagram.GapX
	}
	if c.Diagram.GapY > 0 {
		g.GapY = c.Diagram.GapY
	}
	return g
}
