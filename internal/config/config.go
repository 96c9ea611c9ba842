package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/catmerge/internal/diagram"
	"github.com/dusk-indust/catmerge/internal/fileops"
)

// FileNames are the config file names looked up, in order.
var FileNames = []string{"catmerge.yml", "catmerge.yaml"}

// ProjectConfig holds settings loaded from catmerge.yml.
type ProjectConfig struct {
	// KeepBackup writes orig-<name> before an artifact is remapped.
	KeepBackup *bool `yaml:"keepBackup,omitempty"`

	// CopyWorkers bounds concurrent file copies.
	CopyWorkers int `yaml:"copyWorkers,omitempty"`

	// PreferNewerShell keeps the newer node's fields when a tree node is
	// present on both sides.
	PreferNewerShell bool `yaml:"preferNewerShell,omitempty"`

	Diagram DiagramConfig `yaml:"diagram,omitempty"`

	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`
}

// DiagramConfig names the external diagram renderer. An empty Command
// disables rendering.
type DiagramConfig struct {
	Command  string   `yaml:"command,omitempty"`
	Args     []string `yaml:"args,omitempty"`
	ImageExt string   `yaml:"imageExt,omitempty"`
}

// Load attempts to read catmerge.yml or catmerge.yaml from the given
// directory. Returns a default config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Backup reports whether backups are enabled; they are unless disabled
// explicitly.
func (c *ProjectConfig) Backup() bool {
	return c.KeepBackup == nil || *c.KeepBackup
}

// Workers returns the copy concurrency.
func (c *ProjectConfig) Workers() int {
	if c.CopyWorkers <= 0 {
		return fileops.DefaultWorkers
	}
	return c.CopyWorkers
}

// ImageExt returns the extension of rendered diagram images.
func (c *ProjectConfig) ImageExt() string {
	if c.Diagram.ImageExt == "" {
		return diagram.DefaultImageExt
	}
	return c.Diagram.ImageExt
}

// Renderer returns the configured diagram renderer, or nil when none is set.
func (c *ProjectConfig) Renderer() diagram.Renderer {
	if c.Diagram.Command == "" {
		return nil
	}
	return &diagram.CommandRenderer{Command: c.Diagram.Command, Args: c.Diagram.Args}
}
