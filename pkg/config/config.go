// Package config loads the build configuration from pybuild.yml.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type PythonConfig struct {
	// Series is the version marker the interpreter has to report, e.g. "3.12".
	Series string `yaml:"series"`
	// Interpreter overrides interpreter discovery with an explicit path.
	Interpreter string `yaml:"interpreter,omitempty"`
}

type HooksConfig struct {
	PreBuild  string `yaml:"pre_build,omitempty"`
	PostBuild string `yaml:"post_build,omitempty"`
}

// Config drives the build pipeline. Every field has a default that matches
// the plain wrapper behavior; pybuild.yml at the project root overrides them
// selectively.
type Config struct {
	App           string            `yaml:"app"`
	Entry         string            `yaml:"entry"`
	Python        PythonConfig      `yaml:"python"`
	Packages      []string          `yaml:"packages"`
	HiddenImports []string          `yaml:"hidden_imports,omitempty"`
	Data          map[string]string `yaml:"data,omitempty"`
	Clean         []string          `yaml:"clean"`
	Delegate      string            `yaml:"delegate,omitempty"`
	Hooks         HooksConfig       `yaml:"hooks,omitempty"`
	ReleaseDirs   []string          `yaml:"release_dirs"`
}

// Defaults reproduces the hardcoded values of the old build scripts.
func Defaults() *Config {
	return &Config{
		App:    "AutoGun",
		Entry:  "main.py",
		Python: PythonConfig{Series: "3.12"},
		Packages: []string{
			"pyinstaller",
		},
		HiddenImports: []string{
			"pymem",
			"keyboard",
			"mouse",
			"loguru",
			"yaml",
		},
		Data: map[string]string{
			"config": "config",
			"data":   "data",
		},
		Clean:       []string{"build", "dist", "__pycache__"},
		ReleaseDirs: []string{"config", "data"},
	}
}

// Load reads pybuild.yml from the project root (or from $PYBUILD_CONFIG) on
// top of the defaults. A missing config file is fine. A .env file at the
// project root can provide PYBUILD_PYTHON and PYBUILD_CONFIG; values already
// present in the environment win.
func Load(root string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	var cfg Config
	path := os.Getenv("PYBUILD_CONFIG")
	if path == "" {
		path = filepath.Join(root, "pybuild.yml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !eris.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(err, "Could not open file %s.", path)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	applyDefaults(&cfg)

	if value := os.Getenv("PYBUILD_PYTHON"); value != "" {
		cfg.Python.Interpreter = value
	}

	return &cfg, nil
}

// applyDefaults fills every field the config file left unset. Lists and maps
// given in the file replace the defaults instead of extending them.
func applyDefaults(cfg *Config) {
	def := Defaults()

	if cfg.App == "" {
		cfg.App = def.App
	}
	if cfg.Entry == "" {
		cfg.Entry = def.Entry
	}
	if cfg.Python.Series == "" {
		cfg.Python.Series = def.Python.Series
	}
	if cfg.Packages == nil {
		cfg.Packages = def.Packages
	}
	if cfg.HiddenImports == nil {
		cfg.HiddenImports = def.HiddenImports
	}
	if cfg.Data == nil {
		cfg.Data = def.Data
	}
	if cfg.Clean == nil {
		cfg.Clean = def.Clean
	}
	if cfg.ReleaseDirs == nil {
		cfg.ReleaseDirs = def.ReleaseDirs
	}
}
