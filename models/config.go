// Package models defines data structures for configuration and extraction results.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile   = "nbextract.yaml"
	DefaultLedgerFile   = ".nbextract.db"
	DefaultBaseDir      = "build/html/posts"
	DefaultImagePrefix  = "../../../_static/images"
	DefaultBinderURL    = "https://mybinder.org"
	DefaultBinderRepo   = "andersle/andersleno"
	DefaultBinderBranch = "main"

	FixedStylesheetName = "style-nbsphinx.css"
	FixedLinkName       = "link.rst"
)

// OutputName controls how a companion file is named.
type OutputName struct {
	Naming Naming `yaml:"naming"`
	// Name is used when Naming is NamingFixed.
	Name string `yaml:"name,omitempty"`
}

// BinderConfig describes the interactive notebook service the link snippet points at.
type BinderConfig struct {
	URL        string `yaml:"url"`
	Repository string `yaml:"repository"`
	Branch     string `yaml:"branch"`
}

// Config holds the pipeline configuration. Values come from the optional
// YAML config file and are overridden by CLI flags.
type Config struct {
	Preset Preset `yaml:"preset"`

	Root        string `yaml:"root"`
	BaseDir     string `yaml:"base_dir"`
	NotebookExt string `yaml:"notebook_ext"`
	HTMLExt     string `yaml:"html_ext"`

	ContentSelector   string `yaml:"content_selector"`
	SplitSections     bool   `yaml:"split_sections"`
	RewriteImagePaths bool   `yaml:"rewrite_image_paths"`
	ImagePrefix       string `yaml:"image_prefix"`

	Stylesheet OutputName   `yaml:"stylesheet"`
	Link       OutputName   `yaml:"link"`
	Binder     BinderConfig `yaml:"binder"`

	Progress  bool `yaml:"progress"`
	KeepGoing bool `yaml:"keep_going"`

	// Ledger is the SQLite run ledger path, relative to Root unless absolute.
	// Empty disables the ledger.
	Ledger string `yaml:"ledger"`
	// Manifest is the run manifest path. Empty disables it.
	Manifest string `yaml:"manifest,omitempty"`
}

// DefaultConfig returns the configuration of the given preset.
func DefaultConfig(p Preset) (*Config, error) {
	cfg := &Config{
		Root:        ".",
		BaseDir:     DefaultBaseDir,
		NotebookExt: ".ipynb",
		HTMLExt:     ".html",
		ImagePrefix: DefaultImagePrefix,
		Binder: BinderConfig{
			URL:        DefaultBinderURL,
			Repository: DefaultBinderRepo,
			Branch:     DefaultBinderBranch,
		},
		Ledger: DefaultLedgerFile,
	}
	if err := cfg.ApplyPreset(p); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyPreset overwrites the variant-specific fields with the preset's values.
func (c *Config) ApplyPreset(p Preset) error {
	switch p {
	case PresetBlog:
		c.ContentSelector = "article"
		c.SplitSections = true
		c.RewriteImagePaths = true
		c.Stylesheet = OutputName{Naming: NamingDerived}
		c.Link = OutputName{Naming: NamingDerived}
		c.Progress = true
	case PresetNbsphinx:
		c.ContentSelector = "main > div"
		c.SplitSections = false
		c.RewriteImagePaths = false
		c.Stylesheet = OutputName{Naming: NamingFixed, Name: FixedStylesheetName}
		c.Link = OutputName{Naming: NamingFixed, Name: FixedLinkName}
		c.Progress = false
	default:
		return fmt.Errorf("unknown preset: %q", p)
	}
	c.Preset = p
	return nil
}

// LoadConfig reads a YAML config file. The preset named in the file is
// applied first and the remaining keys in the file override it.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var probe struct {
		Preset Preset `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if probe.Preset == "" {
		probe.Preset = PresetBlog
	}

	cfg, err := DefaultConfig(probe.Preset)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads path if it exists and falls back to the blog preset otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(PresetBlog)
	}
	return cfg, err
}

// Resolve joins a relative path with Root. Absolute and empty paths are
// returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if !c.Preset.Valid() {
		return fmt.Errorf("unknown preset: %q", c.Preset)
	}
	if strings.TrimSpace(c.ContentSelector) == "" {
		return errors.New("content_selector must not be empty")
	}
	if !strings.HasPrefix(c.NotebookExt, ".") || !strings.HasPrefix(c.HTMLExt, ".") {
		return fmt.Errorf("extensions must start with a dot: notebook_ext=%q html_ext=%q", c.NotebookExt, c.HTMLExt)
	}
	if c.NotebookExt == c.HTMLExt {
		return fmt.Errorf("notebook_ext and html_ext must differ: %q", c.HTMLExt)
	}
	for field, o := range map[string]OutputName{"stylesheet": c.Stylesheet, "link": c.Link} {
		if !o.Naming.Valid() {
			return fmt.Errorf("%s.naming: unknown naming mode %q", field, o.Naming)
		}
		if o.Naming == NamingFixed && strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("%s.name is required when naming is %q", field, NamingFixed)
		}
		if strings.ContainsAny(o.Name, `/\`) {
			return fmt.Errorf("%s.name must be a bare file name: %q", field, o.Name)
		}
	}
	if c.Binder.URL == "" || c.Binder.Repository == "" || c.Binder.Branch == "" {
		return errors.New("binder url, repository and branch are required")
	}
	return nil
}
