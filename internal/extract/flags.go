package extract

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/nbextract/models"
)

// ConfigFlags are accepted by every command. Each flag overrides the matching
// config file key only when it is set.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (default: ./" + models.DefaultConfigFile + " when present)",
		},
		&cli.StringFlag{
			Name:  "preset",
			Usage: "output variant: blog or nbsphinx",
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "directory to search for notebooks",
		},
		&cli.StringFlag{
			Name:  "base-dir",
			Usage: "directory notebook paths are made relative to (relative to --root)",
		},
		&cli.StringFlag{
			Name:  "content-selector",
			Usage: "CSS selector of the article container",
		},
		&cli.BoolFlag{
			Name:  "split-sections",
			Usage: "write each <section> to its own file",
		},
		&cli.BoolFlag{
			Name:  "rewrite-images",
			Usage: "point <img> alt/src at the shared static image directory",
		},
		&cli.StringFlag{
			Name:  "stylesheet-naming",
			Usage: "stylesheet file name: derived (<stem>.css) or fixed (" + models.FixedStylesheetName + ")",
		},
		&cli.StringFlag{
			Name:  "link-naming",
			Usage: "link snippet file name: derived (<stem>.rst) or fixed (" + models.FixedLinkName + ")",
		},
		&cli.StringFlag{
			Name:  "binder-repo",
			Usage: "GitHub repository the Binder link launches",
		},
		&cli.StringFlag{
			Name:  "binder-branch",
			Usage: "branch the Binder link launches",
		},
		&cli.BoolFlag{
			Name:  "keep-going",
			Usage: "continue past failing files and report them all at the end",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "print the name of each file before processing it",
		},
		&cli.StringFlag{
			Name:  "ledger",
			Usage: "SQLite run ledger (relative to --root)",
		},
		&cli.BoolFlag{
			Name:  "no-ledger",
			Usage: "do not record the run",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "write a YAML run manifest to this path (relative to --root)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
	}
}

// LoadConfig builds the effective configuration: config file or preset
// defaults, then --preset, then the remaining flags.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	var cfg *models.Config
	var err error
	if c.IsSet("config") {
		cfg, err = models.LoadConfig(c.String("config"))
	} else {
		cfg, err = models.LoadConfigOrDefault(models.DefaultConfigFile)
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("preset") {
		if err := cfg.ApplyPreset(models.Preset(c.String("preset"))); err != nil {
			return nil, err
		}
	}

	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("base-dir") {
		cfg.BaseDir = c.String("base-dir")
	}
	if c.IsSet("content-selector") {
		cfg.ContentSelector = c.String("content-selector")
	}
	if c.IsSet("split-sections") {
		cfg.SplitSections = c.Bool("split-sections")
	}
	if c.IsSet("rewrite-images") {
		cfg.RewriteImagePaths = c.Bool("rewrite-images")
	}
	if c.IsSet("stylesheet-naming") {
		cfg.Stylesheet = outputName(c.String("stylesheet-naming"), models.FixedStylesheetName)
	}
	if c.IsSet("link-naming") {
		cfg.Link = outputName(c.String("link-naming"), models.FixedLinkName)
	}
	if c.IsSet("binder-repo") {
		cfg.Binder.Repository = c.String("binder-repo")
	}
	if c.IsSet("binder-branch") {
		cfg.Binder.Branch = c.String("binder-branch")
	}
	if c.IsSet("keep-going") {
		cfg.KeepGoing = c.Bool("keep-going")
	}
	if c.IsSet("progress") {
		cfg.Progress = c.Bool("progress")
	}
	if c.IsSet("ledger") {
		cfg.Ledger = c.String("ledger")
	}
	if c.Bool("no-ledger") {
		cfg.Ledger = ""
	}
	if c.IsSet("manifest") {
		cfg.Manifest = c.String("manifest")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func outputName(naming, fixedName string) models.OutputName {
	n := models.OutputName{Naming: models.Naming(naming)}
	if n.Naming == models.NamingFixed {
		n.Name = fixedName
	}
	return n
}
