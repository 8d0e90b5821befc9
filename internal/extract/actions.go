// Package extract implements the extract and list commands.
package extract

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/nbextract/internal/common"
	"github.com/dtnitsch/nbextract/pkg/detector"
	"github.com/dtnitsch/nbextract/pkg/discover"
	"github.com/dtnitsch/nbextract/pkg/extractor"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

// ExtractAction discovers the notebook HTML files under the root and
// extracts each one.
func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"))

	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	e, err := extractor.New(cfg, logger)
	if err != nil {
		return err
	}

	files, err := discover.FindHTMLFiles(cfg.Root, cfg.NotebookExt, cfg.HTMLExt)
	if err != nil {
		return err
	}
	logger.Info("discovered notebook pages", "root", cfg.Root, "count", len(files))

	l := openLedger(cfg, logger)
	defer l.close()

	r := &runner{
		cfg:       cfg,
		extractor: e,
		detector:  detector.New(),
		storage:   &storage.Storage{},
		ledger:    l,
		logger:    logger,
		out:       c.App.Writer,
	}
	_, err = r.run(files)
	return err
}

// ListAction prints the HTML files extract would process, one per line.
func ListAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	files, err := discover.FindHTMLFiles(cfg.Root, cfg.NotebookExt, cfg.HTMLExt)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(c.App.Writer, common.DisplayPath(cfg.Root, f))
	}
	return nil
}
