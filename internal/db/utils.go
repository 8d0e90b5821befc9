package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/nbextract/internal/extract"
	"github.com/dtnitsch/nbextract/models"
	dbpkg "github.com/dtnitsch/nbextract/pkg/db"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

// OpenLedger opens the run ledger named by the effective config. Unlike
// extract it never creates one.
func OpenLedger(c *cli.Context) (*dbpkg.DB, *models.Config, error) {
	cfg, err := extract.LoadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Ledger == "" {
		return nil, nil, errors.New("run ledger is disabled")
	}

	path := cfg.Resolve(cfg.Ledger)
	if !(&storage.Storage{}).HasFile(path) {
		return nil, nil, fmt.Errorf("no run ledger at %s. Run 'nbextract extract' first", path)
	}

	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, cfg, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run over
// root if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB, root string) (int64, error) {
	if c.NArg() == 0 {
		run, err := database.LatestRun("", root)
		if errors.Is(err, dbpkg.ErrNoRuns) {
			return 0, errors.New("no runs found. Run 'nbextract extract' first")
		}
		if err != nil {
			return 0, err
		}
		return run.RunID, nil
	}

	runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}

func absRoot(cfg *models.Config) string {
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return cfg.Root
	}
	return abs
}

// diskState flags recorded outputs that were deleted or rewritten since.
func diskState(s *storage.Storage, a dbpkg.ArtifactInfo) string {
	stats, err := s.GetFileStats(a.FilePath)
	if err != nil {
		return "  (missing)"
	}
	if stats.SizeBytes != a.SizeBytes {
		return "  (changed)"
	}
	return ""
}
