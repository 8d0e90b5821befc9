// Package db implements the commands that read and prune the run ledger.
package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/nbextract/internal/common"
	dbpkg "github.com/dtnitsch/nbextract/pkg/db"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

func RunsAction(c *cli.Context) error {
	database, _, err := OpenLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-16s %-8s %-6s %-6s %-6s %-10s\n",
		"ID", "Started", "Age", "Status", "Files", "Done", "Failed", "Preset")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-16s %-8s %-6d %-6d %-6d %-10s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			humanize.Time(r.StartedAt),
			r.Status,
			r.FileCount,
			r.ProcessedCount,
			r.FailedCount,
			r.Preset,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'nbextract run <id>' to see the files a run wrote\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, cfg, err := OpenLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database, absRoot(cfg))
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	artifacts, err := database.ListArtifacts(runID)
	if err != nil {
		return fmt.Errorf("failed to get run artifacts: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Fprintf(w, "Finished:    %s (%s)\n", run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Root:        %s\n", run.Root)
	fmt.Fprintf(w, "Preset:      %s\n", run.Preset)
	fmt.Fprintf(w, "Status:      %s\n", run.Status)
	fmt.Fprintf(w, "Files:       %d total (%d processed, %d failed)\n",
		run.FileCount, run.ProcessedCount, run.FailedCount)
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:       %s\n", run.ErrorMessage)
	}

	root := run.Root
	if root == "" {
		root = absRoot(cfg)
	}

	var total int64
	fmt.Fprintf(w, "\nOutputs (%d):\n", len(artifacts))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	s := &storage.Storage{}
	for _, a := range artifacts {
		total += a.SizeBytes
		fmt.Fprintf(w, "%-10s %9s  %s  %s%s\n",
			a.Kind,
			common.HumanSize(a.SizeBytes),
			common.ShortHash(a.ContentHash),
			common.DisplayPath(root, a.FilePath),
			diskState(s, a),
		)
	}
	if len(artifacts) > 0 {
		fmt.Fprintf(w, "\nTotal size: %s\n", common.HumanSize(total))
	}

	return nil
}

// CleanAction removes outputs that the latest successful run did not write,
// or every recorded output with --all.
func CleanAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"))

	database, cfg, err := OpenLedger(c)
	if err != nil {
		return err
	}
	defer database.Close()

	root := absRoot(cfg)
	var paths []string
	if c.Bool("all") {
		paths, err = database.AllArtifactPaths(root)
	} else {
		var run *dbpkg.Run
		run, err = database.LatestRun(dbpkg.RunSuccess, root)
		if errors.Is(err, dbpkg.ErrNoRuns) {
			return fmt.Errorf("no successful run recorded for %s; use --all to remove every recorded output", root)
		}
		if err != nil {
			return err
		}
		logger.Info("cleaning stale outputs", "reference_run", run.RunID)
		paths, err = database.StaleArtifactPaths(run.RunID)
	}
	if err != nil {
		return err
	}

	w := c.App.Writer
	dryRun := c.Bool("dry-run")
	s := &storage.Storage{}
	removed := 0

	for _, p := range paths {
		if dryRun {
			fmt.Fprintf(w, "would remove %s\n", common.DisplayPath(root, p))
			continue
		}

		existed, err := s.RemoveFile(p)
		if err != nil {
			return err
		}
		if err := database.ForgetArtifactPath(p); err != nil {
			return err
		}
		if existed {
			removed++
			fmt.Fprintf(w, "removed %s\n", common.DisplayPath(root, p))
		}
		logger.Debug("forgot artifact", "path", p, "existed", existed)
	}

	if dryRun {
		fmt.Fprintf(w, "%d files would be removed\n", len(paths))
		return nil
	}
	fmt.Fprintf(w, "%d files removed\n", removed)
	return nil
}
