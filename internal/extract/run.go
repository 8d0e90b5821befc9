package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/detector"
	"github.com/dtnitsch/nbextract/pkg/extractor"
	"github.com/dtnitsch/nbextract/pkg/manifest"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

// runner extracts files one at a time, in discovery order.
type runner struct {
	cfg       *models.Config
	extractor *extractor.Extractor
	detector  *detector.Detector
	storage   *storage.Storage
	ledger    *ledger
	logger    *slog.Logger
	out       io.Writer
}

// run processes files and returns the first error, or with keep_going every
// error joined together.
func (r *runner) run(files []string) ([]manifest.FileResult, error) {
	r.ledger.start(r.cfg.Root, string(r.cfg.Preset), len(files))
	r.logger.Info("Starting extract phase", "root", r.cfg.Root, "files", len(files), "keep_going", r.cfg.KeepGoing)

	results := make([]manifest.FileResult, 0, len(files))
	var errs []error
	processed := 0

	for _, htmlPath := range files {
		if r.cfg.Progress {
			fmt.Fprintf(r.out, "Reading %s\n", filepath.Base(htmlPath))
		}

		fr := r.process(htmlPath)
		results = append(results, fr)
		if fr.Error != nil {
			r.logger.Error("extract failed", "path", htmlPath, "error", fr.Error)
			errs = append(errs, fr.Error)
			if !r.cfg.KeepGoing {
				break
			}
			continue
		}
		processed++
	}

	runErr := errors.Join(errs...)
	r.ledger.finish(processed, len(errs), runErr)
	r.logger.Info("Extract phase finished", "processed", processed, "failed", len(errs))

	if r.cfg.Manifest != "" {
		r.writeManifest(results, len(files))
	}

	return results, runErr
}

func (r *runner) process(htmlPath string) manifest.FileResult {
	fr := manifest.FileResult{HTMLPath: htmlPath}

	result, err := r.extractor.Extract(htmlPath)
	if err != nil {
		fr.Error = err
		return fr
	}
	fr.Result = result
	r.ledger.record(result)

	if r.cfg.Manifest != "" {
		fr.WordCounts = r.describe(result)
	}

	r.logger.Info("extracted",
		"path", htmlPath,
		"notebook", result.NotebookPath,
		"outputs", len(result.Outputs),
		"sections", result.Sections,
		"images", result.Images)

	return fr
}

// describe attaches article metadata for the manifest. Failures only cost
// the metadata.
func (r *runner) describe(result *models.ExtractResult) map[string]int {
	source, err := r.storage.ReadFile(result.HTMLPath)
	if err != nil {
		r.logger.Warn("failed to re-read source for metadata", "path", result.HTMLPath, "error", err)
		return nil
	}
	meta, counts, err := r.detector.Describe(source, result.HTMLPath, result.Article)
	if err != nil {
		r.logger.Warn("metadata incomplete", "path", result.HTMLPath, "error", err)
	}
	result.Meta = meta
	return counts
}

func (r *runner) writeManifest(results []manifest.FileResult, total int) {
	info := manifest.RunInfo{
		Root:       absPath(r.cfg.Root),
		Preset:     string(r.cfg.Preset),
		TotalFiles: total,
	}
	if r.ledger != nil {
		info.RunID = r.ledger.runID
	}

	path := r.cfg.Resolve(r.cfg.Manifest)
	m := manifest.Build(info, results, time.Now())
	if err := manifest.Write(path, m, r.storage); err != nil {
		r.logger.Warn("failed to write run manifest", "path", path, "error", err)
		return
	}
	r.logger.Info("Run manifest saved", "path", path)
}
