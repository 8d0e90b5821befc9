package manifest

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/mapreduce"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

const aggregateKeywordCount = 25

// FileResult is the driver's record of one processed file.
type FileResult struct {
	HTMLPath   string
	Result     *models.ExtractResult
	Error      error
	WordCounts map[string]int
}

// RunInfo identifies the run a manifest describes.
type RunInfo struct {
	RunID      int64
	Root       string
	Preset     string
	TotalFiles int
}

// Build assembles the manifest for a run.
func Build(info RunInfo, results []FileResult, now time.Time) RunManifest {
	m := RunManifest{
		GeneratedAt: now.Format(time.RFC3339),
		RunID:       info.RunID,
		Root:        info.Root,
		Preset:      info.Preset,
		TotalFiles:  info.TotalFiles,
	}

	var intermediate []map[string]int
	for _, r := range results {
		summary := FileSummary{HTMLPath: r.HTMLPath}

		if r.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.Error = r.Error.Error()
			m.Results = append(m.Results, summary)
			continue
		}

		m.Processed++
		summary.Status = "success"
		if r.Result != nil {
			summary.NotebookPath = r.Result.NotebookPath
			summary.BinderURL = r.Result.BinderURL
			summary.Sections = r.Result.Sections
			summary.Images = r.Result.Images
			summary.Outputs = r.Result.Outputs
			summary.Meta = r.Result.Meta
		}
		if r.WordCounts != nil {
			intermediate = append(intermediate, r.WordCounts)
		}
		m.Results = append(m.Results, summary)
	}

	if len(intermediate) > 0 {
		m.AggregateKeywords = mapreduce.TopKeywords(mapreduce.Reduce(intermediate), aggregateKeywordCount)
	}

	return m
}

// Write saves the manifest as YAML.
func Write(path string, m RunManifest, s *storage.Storage) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}
