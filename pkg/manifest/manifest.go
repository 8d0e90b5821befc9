package manifest

import "github.com/dtnitsch/nbextract/models"

// RunManifest is the YAML summary of one extract run. It gives the site
// build a single file to read for post titles, excerpts and Binder links.
type RunManifest struct {
	GeneratedAt       string        `yaml:"generated_at"`
	RunID             int64         `yaml:"run_id,omitempty"`
	Root              string        `yaml:"root"`
	Preset            string        `yaml:"preset"`
	TotalFiles        int           `yaml:"total_files"`
	Processed         int           `yaml:"processed"`
	Failed            int           `yaml:"failed"`
	AggregateKeywords []string      `yaml:"aggregate_keywords,omitempty"`
	Results           []FileSummary `yaml:"results"`
}

// FileSummary describes the outcome for a single HTML file.
type FileSummary struct {
	HTMLPath     string              `yaml:"html_path"`
	Status       string              `yaml:"status"` // "success" or "error"
	Error        string              `yaml:"error,omitempty"`
	NotebookPath string              `yaml:"notebook_path,omitempty"`
	BinderURL    string              `yaml:"binder_url,omitempty"`
	Sections     int                 `yaml:"sections,omitempty"`
	Images       int                 `yaml:"images,omitempty"`
	Outputs      []models.Output     `yaml:"outputs,omitempty"`
	Meta         *models.ArticleMeta `yaml:"meta,omitempty"`
}
