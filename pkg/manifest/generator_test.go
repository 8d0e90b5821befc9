package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

func sampleResults() []FileResult {
	return []FileResult{
		{
			HTMLPath: "build/html/posts/2020/a.html",
			Result: &models.ExtractResult{
				HTMLPath:     "build/html/posts/2020/a.html",
				NotebookPath: "2020/a.ipynb",
				BinderURL:    "https://mybinder.org/v2/gh/andersle/andersleno/main?urlpath=/tree/2020%2Fa.ipynb",
				Sections:     2,
				Outputs: []models.Output{
					{Kind: models.OutputArticle, Path: "build/html/posts/2020/article-a.html", SizeBytes: 10, ContentHash: "abc"},
				},
				Meta: &models.ArticleMeta{Title: "A", WordCount: 5},
			},
			WordCounts: map[string]int{"pandas": 2, "plot": 1},
		},
		{
			HTMLPath:   "build/html/posts/2020/b.html",
			Result:     &models.ExtractResult{HTMLPath: "build/html/posts/2020/b.html"},
			WordCounts: map[string]int{"pandas": 1},
		},
		{
			HTMLPath: "build/html/posts/2020/c.html",
			Error:    errors.New("required element missing"),
		},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := Build(RunInfo{RunID: 4, Root: "/site", Preset: "blog", TotalFiles: 3}, sampleResults(), now)

	assert.Equal(t, "2024-05-01T12:00:00Z", m.GeneratedAt)
	assert.Equal(t, int64(4), m.RunID)
	assert.Equal(t, 3, m.TotalFiles)
	assert.Equal(t, 2, m.Processed)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, []string{"pandas:3", "plot:1"}, m.AggregateKeywords)

	require.Len(t, m.Results, 3)
	assert.Equal(t, "success", m.Results[0].Status)
	assert.Equal(t, "2020/a.ipynb", m.Results[0].NotebookPath)
	assert.Equal(t, 2, m.Results[0].Sections)
	assert.Equal(t, "A", m.Results[0].Meta.Title)
	assert.Equal(t, "error", m.Results[2].Status)
	assert.Equal(t, "required element missing", m.Results[2].Error)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	m := Build(RunInfo{Root: "/site", Preset: "blog", TotalFiles: 3}, sampleResults(), time.Now())

	require.NoError(t, Write(path, m, &storage.Storage{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded["processed"])
	assert.NotContains(t, string(data), "content_hash", "hashes stay in the ledger")
	assert.Contains(t, string(data), "notebook_path: 2020/a.ipynb")
}
