// Package extractor turns a notebook's exported HTML page into the article,
// section, stylesheet and link files the blog build consumes.
package extractor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/dtnitsch/nbextract/internal/common"
	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/artifact_manager"
	"github.com/dtnitsch/nbextract/pkg/binder"
	"github.com/dtnitsch/nbextract/pkg/parser"
	"github.com/dtnitsch/nbextract/pkg/storage"
)

type Extractor struct {
	cfg     *models.Config
	content cascadia.Selector
	baseDir string

	parser  *parser.Parser
	storage *storage.Storage
	names   *artifact_manager.Manager
	logger  *slog.Logger
}

// New builds an Extractor for cfg. The base directory is resolved against
// cfg.Root unless it is absolute.
func New(cfg *models.Config, logger *slog.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	content, err := parser.CompileSelector(cfg.ContentSelector)
	if err != nil {
		return nil, err
	}
	names, err := artifact_manager.NewManager(cfg.Stylesheet, cfg.Link)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		cfg:     cfg,
		content: content,
		baseDir: cfg.Resolve(cfg.BaseDir),
		parser:  &parser.Parser{},
		storage: &storage.Storage{},
		names:   names,
		logger:  logger,
	}, nil
}

// Extract processes one HTML file. Nothing is written when the content
// container is missing or the notebook path cannot be derived.
func (e *Extractor) Extract(htmlPath string) (*models.ExtractResult, error) {
	doc, err := e.parser.ParseFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", htmlPath, err)
	}

	content, err := parser.FindContent(doc, e.content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: no element matches %q", htmlPath, err, e.cfg.ContentSelector)
	}
	style, hasStyle := parser.FindStyle(content)

	notebookPath, err := binder.NotebookPath(htmlPath, e.baseDir, e.cfg.NotebookExt)
	if err != nil {
		return nil, err
	}

	result := &models.ExtractResult{
		HTMLPath:     htmlPath,
		NotebookPath: notebookPath,
		BinderURL:    binder.TargetURL(e.cfg.Binder, notebookPath),
	}

	// Images go first so that sections and the article carry the new paths.
	if e.cfg.RewriteImagePaths {
		n, err := rewriteImages(doc, htmlPath, e.cfg.ImagePrefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", htmlPath, err)
		}
		result.Images = n
	}

	if e.cfg.SplitSections {
		if err := e.saveSections(doc, htmlPath, result); err != nil {
			return nil, err
		}
	}

	fragments, err := parser.ChildMarkup(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", htmlPath, err)
	}
	result.Article = strings.Join(fragments, "\n")
	if err := e.save(result, models.OutputArticle, e.names.ArticlePath(htmlPath), result.Article); err != nil {
		return nil, err
	}

	if hasStyle {
		if err := e.save(result, models.OutputStylesheet, e.names.StylesheetPath(htmlPath), parser.StyleText(style)); err != nil {
			return nil, err
		}
	}

	snippet := binder.Snippet(e.cfg.Binder, notebookPath)
	if err := e.save(result, models.OutputLink, e.names.LinkPath(htmlPath), snippet); err != nil {
		return nil, err
	}

	e.logger.Debug("extracted article",
		"path", htmlPath,
		"fragments", len(fragments),
		"sections", result.Sections,
		"images", result.Images,
		"stylesheet", hasStyle)

	return result, nil
}

func (e *Extractor) save(result *models.ExtractResult, kind models.OutputKind, path, content string) error {
	data := []byte(content)
	if err := e.storage.SaveFile(path, data); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, path, err)
	}
	result.Outputs = append(result.Outputs, models.Output{
		Kind:        kind,
		Path:        path,
		SizeBytes:   int64(len(data)),
		ContentHash: common.ContentHash(data),
	})
	return nil
}
