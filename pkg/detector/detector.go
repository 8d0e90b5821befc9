// Package detector derives descriptive metadata for an extracted article:
// title, byline, excerpt, word count and keywords.
package detector

import (
	"bytes"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/analytics"
	"github.com/dtnitsch/nbextract/pkg/mapreduce"
	"github.com/dtnitsch/nbextract/pkg/parser"
)

const (
	maxExcerptRunes = 200
	topKeywordCount = 10
)

// Detector runs readability over the source page and word statistics over
// the extracted article.
type Detector struct {
	analytics *analytics.Analytics
}

func New() *Detector {
	return &Detector{analytics: &analytics.Analytics{}}
}

// Describe builds ArticleMeta from the source page and the article markup.
// Readability failures are not fatal: the title and excerpt then fall back
// to the article's first heading and paragraph.
func (d *Detector) Describe(source []byte, htmlPath, article string) (*models.ArticleMeta, map[string]int, error) {
	articleDoc, err := goquery.NewDocumentFromReader(strings.NewReader(article))
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing article: %w", err)
	}
	text := parser.NormalizeText(parser.SpacedText(articleDoc.Selection))
	counts := mapreduce.Map(text, d.analytics)

	meta := &models.ArticleMeta{
		WordCount:   d.analytics.WordCount(text),
		TopKeywords: d.analytics.TopNWords(text, topKeywordCount),
	}

	var readErr error
	readabilityParser := readability.NewParser()
	ra, err := readabilityParser.Parse(bytes.NewReader(source), fileURL(htmlPath))
	if err != nil {
		readErr = fmt.Errorf("readability failed for %s: %w", htmlPath, err)
	} else {
		meta.Title = parser.NormalizeText(ra.Title)
		meta.Byline = parser.NormalizeText(ra.Byline)
		meta.Excerpt = truncate(parser.NormalizeText(ra.Excerpt), maxExcerptRunes)
	}

	if meta.Title == "" {
		meta.Title = parser.NormalizeText(articleDoc.Find("h1,h2").First().Text())
	}
	if meta.Excerpt == "" {
		meta.Excerpt = truncate(parser.NormalizeText(articleDoc.Find("p").First().Text()), maxExcerptRunes)
	}

	return meta, counts, readErr
}

func fileURL(path string) *url.URL {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
