package extractor

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/nbextract/models"
)

// saveSections writes every <section> in the document, nested ones included,
// to its own numbered file in document order.
func (e *Extractor) saveSections(doc *goquery.Document, htmlPath string, result *models.ExtractResult) error {
	var saveErr error

	doc.Find("section").EachWithBreak(func(i int, section *goquery.Selection) bool {
		markup, err := goquery.OuterHtml(section)
		if err != nil {
			saveErr = fmt.Errorf("%s: error rendering section %d: %w", htmlPath, i+1, err)
			return false
		}
		if err := e.save(result, models.OutputSection, e.names.SectionPath(htmlPath, i+1), markup); err != nil {
			saveErr = err
			return false
		}
		result.Sections++
		return true
	})

	return saveErr
}
