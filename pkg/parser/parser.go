package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrContentMissing is returned when a document has no element matching the
// content selector.
var ErrContentMissing = errors.New("required element missing")

type Parser struct{}

// ParseFile reads and parses an HTML file. Parsing follows the HTML5
// algorithm, so malformed markup is repaired rather than rejected.
func (p *Parser) ParseFile(path string) (*goquery.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading html: %w", err)
	}
	return p.Parse(bytes.NewReader(data))
}

// Parse parses an HTML document from r.
func (p *Parser) Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing html: %w", err)
	}
	return doc, nil
}

// CompileSelector compiles a CSS selector, reporting syntax errors up front
// instead of silently matching nothing.
func CompileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// FindContent returns the first element matching sel.
func FindContent(doc *goquery.Document, sel cascadia.Selector) (*goquery.Selection, error) {
	content := doc.FindMatcher(sel).First()
	if content.Length() == 0 {
		return nil, ErrContentMissing
	}
	return content, nil
}

// FindStyle returns the first <style> element directly under content.
func FindStyle(content *goquery.Selection) (*goquery.Selection, bool) {
	style := content.ChildrenFiltered("style").First()
	return style, style.Length() > 0
}

// IsStyle reports whether n is a <style> element.
func IsStyle(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Style
}

// ChildMarkup serializes the element and comment children of content in
// document order. Text following a child is kept with that child's fragment.
// <style> children are skipped together with the text that follows them,
// and text before the first child is dropped.
func ChildMarkup(content *goquery.Selection) ([]string, error) {
	if content.Length() == 0 {
		return nil, nil
	}

	var fragments []string
	var current *bytes.Buffer

	flush := func() {
		if current != nil {
			fragments = append(fragments, current.String())
			current = nil
		}
	}

	i := 0
	for c := content.Get(0).FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.CommentNode:
			flush()
			i++
			if IsStyle(c) {
				continue
			}
			current = &bytes.Buffer{}
			if err := html.Render(current, c); err != nil {
				return nil, fmt.Errorf("error rendering child %d: %w", i, err)
			}
		case html.TextNode:
			// nil before the first child and after a <style>
			if current == nil {
				continue
			}
			if err := html.Render(current, c); err != nil {
				return nil, fmt.Errorf("error rendering text after child %d: %w", i, err)
			}
		}
	}
	flush()

	return fragments, nil
}

// StyleText returns the raw text held by a <style> element.
func StyleText(style *goquery.Selection) string {
	var b strings.Builder
	for _, n := range style.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// SpacedText returns the text under s with text nodes separated by spaces,
// so adjacent blocks like <h2>a</h2><p>b</p> do not run together.
// Script and style contents are skipped.
func SpacedText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
			return
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// NormalizeText cleans up a string by trimming space and removing excess newlines.
func NormalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}
