// Package binder builds the badge snippet that links a post back to its
// notebook on a Binder deployment.
package binder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/nbextract/models"
)

// ErrOutsideBase is returned when an HTML file does not live under the base directory.
var ErrOutsideBase = errors.New("file is outside the base directory")

// NotebookPath returns htmlPath relative to baseDir with its suffix swapped
// for notebookExt, using forward slashes.
func NotebookPath(htmlPath, baseDir, notebookExt string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(htmlPath))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideBase, htmlPath, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s not under %s", ErrOutsideBase, htmlPath, baseDir)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + notebookExt
	return filepath.ToSlash(rel), nil
}

// Quote percent-encodes every byte of s except ASCII letters, digits and
// "_.-~", the same output Python's urllib.parse.quote(s, safe="") gives.
func Quote(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~':
		return true
	}
	return false
}

// BadgeURL is the badge image shown in the snippet.
func BadgeURL(cfg models.BinderConfig) string {
	return strings.TrimSuffix(cfg.URL, "/") + "/badge_logo.svg"
}

// TargetURL opens notebookPath in the Binder file browser.
func TargetURL(cfg models.BinderConfig, notebookPath string) string {
	return fmt.Sprintf("%s/v2/gh/%s/%s?urlpath=/tree/%s",
		strings.TrimSuffix(cfg.URL, "/"), cfg.Repository, cfg.Branch, Quote(notebookPath))
}

// Snippet renders the two-line reStructuredText image directive.
func Snippet(cfg models.BinderConfig, notebookPath string) string {
	return fmt.Sprintf(".. image:: %s\n   :target: %s", BadgeURL(cfg), TargetURL(cfg, notebookPath))
}
