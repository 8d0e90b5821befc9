// Package discover finds generated HTML files that belong to a notebook.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindHTMLFiles walks root and returns every HTML file that has a same-stem
// notebook sibling, e.g. posts/x.html for posts/x.ipynb. Paths are joined
// with root and follow the walk order.
func FindHTMLFiles(root, notebookExt, htmlExt string) ([]string, error) {
	var htmlFiles []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != notebookExt {
			return nil
		}

		htmlPath := WithSuffix(path, htmlExt)
		if isFile(htmlPath) {
			htmlFiles = append(htmlFiles, htmlPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return htmlFiles, nil
}

// WithSuffix replaces the final extension of path with suffix.
func WithSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
