package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrShallowPath is returned when an HTML file with images sits fewer than
// two directories deep, so no image directory can be derived from it.
var ErrShallowPath = errors.New("path too shallow to derive image directory")

// rewriteImages points every <img> at the shared static image tree:
// alt keeps only its file name and src becomes <prefix>/<dir>/<file name>.
// Missing attributes are left alone. It returns the number of images.
func rewriteImages(doc *goquery.Document, htmlPath, prefix string) (int, error) {
	images := doc.Find("img")
	if images.Length() == 0 {
		return 0, nil
	}

	dir, err := imageDir(htmlPath)
	if err != nil {
		return 0, err
	}
	base := strings.TrimSuffix(prefix, "/") + "/" + dir + "/"

	images.Each(func(_ int, img *goquery.Selection) {
		if alt, ok := img.Attr("alt"); ok {
			img.SetAttr("alt", fileName(alt))
		}
		if src, ok := img.Attr("src"); ok {
			img.SetAttr("src", base+fileName(src))
		}
	})

	return images.Length(), nil
}

// imageDir returns the last two components of htmlPath's directory, i.e. the
// parent directory relative to the directory three levels above the file.
// Example: build/html/posts/2020/x.html -> posts/2020
func imageDir(htmlPath string) (string, error) {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(filepath.Dir(htmlPath)), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %s", ErrShallowPath, htmlPath)
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}

// fileName returns the final slash-separated component of p, ignoring
// trailing slashes and "." components. "", "." and "/" have no file name.
func fileName(p string) string {
	parts := strings.Split(p, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && parts[i] != "." {
			return parts[i]
		}
	}
	return ""
}
