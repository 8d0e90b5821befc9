package artifact_manager

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/nbextract/models"
)

const (
	ArticlePrefix = "article-"
	SectionPrefix = "section-"
	StylesheetExt = ".css"
	LinkExt       = ".rst"
)

// Manager names the files written next to each processed HTML file.
// Every name is a pure function of the HTML path, so reruns overwrite.
type Manager struct {
	stylesheet models.OutputName
	link       models.OutputName
}

// NewManager creates a Manager for the configured naming modes.
func NewManager(stylesheet, link models.OutputName) (*Manager, error) {
	for _, o := range []models.OutputName{stylesheet, link} {
		if !o.Naming.Valid() {
			return nil, fmt.Errorf("unknown naming mode: %q", o.Naming)
		}
		if o.Naming == models.NamingFixed && o.Name == "" {
			return nil, fmt.Errorf("fixed naming requires a file name")
		}
	}
	return &Manager{stylesheet: stylesheet, link: link}, nil
}

// ArticlePath returns D/article-F for D/F.
// Example: posts/2020/my-post.html -> posts/2020/article-my-post.html
func (m *Manager) ArticlePath(htmlPath string) string {
	dir, name := filepath.Split(htmlPath)
	return filepath.Join(dir, ArticlePrefix+name)
}

// SectionPath returns D/section-<index>-F; index starts at 1.
func (m *Manager) SectionPath(htmlPath string, index int) string {
	dir, name := filepath.Split(htmlPath)
	return filepath.Join(dir, fmt.Sprintf("%s%d-%s", SectionPrefix, index, name))
}

// StylesheetPath returns D/S.css or D/<fixed name>.
func (m *Manager) StylesheetPath(htmlPath string) string {
	return m.companionPath(htmlPath, m.stylesheet, StylesheetExt)
}

// LinkPath returns D/S.rst or D/<fixed name>.
func (m *Manager) LinkPath(htmlPath string) string {
	return m.companionPath(htmlPath, m.link, LinkExt)
}

func (m *Manager) companionPath(htmlPath string, o models.OutputName, ext string) string {
	if o.Naming == models.NamingFixed {
		return filepath.Join(filepath.Dir(htmlPath), o.Name)
	}
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ext
}
