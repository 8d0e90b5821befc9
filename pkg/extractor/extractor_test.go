package extractor

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/nbextract/models"
	"github.com/dtnitsch/nbextract/pkg/binder"
	"github.com/dtnitsch/nbextract/pkg/parser"
)

func newTestExtractor(t *testing.T, root string, preset models.Preset) *Extractor {
	t.Helper()
	cfg, err := models.DefaultConfig(preset)
	require.NoError(t, err)
	cfg.Root = root
	e, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return e
}

func writeHTML(t *testing.T, root, rel, markup string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(markup), 0600))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestExtract_EndToEnd(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/my-post.html",
		`<article><p>Hello</p><style>body{color:red}</style></article>`)
	dir := filepath.Dir(htmlPath)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.Equal(t, "<p>Hello</p>", readFile(t, filepath.Join(dir, "article-my-post.html")))
	assert.Equal(t, "body{color:red}", readFile(t, filepath.Join(dir, "my-post.css")))

	link := readFile(t, filepath.Join(dir, "my-post.rst"))
	lines := strings.Split(link, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, ".. image:: https://mybinder.org/badge_logo.svg", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "/tree/2020%2Fmy-post.ipynb"), lines[1])

	assert.Equal(t, "2020/my-post.ipynb", result.NotebookPath)
	assert.Equal(t, "https://mybinder.org/v2/gh/andersle/andersleno/main?urlpath=/tree/2020%2Fmy-post.ipynb", result.BinderURL)
	assert.Len(t, result.OutputsOf(models.OutputArticle), 1)
	assert.Len(t, result.OutputsOf(models.OutputStylesheet), 1)
	assert.Len(t, result.OutputsOf(models.OutputLink), 1)
	assert.Empty(t, result.OutputsOf(models.OutputSection))

	article, ok := result.Output(models.OutputArticle)
	require.True(t, ok)
	assert.Equal(t, int64(len("<p>Hello</p>")), article.SizeBytes)
	assert.Len(t, article.ContentHash, 64)
}

func TestExtract_NotebookPathRoundTrip(t *testing.T) {
	root := t.TempDir()
	rel := "build/html/posts/2021/notes & ideas/ø post.html"
	htmlPath := writeHTML(t, root, rel, `<article><p>x</p></article>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	_, err := e.Extract(htmlPath)
	require.NoError(t, err)

	link := readFile(t, filepath.Join(filepath.Dir(htmlPath), "ø post.rst"))
	idx := strings.Index(link, "urlpath=/tree/")
	require.NotEqual(t, -1, idx)
	encoded := link[idx+len("urlpath=/tree/"):]
	assert.NotContains(t, encoded, "/")

	decoded, err := url.PathUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, "2021/notes & ideas/ø post.ipynb", decoded)
}

func TestExtract_ArticleExcludesStyleInOrder(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/order.html", `<html><head><title>t</title></head><body>
<article>
  <h1>One</h1>
  <style>.a{}</style>
  <p>Two</p>
  <div>Three</div>
</article>
</body></html>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	// whitespace after each kept child stays with it; the style and its tail do not
	assert.Equal(t, "<h1>One</h1>\n  \n<p>Two</p>\n  \n<div>Three</div>\n", result.Article)
	assert.NotContains(t, result.Article, "<style")
	assert.Equal(t, result.Article, readFile(t, filepath.Join(filepath.Dir(htmlPath), "article-order.html")))
}

func TestExtract_ArticleKeepsLooseTextAndComments(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/loose.html",
		`<article><p>a</p>loose text<!-- note --><style>x{}</style></article>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.Equal(t, "<p>a</p>loose text\n<!-- note -->", result.Article)
	assert.Equal(t, result.Article, readFile(t, filepath.Join(filepath.Dir(htmlPath), "article-loose.html")))
	assert.Equal(t, "x{}", readFile(t, filepath.Join(filepath.Dir(htmlPath), "loose.css")))
}

func TestExtract_NoStyle(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/plain.html", `<article><p>No style</p></article>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(filepath.Dir(htmlPath), "plain.css"))
	assert.Empty(t, result.OutputsOf(models.OutputStylesheet))
	assert.FileExists(t, filepath.Join(filepath.Dir(htmlPath), "article-plain.html"))
	assert.FileExists(t, filepath.Join(filepath.Dir(htmlPath), "plain.rst"))
}

func TestExtract_Sections(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/secs.html", `<body>
<section id="s1"><h2>Intro</h2></section>
<article>
  <section id="s2"><h2>Body</h2><section id="s3"><p>Nested</p></section></section>
</article>
</body>`)
	dir := filepath.Dir(htmlPath)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Sections)
	sections := result.OutputsOf(models.OutputSection)
	require.Len(t, sections, 3)
	for i, want := range []string{"section-1-secs.html", "section-2-secs.html", "section-3-secs.html"} {
		assert.Equal(t, filepath.Join(dir, want), sections[i].Path)
	}

	assert.Equal(t, `<section id="s1"><h2>Intro</h2></section>`, readFile(t, filepath.Join(dir, "section-1-secs.html")))
	assert.Equal(t, `<section id="s2"><h2>Body</h2><section id="s3"><p>Nested</p></section></section>`,
		readFile(t, filepath.Join(dir, "section-2-secs.html")))
	assert.Equal(t, `<section id="s3"><p>Nested</p></section>`, readFile(t, filepath.Join(dir, "section-3-secs.html")))
}

func TestExtract_ZeroSections(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/nosec.html", `<article><p>x</p></article>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.Zero(t, result.Sections)
	for _, name := range dirNames(t, filepath.Dir(htmlPath)) {
		assert.False(t, strings.HasPrefix(name, "section-"), name)
	}
}

func TestExtract_RewritesImages(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/img.html", `<article>
<section><img alt="figures/plot.png" src="figures/plot.png"></section>
<p><img src="https://example.org/a/logo.svg"><img alt="bare.png"></p>
</article>`)
	dir := filepath.Dir(htmlPath)

	e := newTestExtractor(t, root, models.PresetBlog)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Images)

	wantSection := `<section><img alt="plot.png" src="../../../_static/images/posts/2020/plot.png"/></section>`
	assert.Equal(t, wantSection, readFile(t, filepath.Join(dir, "section-1-img.html")))

	article := readFile(t, filepath.Join(dir, "article-img.html"))
	assert.Contains(t, article, wantSection)
	assert.Contains(t, article, `<img src="../../../_static/images/posts/2020/logo.svg"/>`)
	assert.Contains(t, article, `<img alt="bare.png"/>`)

	// the source page is untouched, so a second run rewrites once again from scratch
	_, err = e.Extract(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, article, readFile(t, filepath.Join(dir, "article-img.html")))
	assert.NotContains(t, article, "_static/images/posts/2020/_static")
}

func TestExtract_MissingContent(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/2020/broken.html",
		`<html><body><div><p>no container</p><section>s</section><img src="x.png"></div></body></html>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	_, err := e.Extract(htmlPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrContentMissing)
	assert.Contains(t, err.Error(), htmlPath)

	assert.Equal(t, []string{"broken.html"}, dirNames(t, filepath.Dir(htmlPath)))
}

func TestExtract_OutsideBase(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/pages/about.html", `<article><p>x</p></article>`)

	e := newTestExtractor(t, root, models.PresetBlog)
	_, err := e.Extract(htmlPath)
	assert.ErrorIs(t, err, binder.ErrOutsideBase)
	assert.Equal(t, []string{"about.html"}, dirNames(t, filepath.Dir(htmlPath)))
}

func TestExtract_MissingFile(t *testing.T) {
	e := newTestExtractor(t, t.TempDir(), models.PresetBlog)
	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_NbsphinxPreset(t *testing.T) {
	root := t.TempDir()
	htmlPath := writeHTML(t, root, "build/html/posts/nb/index.html", `<html><body><main>
<div class="body"><style>.nbinput{}</style><section><p>Cell</p><img alt="a/b.png" src="a/b.png"></section></div>
<div class="footer">ignored</div>
</main></body></html>`)
	dir := filepath.Dir(htmlPath)

	e := newTestExtractor(t, root, models.PresetNbsphinx)
	result, err := e.Extract(htmlPath)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"index.html", "article-index.html", "style-nbsphinx.css", "link.rst"},
		dirNames(t, dir))
	assert.Equal(t, `<section><p>Cell</p><img alt="a/b.png" src="a/b.png"/></section>`, result.Article)
	assert.Equal(t, ".nbinput{}", readFile(t, filepath.Join(dir, "style-nbsphinx.css")))
	assert.Contains(t, readFile(t, filepath.Join(dir, "link.rst")), "urlpath=/tree/nb%2Findex.ipynb")
	assert.Zero(t, result.Images)
	assert.Zero(t, result.Sections)
}

func TestNew_InvalidSelector(t *testing.T) {
	cfg, err := models.DefaultConfig(models.PresetBlog)
	require.NoError(t, err)
	cfg.ContentSelector = "main >"
	_, err = New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
