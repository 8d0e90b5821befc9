package models

// OutputKind identifies the role of a file written for one input document.
type OutputKind string

const (
	OutputArticle    OutputKind = "article"
	OutputStylesheet OutputKind = "stylesheet"
	OutputSection    OutputKind = "section"
	OutputLink       OutputKind = "link"
)

// Output is a single file written during extraction.
type Output struct {
	Kind        OutputKind `json:"kind" yaml:"kind"`
	Path        string     `json:"path" yaml:"path"`
	SizeBytes   int64      `json:"size_bytes" yaml:"size_bytes"`
	ContentHash string     `json:"content_hash" yaml:"-"`
}

// ArticleMeta describes the extracted article text.
type ArticleMeta struct {
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Byline      string   `json:"byline,omitempty" yaml:"byline,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	WordCount   int      `json:"word_count" yaml:"word_count"`
	TopKeywords []string `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

// ExtractResult records what extraction did for one HTML file.
type ExtractResult struct {
	HTMLPath     string   `json:"html_path" yaml:"html_path"`
	NotebookPath string   `json:"notebook_path" yaml:"notebook_path"`
	BinderURL    string   `json:"binder_url" yaml:"binder_url"`
	Outputs      []Output `json:"outputs" yaml:"outputs"`
	Sections     int      `json:"sections" yaml:"sections"`
	Images       int      `json:"images" yaml:"images"`

	// Article is the serialized article markup; it is not persisted.
	Article string       `json:"-" yaml:"-"`
	Meta    *ArticleMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Output returns the first output of the given kind.
func (r *ExtractResult) Output(kind OutputKind) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Kind == kind {
			return o, true
		}
	}
	return Output{}, false
}

// OutputsOf returns every output of the given kind in the order written.
func (r *ExtractResult) OutputsOf(kind OutputKind) []Output {
	var outs []Output
	for _, o := range r.Outputs {
		if o.Kind == kind {
			outs = append(outs, o)
		}
	}
	return outs
}
