package models

// Naming selects how a companion output file is named.
type Naming string

const (
	// NamingDerived swaps the HTML file's suffix, e.g. my-post.html -> my-post.css.
	NamingDerived Naming = "derived"
	// NamingFixed uses the same configured name for every file in a directory.
	NamingFixed Naming = "fixed"
)

func (n Naming) Valid() bool {
	return n == NamingDerived || n == NamingFixed
}

// Preset names a known pipeline configuration.
type Preset string

const (
	// PresetBlog splits sections, rewrites image paths and derives output names.
	PresetBlog Preset = "blog"
	// PresetNbsphinx extracts nbsphinx pages with fixed output names.
	PresetNbsphinx Preset = "nbsphinx"
)

func (p Preset) Valid() bool {
	return p == PresetBlog || p == PresetNbsphinx
}
