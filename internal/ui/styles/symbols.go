package styles

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the glyph set based on nerdfont configuration
type Symbols struct {
	Expanded  string
	Collapsed string
	Leaf      string

	GuideBranch string // "├── "
	GuideLast   string // "└── "
	GuideVert   string // "│   "
	GuideSpace  string // "    "

	Dir     string
	File    string
	Symlink string
	Object  string
	Array   string
	Value   string

	Cursor string
}

// Default symbols (plain unicode)
var defaultSymbols = Symbols{
	Expanded:    "▾",
	Collapsed:   "▸",
	Leaf:        " ",
	GuideBranch: "├── ",
	GuideLast:   "└── ",
	GuideVert:   "│   ",
	GuideSpace:  "    ",
	Dir:         "",
	File:        "",
	Symlink:     "",
	Object:      "",
	Array:       "",
	Value:       "",
	Cursor:      "›",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Expanded:    "\uf47c", // nf-oct-chevron_down
	Collapsed:   "\uf460", // nf-oct-chevron_right
	Leaf:        " ",
	GuideBranch: "├── ",
	GuideLast:   "└── ",
	GuideVert:   "│   ",
	GuideSpace:  "    ",
	Dir:         "\uf413", // nf-oct-file_directory
	File:        "\uf4a5", // nf-oct-file
	Symlink:     "\uf481", // nf-oct-file_symlink_file
	Object:      "\ueb0f", // nf-cod-json
	Array:       "\uea8a", // nf-cod-symbol_array
	Value:       "\uea93", // nf-cod-symbol_key
	Cursor:      "\uf44a", // nf-oct-triangle_right
}

var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// Expander returns the marker in front of a row: the expanded or collapsed
// glyph for expandable rows, blank for leaves.
func Expander(expandable, expanded bool) string {
	switch {
	case !expandable:
		return currentSymbols.Leaf
	case expanded:
		return currentSymbols.Expanded
	default:
		return currentSymbols.Collapsed
	}
}

// KindIcon returns the icon for a node kind name ("dir", "file", ...).
// Without nerd fonts there are no icons.
func KindIcon(kind string) string {
	switch kind {
	case "dir":
		return currentSymbols.Dir
	case "file":
		return currentSymbols.File
	case "symlink":
		return currentSymbols.Symlink
	case "object":
		return currentSymbols.Object
	case "array":
		return currentSymbols.Array
	case "value":
		return currentSymbols.Value
	}
	return ""
}

// Hyperlink renders text with style as an OSC 8 link to a local file.
// Returns the styled text alone if path is empty.
func Hyperlink(text, path string, style lipgloss.Style) string {
	if path == "" {
		return style.Render(text)
	}
	return ansi.SetHyperlink("file://"+path) + style.Render(text) + ansi.ResetHyperlink()
}
