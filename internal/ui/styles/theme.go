package styles

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/raphi011/ftree/internal/config"
)

// Theme assigns a colour to each role in a rendered tree.
type Theme struct {
	Dir    color.Color // expandable nodes, titles
	File   color.Color // leaves
	Value  color.Color // document scalars
	Guide  color.Color // guide lines, expanders, hints
	Cursor color.Color // focused row
	Match  color.Color // fuzzy match highlight
	Status color.Color // "copied" and similar confirmations
	Error  color.Color
}

// themeFamily groups light and dark variants of a theme
type themeFamily struct {
	Light *Theme // nil if no light variant
	Dark  *Theme // nil if no dark variant
}

// uniform returns a theme with c in every role.
func uniform(c color.Color) Theme {
	return Theme{Dir: c, File: c, Value: c, Guide: c, Cursor: c, Match: c, Status: c, Error: c}
}

var (
	// DefaultTheme uses the 256-colour palette (dark only)
	DefaultTheme = Theme{
		Dir:    lipgloss.Color("62"),
		File:   lipgloss.Color("252"),
		Value:  lipgloss.Color("244"),
		Guide:  lipgloss.Color("240"),
		Cursor: lipgloss.Color("212"),
		Match:  lipgloss.Color("212"),
		Status: lipgloss.Color("82"),
		Error:  lipgloss.Color("196"),
	}

	// NoneTheme keeps terminal colours; bold and underline still apply
	NoneTheme = uniform(lipgloss.NoColor{})

	nordDark = Theme{
		Dir:    lipgloss.Color("#88c0d0"), // frost
		File:   lipgloss.Color("#eceff4"), // snow storm
		Value:  lipgloss.Color("#a3be8c"), // green, like nord string literals
		Guide:  lipgloss.Color("#4c566a"), // polar night
		Cursor: lipgloss.Color("#b48ead"),
		Match:  lipgloss.Color("#ebcb8b"),
		Status: lipgloss.Color("#a3be8c"),
		Error:  lipgloss.Color("#bf616a"),
	}
	nordLight = Theme{
		Dir:    lipgloss.Color("#5e81ac"),
		File:   lipgloss.Color("#2e3440"),
		Value:  lipgloss.Color("#4f6f3a"),
		Guide:  lipgloss.Color("#9a9a9a"),
		Cursor: lipgloss.Color("#b48ead"),
		Match:  lipgloss.Color("#d08770"),
		Status: lipgloss.Color("#4f6f3a"),
		Error:  lipgloss.Color("#bf616a"),
	}

	gruvboxDark = Theme{
		Dir:    lipgloss.Color("#83a598"),
		File:   lipgloss.Color("#ebdbb2"),
		Value:  lipgloss.Color("#b8bb26"),
		Guide:  lipgloss.Color("#665c54"),
		Cursor: lipgloss.Color("#d3869b"),
		Match:  lipgloss.Color("#fabd2f"),
		Status: lipgloss.Color("#8ec07c"),
		Error:  lipgloss.Color("#fb4934"),
	}
	gruvboxLight = Theme{
		Dir:    lipgloss.Color("#076678"),
		File:   lipgloss.Color("#3c3836"),
		Value:  lipgloss.Color("#79740e"),
		Guide:  lipgloss.Color("#928374"),
		Cursor: lipgloss.Color("#8f3f71"),
		Match:  lipgloss.Color("#b57614"),
		Status: lipgloss.Color("#427b58"),
		Error:  lipgloss.Color("#9d0006"),
	}
)

// themeFamilies maps the names accepted by [theme] name.
var themeFamilies = map[string]themeFamily{
	"none":    {Light: &NoneTheme, Dark: &NoneTheme},
	"default": {Dark: &DefaultTheme},
	"nord":    {Light: &nordLight, Dark: &nordDark},
	"gruvbox": {Light: &gruvboxLight, Dark: &gruvboxDark},
}

// hasDarkBackground asks the terminal for its background colour.
var hasDarkBackground = func() bool {
	return lipgloss.HasDarkBackground(os.Stdin, os.Stderr)
}

var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init selects the theme from config, applies per-role overrides and
// rebuilds the shared styles. Call it before rendering anything.
func Init(cfg config.ThemeConfig) {
	theme := selectTheme(cfg)

	override := func(dst *color.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	override(&theme.Dir, cfg.Dir)
	override(&theme.File, cfg.File)
	override(&theme.Value, cfg.Value)
	override(&theme.Guide, cfg.Guide)
	override(&theme.Cursor, cfg.Cursor)
	override(&theme.Match, cfg.Match)
	override(&theme.Status, cfg.Status)
	override(&theme.Error, cfg.Error)

	currentTheme = theme
	applyTheme(theme)
	SetNerdfont(cfg.Nerdfont)
}

// selectTheme picks a family variant by mode, asking the terminal in auto
// mode. A family without the requested variant uses the one it has.
func selectTheme(cfg config.ThemeConfig) Theme {
	family, ok := themeFamilies[cfg.Name]
	if !ok {
		if cfg.Name != "" {
			fmt.Fprintf(os.Stderr, "Warning: unknown theme %q, using default (available: %s)\n",
				cfg.Name, strings.Join(config.ValidThemeNames, ", "))
		}
		family = themeFamilies["default"]
	}

	var theme *Theme
	switch cfg.Mode {
	case "light":
		theme = family.Light
	case "dark":
		theme = family.Dark
	default:
		if cfg.Mode != "" && cfg.Mode != "auto" {
			fmt.Fprintf(os.Stderr, "Warning: unknown theme mode %q, using auto (available: %s)\n",
				cfg.Mode, strings.Join(config.ValidThemeModes, ", "))
		}
		if hasDarkBackground() {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}

	if theme == nil {
		if family.Dark != nil {
			return *family.Dark
		}
		return *family.Light
	}
	return *theme
}

func applyTheme(t Theme) {
	Dir, File, Value, Guide = t.Dir, t.File, t.Value, t.Guide
	Cursor, Match, Status, Error = t.Cursor, t.Match, t.Status, t.Error

	TitleStyle = lipgloss.NewStyle().Foreground(t.Dir)
	DirStyle = lipgloss.NewStyle().Foreground(t.Dir).Bold(true)
	FileStyle = lipgloss.NewStyle().Foreground(t.File)
	ValueStyle = lipgloss.NewStyle().Foreground(t.Value).Italic(true)
	GuideStyle = lipgloss.NewStyle().Foreground(t.Guide)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Guide)
	CursorStyle = lipgloss.NewStyle().Foreground(t.Cursor).Bold(true)
	MatchStyle = lipgloss.NewStyle().
		Foreground(t.Match).
		Bold(true).
		Underline(true)
	StatusStyle = lipgloss.NewStyle().Foreground(t.Status)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
}
