package theme

import (
	"github.com/plhk/pterm/internal/config"
)

// Font is the resolved font request passed to display surfaces.
type Font struct {
	Family string
	Size   int
}

// Palette is the resolved color set for one terminal: the 16 ANSI slots
// plus foreground and background. It is a plain value; once resolved it
// is shared read-only by every session.
type Palette struct {
	Foreground Color
	Background Color
	ANSI       [config.PaletteSize]Color
}

// fallback holds the built-in palette. The default config strings all
// parse, so this never degrades further.
var fallback = resolveStrict(config.Defaults())

// Default returns the built-in palette.
func Default() Palette {
	return fallback
}

// DefaultFont returns the built-in font request.
func DefaultFont() Font {
	defaults := config.Defaults()
	return Font{Family: defaults.FontFamily, Size: defaults.FontSize}
}

// Resolve converts configuration color strings into a Palette. Every
// slot that fails to parse takes the built-in color for that slot;
// Resolve is pure and never fails.
func Resolve(cfg config.Config) Palette {
	p := Palette{
		Foreground: parseOr(cfg.Colors.Foreground, fallback.Foreground),
		Background: parseOr(cfg.Colors.Background, fallback.Background),
	}
	for i := range p.ANSI {
		if i < len(cfg.Colors.Palette) {
			p.ANSI[i] = parseOr(cfg.Colors.Palette[i], fallback.ANSI[i])
		} else {
			p.ANSI[i] = fallback.ANSI[i]
		}
	}
	return p
}

// ResolveFont extracts the font request from a configuration.
func ResolveFont(cfg config.Config) Font {
	font := Font{Family: cfg.FontFamily, Size: cfg.FontSize}
	defaults := config.Defaults()
	if font.Family == "" {
		font.Family = defaults.FontFamily
	}
	if font.Size <= 0 {
		font.Size = defaults.FontSize
	}
	return font
}

func parseOr(token string, def Color) Color {
	c, err := ParseColor(token)
	if err != nil {
		return def
	}
	return c
}

// resolveStrict builds the fallback palette from the default config.
// Used only at init; a malformed default is a programming error.
func resolveStrict(cfg config.Config) Palette {
	var p Palette
	var err error
	if p.Foreground, err = ParseColor(cfg.Colors.Foreground); err != nil {
		panic(err)
	}
	if p.Background, err = ParseColor(cfg.Colors.Background); err != nil {
		panic(err)
	}
	for i := range p.ANSI {
		if p.ANSI[i], err = ParseColor(cfg.Colors.Palette[i]); err != nil {
			panic(err)
		}
	}
	return p
}
