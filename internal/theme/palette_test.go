package theme

import (
	"testing"

	"github.com/plhk/pterm/internal/config"
)

func TestResolveDefaultsIsIdempotent(t *testing.T) {
	first := Resolve(config.Defaults())
	second := Resolve(config.Defaults())

	if first != second {
		t.Fatalf("resolving defaults twice differed:\n%+v\n%+v", first, second)
	}
	if first != Default() {
		t.Fatalf("resolved defaults differ from built-in palette")
	}
}

func TestResolveFallsBackPerSlot(t *testing.T) {
	cfg := config.Defaults()
	cfg.Colors.Palette[5] = "not-a-color"
	cfg.Colors.Palette[9] = ""

	p := Resolve(cfg)

	if p.ANSI[5] != Default().ANSI[5] {
		t.Fatalf("slot 5 should fall back to the default slot color")
	}
	if p.ANSI[9] != Default().ANSI[9] {
		t.Fatalf("slot 9 should fall back to the default slot color")
	}
	// Neighboring slots keep their configured values.
	if p.ANSI[4] != Default().ANSI[4] || p.ANSI[6] != Default().ANSI[6] {
		t.Fatalf("valid slots should be untouched")
	}
}

func TestResolveFixesPaletteLength(t *testing.T) {
	short := config.Defaults()
	short.Colors.Palette = []string{"#000000", "#111111", "#222222"}

	p := Resolve(short)
	if p.ANSI[0] != (Color{0, 0, 0, 0xff}) {
		t.Fatalf("slot 0 should keep the configured color")
	}
	for i := 3; i < config.PaletteSize; i++ {
		if p.ANSI[i] != Default().ANSI[i] {
			t.Fatalf("slot %d should be padded from the default palette", i)
		}
	}

	long := config.Defaults()
	for i := 0; i < 10; i++ {
		long.Colors.Palette = append(long.Colors.Palette, "#123456")
	}
	if got := Resolve(long); got != Resolve(config.Defaults()) {
		t.Fatalf("extra palette entries should be ignored")
	}
}

func TestResolveBadForegroundKeepsBackground(t *testing.T) {
	cfg := config.Defaults()
	cfg.Colors.Foreground = "##"
	cfg.Colors.Background = "#101010"

	p := Resolve(cfg)
	if p.Foreground != Default().Foreground {
		t.Fatalf("foreground should fall back")
	}
	if p.Background != (Color{0x10, 0x10, 0x10, 0xff}) {
		t.Fatalf("background should keep its configured value")
	}
}

func TestResolveFont(t *testing.T) {
	cfg := config.Defaults()
	cfg.FontFamily = "Iosevka"
	cfg.FontSize = 14

	font := ResolveFont(cfg)
	if font.Family != "Iosevka" || font.Size != 14 {
		t.Fatalf("unexpected font: %+v", font)
	}

	cfg.FontFamily = ""
	cfg.FontSize = -2
	font = ResolveFont(cfg)
	if font != DefaultFont() {
		t.Fatalf("invalid font fields should fall back: %+v", font)
	}
}
