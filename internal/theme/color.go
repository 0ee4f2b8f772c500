// Package theme resolves raw configuration colors into the palette a
// terminal session renders with.
package theme

import (
	"fmt"
	"strconv"
)

// Color is a normalized 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Hex renders the color as a lowercase #rrggbb token, the form the
// rendering layers consume. Alpha is omitted when fully opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses a hex color token. Accepted forms:
//
//	#rgb          4-bit per channel
//	#rrggbb       8-bit per channel
//	#rrggbbaa     8-bit per channel with alpha
//	#rrrrggggbbbb legacy doubled form, 16-bit per channel
//
// The legacy doubled form keeps the high byte of each channel.
func ParseColor(token string) (Color, error) {
	if len(token) == 0 || token[0] != '#' {
		return Color{}, fmt.Errorf("color %q: missing # prefix", token)
	}

	digits := token[1:]
	for _, r := range digits {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("color %q: invalid hex digit %q", token, r)
		}
	}

	switch len(digits) {
	case 3:
		r := nibble(digits[0])
		g := nibble(digits[1])
		b := nibble(digits[2])
		return Color{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}, nil
	case 6:
		return Color{R: byteAt(digits, 0), G: byteAt(digits, 2), B: byteAt(digits, 4), A: 0xff}, nil
	case 8:
		return Color{R: byteAt(digits, 0), G: byteAt(digits, 2), B: byteAt(digits, 4), A: byteAt(digits, 6)}, nil
	case 12:
		return Color{R: byteAt(digits, 0), G: byteAt(digits, 4), B: byteAt(digits, 8), A: 0xff}, nil
	default:
		return Color{}, fmt.Errorf("color %q: unsupported length %d", token, len(digits))
	}
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}

func nibble(b byte) uint8 {
	v, _ := strconv.ParseUint(string(b), 16, 8)
	return uint8(v)
}

func byteAt(digits string, i int) uint8 {
	v, _ := strconv.ParseUint(digits[i:i+2], 16, 8)
	return uint8(v)
}
