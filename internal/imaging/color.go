package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
)

// DefaultAccentColor is the label and histogram colour used when none is
// given (a mid blue).
const DefaultAccentColor = "#1d4ed8"

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// AverageColor returns the mean colour of a cell from its per-channel
// averages. Empty statistics yield black.
func AverageColor(stats cellstats.CellStats) ColorResult {
	c := colorful.Color{
		R: stats.AvgR / 255,
		G: stats.AvgG / 255,
		B: stats.AvgB / 255,
	}.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()

	return ColorResult{
		Hex: c.Hex(),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// parseHexColor parses a hex color string like "#1d4ed8" or "#1d4ed880".
// The leading '#' is optional.
func parseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}

	alpha := uint8(255)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// colorOrDefault parses hex, falling back to fallback when hex is empty or
// malformed.
func colorOrDefault(hex string, fallback color.NRGBA) color.NRGBA {
	c, err := parseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// withOpacity scales the alpha of c by opacity (0-1).
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * math.Max(0, math.Min(1, opacity))))
	return c
}
