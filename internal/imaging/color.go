package imaging

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSBColor represents a color in HSB (Hue, Saturation, Brightness) space.
//
// All components are fractions:
//   - H: 0 <= H < 1, a full turn of the color wheel (0=red, 1/3=green, 2/3=blue)
//   - S: 0 (gray) to 1 (vivid)
//   - B: 0 (black) to 1 (full brightness)
type HSBColor struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	B float64 `json:"b"`
}

// ColorResult contains a sampled pixel in the representations the
// classifier cares about.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSB HSBColor `json:"hsb"` // HSB representation, hue in [0,1)
}

// RGBToHSB converts a single 8-bit RGB color to HSB.
//
// Gray pixels (R == G == B) have hue and saturation 0.
func RGBToHSB(c RGBColor) HSBColor {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, v := col.Hsv()
	h /= 360.0
	if h >= 1 {
		h -= 1
	}
	return HSBColor{H: h, S: s, B: v}
}

// ConvertToHSB converts every pixel of an RGB grid to HSB.
//
// The input grid is not modified; a freshly allocated grid is returned.
func ConvertToHSB(rgb *RGBGrid) *HSBGrid {
	hsb := NewHSBGrid(rgb.Width, rgb.Height)
	for i := 0; i < rgb.Width*rgb.Height; i++ {
		c := RGBToHSB(RGBColor{
			R: rgb.Pix[i*Channels],
			G: rgb.Pix[i*Channels+1],
			B: rgb.Pix[i*Channels+2],
		})
		hsb.Pix[i*Channels] = c.H
		hsb.Pix[i*Channels+1] = c.S
		hsb.Pix[i*Channels+2] = c.B
	}
	return hsb
}

// SampleColor extracts the color at a specific pixel coordinate.
//
// Returns an error if (x, y) lies outside the grid.
func SampleColor(rgb *RGBGrid, x, y int) (*ColorResult, error) {
	if x < 0 || x >= rgb.Width || y < 0 || y >= rgb.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := rgb.At(x, y)
	return &ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSB: RGBToHSB(c),
	}, nil
}
