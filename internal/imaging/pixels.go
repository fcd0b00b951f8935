package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Binary grid levels. A BinaryGrid only ever holds these two values.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

// Channels is the number of interleaved channels in RGB and HSB grids.
const Channels = 3

// Point is a pixel coordinate. Points are comparable and usable as map keys.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RGBColor represents an RGB color with 8-bit components.
//
// It is used both for real pixel colors and as an arbitrary display label
// for a discovered region.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex formats the color as #RRGGBB.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBGrid is a dense 3-channel 8-bit pixel grid.
//
// Channels are interleaved: the red value of (x, y) lives at
// Pix[(y*Width+x)*3], followed by green and blue.
type RGBGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGBGrid allocates a black grid of the given size.
func NewRGBGrid(width, height int) *RGBGrid {
	return &RGBGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

func (g *RGBGrid) offset(x, y int) int {
	return (y*g.Width + x) * Channels
}

// At returns the color at (x, y).
func (g *RGBGrid) At(x, y int) RGBColor {
	i := g.offset(x, y)
	return RGBColor{R: g.Pix[i], G: g.Pix[i+1], B: g.Pix[i+2]}
}

// Set stores c at (x, y).
func (g *RGBGrid) Set(x, y int, c RGBColor) {
	i := g.offset(x, y)
	g.Pix[i] = c.R
	g.Pix[i+1] = c.G
	g.Pix[i+2] = c.B
}

// Image converts the grid to an opaque *image.NRGBA for display.
func (g *RGBGrid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// BinaryGrid is a dense single-channel grid whose pixels are either
// Background or Foreground.
type BinaryGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinaryGrid allocates an all-background grid of the given size.
func NewBinaryGrid(width, height int) *BinaryGrid {
	return &BinaryGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the value at (x, y).
func (g *BinaryGrid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores v at (x, y).
func (g *BinaryGrid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Count returns the number of foreground pixels.
func (g *BinaryGrid) Count() int {
	n := 0
	for _, v := range g.Pix {
		if v == Foreground {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *BinaryGrid) Clone() *BinaryGrid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &BinaryGrid{Width: g.Width, Height: g.Height, Pix: pix}
}

// Image converts the grid to an *image.Gray for display.
func (g *BinaryGrid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Pix)
	return img
}

// HSBGrid holds hue, saturation and brightness per pixel, each in [0, 1].
// Hue is in [0, 1).
type HSBGrid struct {
	Width  int
	Height int
	Pix    []float64
}

// NewHSBGrid allocates a zeroed grid of the given size.
func NewHSBGrid(width, height int) *HSBGrid {
	return &HSBGrid{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*Channels),
	}
}

// At returns the HSB triple at (x, y).
func (g *HSBGrid) At(x, y int) HSBColor {
	i := (y*g.Width + x) * Channels
	return HSBColor{H: g.Pix[i], S: g.Pix[i+1], B: g.Pix[i+2]}
}

// Hue returns the hue channel at (x, y).
func (g *HSBGrid) Hue(x, y int) float64 {
	return g.Pix[(y*g.Width+x)*Channels]
}

// FromImage decodes any image.Image into an RGBGrid.
//
// The image is first normalized to non-premultiplied RGBA so that
// translucent pixels keep their stored channel values. The returned grid is
// re-based to (0,0) regardless of the source bounds.
func FromImage(img image.Image) (*RGBGrid, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has empty bounds %v", bounds)
	}

	src := imaging.Clone(img)
	grid := NewRGBGrid(bounds.Dx(), bounds.Dy())
	for y := 0; y < grid.Height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < grid.Width; x++ {
			grid.Set(x, y, RGBColor{R: row[x*4], G: row[x*4+1], B: row[x*4+2]})
		}
	}
	return grid, nil
}
