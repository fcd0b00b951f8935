package segment

import "github.com/ironsheep/coin-tools-mcp/internal/imaging"

// Band selects near-gray pixels whose channels all lie in [Min, Max] and
// whose neighbouring channels differ by at most Delta.
type Band struct {
	Min   int `yaml:"min" json:"min"`
	Max   int `yaml:"max" json:"max"`
	Delta int `yaml:"delta" json:"delta"`

	// Invert makes in-band pixels background and everything else foreground.
	Invert bool `yaml:"invert" json:"invert"`
}

// Contains reports whether the color falls inside the band, ignoring Invert.
func (b Band) Contains(c imaging.RGBColor) bool {
	r, g, bl := int(c.R), int(c.G), int(c.B)
	return inRange(b.Min, b.Max, r) && inRange(b.Min, b.Max, g) && inRange(b.Min, b.Max, bl) &&
		abs(r-g) <= b.Delta && abs(g-bl) <= b.Delta
}

// Binarize thresholds every pixel of img into a fresh binary grid.
//
// In-band pixels become Foreground, others Background; Invert swaps the two.
// The input grid is not modified.
func Binarize(img *imaging.RGBGrid, band Band) *imaging.BinaryGrid {
	in, out := imaging.Foreground, imaging.Background
	if band.Invert {
		in, out = out, in
	}

	bin := imaging.NewBinaryGrid(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if band.Contains(img.At(x, y)) {
				bin.Set(x, y, in)
			} else {
				bin.Set(x, y, out)
			}
		}
	}
	return bin
}

// Exclude forces every listed point to Background.
//
// The coin pass uses it to remove pixels already claimed by the reference
// marker before normalization.
func Exclude(bin *imaging.BinaryGrid, points []imaging.Point) {
	for _, p := range points {
		bin.Set(p.X, p.Y, imaging.Background)
	}
}

func inRange(lo, hi, v int) bool {
	return v >= lo && v <= hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
