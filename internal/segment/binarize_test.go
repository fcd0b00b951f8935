package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
)

var (
	markerBand = Band{Min: 0, Max: 74, Delta: 6}
	coinBand   = Band{Min: 74, Max: 202, Delta: 22, Invert: true}
)

func TestBand_Contains(t *testing.T) {
	tests := []struct {
		name  string
		band  Band
		color imaging.RGBColor
		want  bool
	}{
		{"black in marker band", markerBand, imaging.RGBColor{R: 0, G: 0, B: 0}, true},
		{"upper edge inclusive", markerBand, imaging.RGBColor{R: 74, G: 74, B: 74}, true},
		{"above band", markerBand, imaging.RGBColor{R: 75, G: 75, B: 75}, false},
		{"delta edge inclusive", markerBand, imaging.RGBColor{R: 30, G: 36, B: 42}, true},
		{"red-green delta exceeded", markerBand, imaging.RGBColor{R: 30, G: 37, B: 37}, false},
		{"green-blue delta exceeded", markerBand, imaging.RGBColor{R: 30, G: 30, B: 37}, false},
		{"gray table in coin band", coinBand, imaging.RGBColor{R: 150, G: 140, B: 130}, true},
		{"gold coin outside coin band", coinBand, imaging.RGBColor{R: 200, G: 160, B: 40}, false},
		{"lower edge inclusive", coinBand, imaging.RGBColor{R: 74, G: 74, B: 74}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.band.Contains(tt.color); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestBinarize(t *testing.T) {
	img := imaging.NewRGBGrid(3, 1)
	img.Set(0, 0, imaging.RGBColor{R: 20, G: 22, B: 24})    // dark gray marker
	img.Set(1, 0, imaging.RGBColor{R: 150, G: 150, B: 150}) // table
	img.Set(2, 0, imaging.RGBColor{R: 200, G: 120, B: 60})  // copper

	marker := Binarize(img, markerBand)
	if diff := cmp.Diff([]uint8{255, 0, 0}, marker.Pix); diff != "" {
		t.Errorf("marker pass mismatch (-want +got):\n%s", diff)
	}

	coins := Binarize(img, coinBand)
	if diff := cmp.Diff([]uint8{255, 0, 255}, coins.Pix); diff != "" {
		t.Errorf("coin pass mismatch (-want +got):\n%s", diff)
	}

	if got := img.At(1, 0); got != (imaging.RGBColor{R: 150, G: 150, B: 150}) {
		t.Errorf("Binarize modified its input: %v", got)
	}
}

func TestBinarize_IdentityOnBinaryInput(t *testing.T) {
	bin := newBinary(4, 4, imaging.Point{X: 0, Y: 0}, imaging.Point{X: 2, Y: 1}, imaging.Point{X: 3, Y: 3})

	rgb := imaging.NewRGBGrid(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := bin.At(x, y)
			rgb.Set(x, y, imaging.RGBColor{R: v, G: v, B: v})
		}
	}

	got := Binarize(rgb, Band{Min: 255, Max: 255, Delta: 0})
	if diff := cmp.Diff(bin.Pix, got.Pix); diff != "" {
		t.Errorf("re-binarized grid differs (-want +got):\n%s", diff)
	}
}

func TestExclude(t *testing.T) {
	bin := imaging.NewBinaryGrid(5, 5)
	fillRect(bin, 0, 0, 5, 5)

	Exclude(bin, []imaging.Point{{X: 1, Y: 1}, {X: 4, Y: 0}})

	if bin.Count() != 23 {
		t.Errorf("Count after Exclude: got %d, want 23", bin.Count())
	}
	if bin.At(1, 1) != imaging.Background || bin.At(4, 0) != imaging.Background {
		t.Error("excluded points should be background")
	}
}
