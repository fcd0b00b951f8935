package coins

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/coin-tools-mcp/internal/calibration"
	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
	"github.com/ironsheep/coin-tools-mcp/internal/segment"
)

// GoldHueCutoff is the default mean hue at or above which a region is
// treated as gold-toned.
const GoldHueCutoff = 0.12

// Match is the classification of one region.
type Match struct {
	RegionID   int     `json:"region_id"`
	Pixels     int     `json:"pixels"`
	DiameterMM float64 `json:"diameter_mm"`
	MeanHue    float64 `json:"mean_hue"`
	Coin       Coin    `json:"coin"`
}

// Classifier matches regions against the catalogs.
type Classifier struct {
	GoldHueCutoff float64
}

// Default is a Classifier using GoldHueCutoff.
var Default = Classifier{GoldHueCutoff: GoldHueCutoff}

// Match classifies every region in id order.
//
// Each region's pixel area is converted to a disc diameter and scaled to
// millimeters by factor. Regions whose mean hue over hsb reaches the cutoff
// are matched against the gold catalog, all others against the copper one.
func (c Classifier) Match(regions segment.RegionMap, hsb *imaging.HSBGrid, factor float64) []Match {
	matches := make([]Match, 0, len(regions))
	for _, id := range regions.IDs() {
		points := regions[id]
		d := calibration.Scale(calibration.DiameterFromArea(len(points)), factor)
		hue := MeanHue(hsb, points)

		catalog := copperCatalog[:]
		if hue >= c.GoldHueCutoff {
			catalog = goldCatalog[:]
		}

		matches = append(matches, Match{
			RegionID:   id,
			Pixels:     len(points),
			DiameterMM: d,
			MeanHue:    hue,
			Coin:       nearest(catalog, d),
		})
	}
	return matches
}

// Classify returns the summed value of all matched coins.
func (c Classifier) Classify(regions segment.RegionMap, hsb *imaging.HSBGrid, factor float64) float64 {
	return Total(c.Match(regions, hsb, factor))
}

// Classify returns the summed coin value using the default cutoff.
func Classify(regions segment.RegionMap, hsb *imaging.HSBGrid, factor float64) float64 {
	return Default.Classify(regions, hsb, factor)
}

// Total sums the coin values of matches in order.
func Total(matches []Match) float64 {
	values := make([]float64, len(matches))
	for i, m := range matches {
		values[i] = m.Coin.Value
	}
	return floats.Sum(values)
}

// MeanHue averages the hue channel over points. It returns 0 for no points.
func MeanHue(hsb *imaging.HSBGrid, points []imaging.Point) float64 {
	if len(points) == 0 {
		return 0
	}
	hues := make([]float64, len(points))
	for i, p := range points {
		hues[i] = hsb.Hue(p.X, p.Y)
	}
	return stat.Mean(hues, nil)
}
