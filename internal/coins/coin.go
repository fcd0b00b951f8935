// Package coins classifies measured regions as coin denominations.
//
// Two fixed catalogs exist, one for gold-toned and one for copper-toned
// coins. A region is routed to a catalog by its mean hue and matched to the
// entry with the nearest physical diameter.
package coins

// Coin is a physical denomination: value in currency units and diameter in
// millimeters. Coin values are comparable.
type Coin struct {
	Value    float64 `json:"value"`
	Diameter float64 `json:"diameter_mm"`
	Gold     bool    `json:"gold"`
}

// The catalogs are in ascending diameter order, which also decides ties.
var (
	copperCatalog = [...]Coin{
		{Value: 0.01, Diameter: 16.25},
		{Value: 0.02, Diameter: 18.75},
		{Value: 0.05, Diameter: 21.25},
	}
	goldCatalog = [...]Coin{
		{Value: 0.10, Diameter: 19.75, Gold: true},
		{Value: 0.20, Diameter: 22.25, Gold: true},
		{Value: 0.50, Diameter: 24.25, Gold: true},
	}
)

// CopperCatalog returns a copy of the copper-toned denominations.
func CopperCatalog() []Coin {
	c := copperCatalog
	return c[:]
}

// GoldCatalog returns a copy of the gold-toned denominations.
func GoldCatalog() []Coin {
	c := goldCatalog
	return c[:]
}

// nearest returns the catalog entry whose diameter is closest to d, or the
// zero Coin when the catalog is empty. Ties keep the earlier entry.
func nearest(catalog []Coin, d float64) Coin {
	var best Coin
	bestDist := -1.0
	for _, c := range catalog {
		dist := c.Diameter - d
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}
