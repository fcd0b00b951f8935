package segment

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
)

// MinArea is the default minimum pixel count of a retained region.
const MinArea = 12_000

// tolerance is the full width of the intensity band around a seed value,
// 10% of the foreground level.
const tolerance = float64(imaging.Foreground) * 0.1

// Label is the per-pixel state of a labelling. Positive values are region
// ids; the two named states below are the only non-positive values.
type Label int32

const (
	// Unlabelled marks background, rejected, or discarded pixels.
	Unlabelled Label = 0
	// Unvisited marks foreground pixels not yet claimed by any region.
	Unvisited Label = -1
)

// RegionMap maps region ids (1, 2, 3, ...) to the points of each region.
type RegionMap map[int][]imaging.Point

// IDs returns the region ids in ascending order.
func (m RegionMap) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GrowOptions tunes GrowRegions.
type GrowOptions struct {
	// MinArea is the smallest retained region. Zero means MinArea.
	MinArea int

	// Seed seeds the display color generator. Zero seeds from the clock.
	Seed uint64
}

// Labeling is the result of GrowRegions.
type Labeling struct {
	Width   int
	Height  int
	Labels  []Label // row-major, Labels[y*Width+x]
	Regions RegionMap
	Colors  map[int]imaging.RGBColor // display color per region id
}

// At returns the label of (x, y).
func (l *Labeling) At(x, y int) Label {
	return l.Labels[y*l.Width+x]
}

// Visualization paints every retained region in its display color on a
// black background.
func (l *Labeling) Visualization() *imaging.RGBGrid {
	vis := imaging.NewRGBGrid(l.Width, l.Height)
	for i, lbl := range l.Labels {
		if lbl <= Unlabelled {
			continue
		}
		vis.Set(i%l.Width, i/l.Width, l.Colors[int(lbl)])
	}
	return vis
}

// Centroid returns the mean position of a region's points, truncated to
// whole pixels. It returns false for an unknown id.
func (l *Labeling) Centroid(id int) (imaging.Point, bool) {
	points, ok := l.Regions[id]
	if !ok || len(points) == 0 {
		return imaging.Point{}, false
	}
	var sx, sy int
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	return imaging.Point{X: sx / len(points), Y: sy / len(points)}, true
}

// IDAnnotations places each region id at its centroid, in id order.
func (l *Labeling) IDAnnotations() []imaging.Annotation {
	notes := make([]imaging.Annotation, 0, len(l.Regions))
	for _, id := range l.Regions.IDs() {
		c, _ := l.Centroid(id)
		notes = append(notes, imaging.Annotation{At: c, Text: strconv.Itoa(id)})
	}
	return notes
}

// GrowRegions labels the connected foreground of src.
//
// Seeds are taken in column-major order (x outer, y inner). From each seed
// the region floods through 8-connected unvisited foreground pixels whose
// intensity in src lies within a band of ±5% of full scale around the seed's
// own intensity; the band is fixed at the seed and does not follow the
// region. Out-of-band neighbours are consumed as unlabelled and never
// revisited. Regions smaller than the minimum area are erased; retained
// regions get dense ids in discovery order starting at 1.
//
// The input grid is not modified.
func GrowRegions(src *imaging.BinaryGrid, opts GrowOptions) *Labeling {
	minArea := opts.MinArea
	if minArea <= 0 {
		minArea = MinArea
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>17|1))

	w, h := src.Width, src.Height
	l := &Labeling{
		Width:   w,
		Height:  h,
		Labels:  make([]Label, w*h),
		Regions: make(RegionMap),
		Colors:  make(map[int]imaging.RGBColor),
	}
	for i, v := range src.Pix {
		if v == imaging.Foreground {
			l.Labels[i] = Unvisited
		}
	}

	next := 1
	cursor := 0
	var stack []imaging.Point
	for {
		start, ok := l.nextSeed(&cursor)
		if !ok {
			break
		}

		lo, hi := band(src.At(start.X, start.Y))
		color := randomColor(rng)
		id := Label(next)

		l.Labels[start.Y*w+start.X] = id
		found := []imaging.Point{start}
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := p.X+dx, p.Y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					i := ny*w + nx
					if l.Labels[i] != Unvisited {
						continue
					}
					v := int(src.Pix[i])
					if v < lo || v > hi {
						l.Labels[i] = Unlabelled
						continue
					}
					l.Labels[i] = id
					n := imaging.Point{X: nx, Y: ny}
					stack = append(stack, n)
					found = append(found, n)
				}
			}
		}

		if len(found) < minArea {
			for _, p := range found {
				l.Labels[p.Y*w+p.X] = Unlabelled
			}
			continue
		}
		l.Regions[next] = found
		l.Colors[next] = color
		next++
	}

	return l
}

// nextSeed finds the first unvisited pixel at or after *cursor in
// column-major order. Pixels before a returned seed are never unvisited
// again, so the cursor only moves forward.
func (l *Labeling) nextSeed(cursor *int) (imaging.Point, bool) {
	total := l.Width * l.Height
	for ; *cursor < total; *cursor++ {
		x, y := *cursor/l.Height, *cursor%l.Height
		if l.Labels[y*l.Width+x] == Unvisited {
			return imaging.Point{X: x, Y: y}, true
		}
	}
	return imaging.Point{}, false
}

// band returns the inclusive intensity range accepted for a region seeded
// at value v, clamped to [0, 255].
func band(v uint8) (lo, hi int) {
	lo = int(float64(v) - tolerance/2.0 + 0.5)
	hi = int(float64(v) + tolerance/2.0 + 0.5)
	if lo < 0 {
		lo = 0
	}
	if hi > 255 {
		hi = 255
	}
	return lo, hi
}

// randomColor picks a display color with every channel in [1, 255] so that
// regions never render as background black.
func randomColor(rng *rand.Rand) imaging.RGBColor {
	return imaging.RGBColor{
		R: uint8(1 + rng.IntN(255)),
		G: uint8(1 + rng.IntN(255)),
		B: uint8(1 + rng.IntN(255)),
	}
}
