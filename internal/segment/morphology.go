package segment

import "github.com/ironsheep/coin-tools-mcp/internal/imaging"

// NormalizeCount is the base iteration count of the normalization schedules.
const NormalizeCount = 7

// neighbours4 lists the N/S/E/W offsets.
var neighbours4 = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// Dilate grows the foreground by one pixel in each 4-connected direction.
//
// Pending flips are collected from the grid as it was before the pass and
// committed together, so the result does not depend on scan order.
func Dilate(bin *imaging.BinaryGrid) {
	commit(bin, dilationFront(bin), imaging.Foreground)
}

// Erode turns every foreground pixel with a 4-connected background
// neighbour into background, committed the same two-phase way as Dilate.
func Erode(bin *imaging.BinaryGrid) {
	var pending []int
	for y := 0; y < bin.Height; y++ {
		for x := 0; x < bin.Width; x++ {
			if bin.At(x, y) != imaging.Foreground {
				continue
			}
			if hasNeighbour(bin, x, y, imaging.Background) {
				pending = append(pending, y*bin.Width+x)
			}
		}
	}
	commit(bin, pending, imaging.Background)
}

// dilationFront returns the indices of background pixels that touch a
// foreground pixel. An index may appear more than once.
func dilationFront(bin *imaging.BinaryGrid) []int {
	var pending []int
	for y := 0; y < bin.Height; y++ {
		for x := 0; x < bin.Width; x++ {
			if bin.At(x, y) != imaging.Foreground {
				continue
			}
			for _, d := range neighbours4 {
				nx, ny := x+d[0], y+d[1]
				if inBounds(bin, nx, ny) && bin.At(nx, ny) == imaging.Background {
					pending = append(pending, ny*bin.Width+nx)
				}
			}
		}
	}
	return pending
}

func hasNeighbour(bin *imaging.BinaryGrid, x, y int, want uint8) bool {
	for _, d := range neighbours4 {
		nx, ny := x+d[0], y+d[1]
		if inBounds(bin, nx, ny) && bin.At(nx, ny) == want {
			return true
		}
	}
	return false
}

func commit(bin *imaging.BinaryGrid, pending []int, v uint8) {
	for _, i := range pending {
		bin.Pix[i] = v
	}
}

func inBounds(bin *imaging.BinaryGrid, x, y int) bool {
	return x >= 0 && y >= 0 && x < bin.Width && y < bin.Height
}

func repeat(bin *imaging.BinaryGrid, op func(*imaging.BinaryGrid), times int) {
	for i := 0; i < times; i++ {
		op(bin)
	}
}

// NormalizeMarker cleans the reference marker grid in place: dilate n times,
// erode 4n times, dilate 2n times. It returns bin.
func NormalizeMarker(bin *imaging.BinaryGrid, n int) *imaging.BinaryGrid {
	repeat(bin, Dilate, n)
	repeat(bin, Erode, 4*n)
	repeat(bin, Dilate, 2*n)
	return bin
}

// NormalizeCoins cleans the coin grid in place: dilate 2n times, erode 4n
// times, dilate 2n times. It returns bin.
func NormalizeCoins(bin *imaging.BinaryGrid, n int) *imaging.BinaryGrid {
	repeat(bin, Dilate, 2*n)
	repeat(bin, Erode, 4*n)
	repeat(bin, Dilate, 2*n)
	return bin
}
