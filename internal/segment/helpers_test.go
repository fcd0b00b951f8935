package segment

import "github.com/ironsheep/coin-tools-mcp/internal/imaging"

// newBinary creates a background grid with the given foreground points set.
func newBinary(width, height int, points ...imaging.Point) *imaging.BinaryGrid {
	g := imaging.NewBinaryGrid(width, height)
	for _, p := range points {
		g.Set(p.X, p.Y, imaging.Foreground)
	}
	return g
}

// fillRect sets foreground on [x1,x2) x [y1,y2).
func fillRect(g *imaging.BinaryGrid, x1, y1, x2, y2 int) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			g.Set(x, y, imaging.Foreground)
		}
	}
}

// fillDisc sets foreground on every pixel within radius r of (cx, cy).
func fillDisc(g *imaging.BinaryGrid, cx, cy, r int) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				g.Set(x, y, imaging.Foreground)
			}
		}
	}
}

// foreground lists the foreground points of g in row-major order.
func foreground(g *imaging.BinaryGrid) []imaging.Point {
	var pts []imaging.Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) == imaging.Foreground {
				pts = append(pts, imaging.Point{X: x, Y: y})
			}
		}
	}
	return pts
}
