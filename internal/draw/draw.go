// Package draw renders game snapshots onto a terminal using half-block
// characters.
package draw

import "math"

// Point is a 2D coordinate in canvas logical space (y grows downward).
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// rotate turns a local point counter-clockwise by deg degrees, y-up.
func rotate(x, y, deg float64) (float64, float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return x*cos - y*sin, x*sin + y*cos
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
