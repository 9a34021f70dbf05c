package physics

// Wrap computes the toroidal correction for a bounding box on a width×height field.
//
// Each axis is handled independently: a box fully past the left edge reappears
// with its left edge on the right border, a box fully past the right edge
// reappears with its right edge on the left border, and likewise for
// bottom/top. The returned offsets are added to the entity position.
// wrapped is true only on the tick the correction happens, so callers can
// fire one-shot side effects.
func Wrap(box Rect, width, height float64) (dx, dy float64, wrapped bool) {
	switch {
	case box.MaxX < 0:
		dx = width - box.MinX
	case box.MinX > width:
		dx = -box.MaxX
	}

	switch {
	case box.MaxY < 0:
		dy = height - box.MinY
	case box.MinY > height:
		dy = -box.MaxY
	}

	return dx, dy, dx != 0 || dy != 0
}
