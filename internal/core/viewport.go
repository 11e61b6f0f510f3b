package core

// Viewport projects world rectangles onto screen cells. The stage spans
// WorldW units across Cols columns; each row covers UnitsPerRow units of
// height and the ground line sits under row Rows-1.
type Viewport struct {
	Cols, Rows  int
	WorldW      int
	UnitsPerRow int
}

// Project converts a world rectangle into the cells it touches. Anything
// with area covers at least one cell.
func (v Viewport) Project(r Rect) Rect {
	if r.Empty() || v.Cols <= 0 || v.Rows <= 0 || v.WorldW <= 0 || v.UnitsPerRow <= 0 {
		return Rect{}
	}
	x0 := floorDiv(r.X*v.Cols, v.WorldW)
	x1 := Max(ceilDiv(r.Right()*v.Cols, v.WorldW), x0+1)
	y0 := v.Rows + floorDiv(r.Y, v.UnitsPerRow)
	y1 := Max(v.Rows+ceilDiv(r.Bottom(), v.UnitsPerRow), y0+1)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Column returns the screen column of a world x position.
func (v Viewport) Column(x int) int {
	if v.WorldW <= 0 {
		return 0
	}
	return floorDiv(x*v.Cols, v.WorldW)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
