// Package core provides fundamental geometry and screen types shared by the
// fight simulation and the terminal front-ends. It has no external
// dependencies so the simulation stays pure and testable.
package core

// Rect is an axis-aligned box in world units.
// X grows toward the right edge of the stage, Y grows downward; the ground
// line is Y = 0, so boxes above the floor have negative Y.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps with another.
// Edges are exclusive: boxes that only touch do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Place converts a box authored relative to a character's origin (feet,
// facing right) into world space for a character standing at (x, y) and
// facing the given direction (+1 right, -1 left). Left-facing boxes are
// mirrored around the origin.
func (r Rect) Place(x, y, facing int) Rect {
	if facing < 0 {
		return Rect{X: x - r.X - r.W, Y: y + r.Y, W: r.W, H: r.H}
	}
	return Rect{X: x + r.X, Y: y + r.Y, W: r.W, H: r.H}
}

// Overlap returns the horizontal overlap depth of two rectangles, or 0 when
// they do not intersect.
func (r Rect) Overlap(other Rect) int {
	if !r.Intersects(other) {
		return 0
	}
	return Min(r.Right(), other.Right()) - Max(r.X, other.X)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
