package sprite

import "github.com/google/uuid"

// Point is a position in sprite coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path is a named vector path, used as the sprite's working path and kept
// in its path repository.
type Path struct {
	id       uuid.UUID
	name     string
	elements []PathElement
}

// NewPath creates a new empty path.
func NewPath(name string) *Path {
	return &Path{
		id:       uuid.New(),
		name:     name,
		elements: make([]PathElement, 0, 16),
	}
}

// ID returns the path's identifier.
func (p *Path) ID() uuid.UUID { return p.id }

// Name returns the path's repository name.
func (p *Path) Name() string { return p.name }

// SetName sets the path's repository name.
func (p *Path) SetName(name string) { p.name = name }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.elements = append(p.elements, MoveTo{Point: Pt(x, y)})
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.elements = append(p.elements, LineTo{Point: Pt(x, y)})
}

// CubicTo draws a cubic Bezier curve to (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Clone creates a copy of the path with the same identifier.
func (p *Path) Clone() *Path {
	clone := *p
	clone.elements = make([]PathElement, len(p.elements))
	copy(clone.elements, p.elements)
	return &clone
}

// size returns the memory held by the path in bytes.
func (p *Path) size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.elements))*48 + 64
}
