// Package surface defines the 2D drawing surface the whiteboard renders onto
// and a raster implementation of it.
package surface

import "image"

// Point is a position on the surface in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Composite selects how stroked pixels combine with what is already drawn.
type Composite int

const (
	// Paint draws over existing pixels normally.
	Paint Composite = iota
	// Subtract removes existing pixels under the stroke and ignores the stroke colour.
	Subtract
)

func (c Composite) String() string {
	if c == Subtract {
		return "subtract"
	}
	return "paint"
}

// Snapshot is a captured copy of every pixel on a surface.
type Snapshot struct {
	pix    []uint8
	bounds image.Rectangle
}

// Surface is the drawing collaborator used by the recorder and the replay engine.
// Path state behaves like an HTML canvas: Stroke renders the current path and
// keeps it open so further LineTo calls extend it.
type Surface interface {
	Size() (width, height int)

	BeginPath()
	MoveTo(p Point)
	LineTo(p Point)
	Stroke()
	ClosePath()

	// StrokeRect draws an unfilled rectangle between two corners, independent of the current path.
	StrokeRect(a, b Point)

	SetStrokeStyle(color string, width float64)
	SetComposite(c Composite)
	Composite() Composite

	// FillBackground resets every pixel to the background colour.
	FillBackground()

	Snapshot() Snapshot
	Restore(s Snapshot)

	Image() image.Image
}
