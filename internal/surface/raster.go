package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Raster is a Surface backed by an in-memory RGBA image.
type Raster struct {
	dc   *gg.Context
	img  *image.RGBA
	mask *gg.Context // scratch coverage for Subtract strokes, allocated lazily

	background color.Color
	stroke     color.Color
	width      float64
	composite  Composite

	subpaths [][]Point
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a width x height surface filled with background.
func NewRaster(width, height int, background string) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	bg, err := ParseColor(background)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	r := &Raster{
		dc:         gg.NewContextForRGBA(img),
		img:        img,
		background: bg,
		stroke:     color.Black,
		width:      1,
	}
	r.FillBackground()
	return r, nil
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) BeginPath() { r.subpaths = nil }

func (r *Raster) MoveTo(p Point) {
	r.subpaths = append(r.subpaths, []Point{p})
}

// LineTo with no current point behaves like MoveTo.
func (r *Raster) LineTo(p Point) {
	if len(r.subpaths) == 0 {
		r.MoveTo(p)
		return
	}
	last := len(r.subpaths) - 1
	r.subpaths[last] = append(r.subpaths[last], p)
}

// ClosePath ends the current path without drawing it.
func (r *Raster) ClosePath() { r.subpaths = nil }

func (r *Raster) Stroke() {
	if len(r.subpaths) == 0 {
		return
	}
	paths := r.subpaths
	r.render(r.boundsOf(paths...), func(dc *gg.Context) {
		for _, sp := range paths {
			dc.MoveTo(sp[0].X, sp[0].Y)
			for _, p := range sp[1:] {
				dc.LineTo(p.X, p.Y)
			}
		}
	})
}

func (r *Raster) StrokeRect(a, b Point) {
	corners := []Point{a, {X: b.X, Y: a.Y}, b, {X: a.X, Y: b.Y}}
	r.render(r.boundsOf(corners), func(dc *gg.Context) {
		dc.DrawRectangle(a.X, a.Y, b.X-a.X, b.Y-a.Y)
	})
}

// SetStrokeStyle keeps the previous colour when color does not parse and the
// previous width when width is not positive, as a canvas does.
func (r *Raster) SetStrokeStyle(col string, width float64) {
	if c, err := ParseColor(col); err == nil {
		r.stroke = c
	}
	if width > 0 {
		r.width = width
	}
}

func (r *Raster) SetComposite(c Composite) { r.composite = c }

func (r *Raster) Composite() Composite { return r.composite }

func (r *Raster) FillBackground() {
	r.dc.SetColor(r.background)
	r.dc.Clear()
}

func (r *Raster) Snapshot() Snapshot {
	pix := make([]uint8, len(r.img.Pix))
	copy(pix, r.img.Pix)
	return Snapshot{pix: pix, bounds: r.img.Bounds()}
}

// Restore ignores snapshots taken from a surface of a different size.
func (r *Raster) Restore(s Snapshot) {
	if s.bounds != r.img.Bounds() || len(s.pix) != len(r.img.Pix) {
		return
	}
	copy(r.img.Pix, s.pix)
}

func (r *Raster) Image() image.Image { return r.img }

// render strokes the path built by build using the current style and composite.
func (r *Raster) render(area image.Rectangle, build func(dc *gg.Context)) {
	dc := r.dc
	if r.composite == Subtract {
		dc = r.scratch()
	}
	dc.ClearPath()
	dc.SetLineWidth(r.width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	if r.composite == Subtract {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(r.stroke)
	}
	build(dc)
	dc.Stroke()

	if r.composite == Subtract {
		destinationOut(r.img, r.mask.Image().(*image.RGBA), area)
	}
}

func (r *Raster) scratch() *gg.Context {
	w, h := r.Size()
	if r.mask == nil {
		r.mask = gg.NewContext(w, h)
	}
	r.mask.SetColor(color.Transparent)
	r.mask.Clear()
	return r.mask
}

// boundsOf returns the pixel area a stroke of the current width over pts can touch.
func (r *Raster) boundsOf(paths ...[]Point) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range paths {
		for _, p := range sp {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	pad := r.width/2 + 2
	area := image.Rect(
		int(math.Floor(minX-pad)), int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)), int(math.Ceil(maxY+pad)),
	)
	return area.Intersect(r.img.Bounds())
}

// destinationOut removes mask coverage from dst inside area. Both images hold
// premultiplied colour, so scaling every channel by the inverse coverage is exact.
func destinationOut(dst, mask *image.RGBA, area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		i := dst.PixOffset(area.Min.X, y)
		j := mask.PixOffset(area.Min.X, y)
		for x := area.Min.X; x < area.Max.X; x, i, j = x+1, i+4, j+4 {
			a := uint32(mask.Pix[j+3])
			if a == 0 {
				continue
			}
			keep := 255 - a
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8(uint32(dst.Pix[i+k]) * keep / 255)
			}
		}
	}
}
