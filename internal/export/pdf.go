package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

// PDF writes l as a one-page vector PDF the size of the canvas, one point per
// pixel. PDF has no destination-out, so eraser strokes are painted in the
// background colour.
func PDF(w io.Writer, l state.ActionLog, opts Options) error {
	bg, err := surface.ParseColor(opts.Background)
	if err != nil {
		return fmt.Errorf("failed to parse background: %w", err)
	}
	wd, ht := float64(opts.Width), float64(opts.Height)

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetCompression(true)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	pen := &pdfPen{pdf: p}
	pen.fill(bg)
	p.Rect(0, 0, wd, ht, "F")

	for _, a := range l {
		switch a.Kind {
		case state.KindStroke:
			if len(a.Points) < 2 {
				continue
			}
			last := a.Points[len(a.Points)-1]
			if a.Tool == state.ToolEraser {
				pen.draw(bg)
			} else {
				pen.drawColor(last.Color)
			}
			pen.width(last.Width)
			p.MoveTo(a.Points[0].X, a.Points[0].Y)
			for _, pt := range a.Points[1:] {
				p.LineTo(pt.X, pt.Y)
			}
			p.DrawPath("D")
		case state.KindRectangle:
			if a.Rect == nil {
				continue
			}
			pen.drawColor(a.Rect.Color)
			pen.width(a.Rect.Width)
			x, y := math.Min(a.Rect.From.X, a.Rect.To.X), math.Min(a.Rect.From.Y, a.Rect.To.Y)
			p.Rect(x, y, math.Abs(a.Rect.To.X-a.Rect.From.X), math.Abs(a.Rect.To.Y-a.Rect.From.Y), "D")
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// pdfPen applies stroke styles to the document. Like the raster surface, an
// unparsable colour or a non-positive width keeps the previous setting.
type pdfPen struct {
	pdf *gofpdf.Fpdf
}

func (p *pdfPen) drawColor(s string) {
	c, err := surface.ParseColor(s)
	if err != nil {
		return
	}
	p.draw(c)
}

func (p *pdfPen) draw(c color.Color) {
	r, g, b := rgb(c)
	p.pdf.SetDrawColor(r, g, b)
}

func (p *pdfPen) fill(c color.Color) {
	r, g, b := rgb(c)
	p.pdf.SetFillColor(r, g, b)
}

func (p *pdfPen) width(w float64) {
	if w > 0 {
		p.pdf.SetLineWidth(w)
	}
}

func rgb(c color.Color) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
