package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

// BoardWidget shows the session's raster and turns pointer events into
// gestures. One widget unit maps to one raster pixel.
type BoardWidget struct {
	widget.BaseWidget

	board  *state.Board
	raster *surface.Raster

	pen       state.Pen
	rectMode  bool
	rectStart *surface.Point

	// OnChanged runs after anything that changed the pixels or the log.
	OnChanged func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board, raster *surface.Raster, pen state.Pen) *BoardWidget {
	b := &BoardWidget{board: board, raster: raster, pen: pen}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Pen() state.Pen { return b.pen }

func (b *BoardWidget) SetTool(t state.Tool) {
	b.rectMode = false
	b.pen.Tool = t
}

// SetRectangleMode switches to drawing rectangles with the pen colour.
func (b *BoardWidget) SetRectangleMode() {
	b.rectMode = true
	b.pen.Tool = state.ToolPen
}

func (b *BoardWidget) RectangleMode() bool { return b.rectMode }

func (b *BoardWidget) SetColor(c string) { b.pen.Color = c }

func (b *BoardWidget) SetStroke(w float64) { b.pen.Width = w }

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := toPoint(e.Position)
	if b.rectMode {
		b.rectStart = &p
		return
	}
	b.board.Session.BeginGesture(p, b.pen)
	b.changed()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.rectMode || !b.board.Session.Drawing() {
		return
	}
	b.board.Session.ExtendGesture(toPoint(e.Position), b.pen)
	b.changed()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if b.rectMode {
		if b.rectStart != nil {
			b.board.Session.RecordRectangle(*b.rectStart, toPoint(e.Position), b.pen)
			b.rectStart = nil
			b.changed()
		}
		return
	}
	b.endGesture(state.EndRelease)
}

// DragEnd also fires after MouseUp; ending an already ended gesture is a no-op.
func (b *BoardWidget) DragEnd() {
	b.endGesture(state.EndRelease)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

// MouseOut cancels the open stroke. A half-dragged rectangle is dropped.
func (b *BoardWidget) MouseOut() {
	b.rectStart = nil
	b.endGesture(state.EndLeave)
}

func (b *BoardWidget) endGesture(reason state.EndReason) {
	if !b.board.Session.Drawing() {
		return
	}
	b.board.Session.EndGesture(reason)
	b.changed()
}

func (b *BoardWidget) changed() {
	b.Refresh()
	if b.OnChanged != nil {
		b.OnChanged()
	}
}

func toPoint(p fyne.Position) surface.Point {
	return surface.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(b.raster.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	w, h := b.raster.Size()
	return &boardWidgetRenderer{board: b, image: img, min: fyne.NewSize(float32(w), float32(h))}
}

type boardWidgetRenderer struct {
	board *BoardWidget
	image *canvas.Image
	min   fyne.Size
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.image}
}

// Refresh re-uploads the raster, which the session mutates in place.
func (r *boardWidgetRenderer) Refresh() {
	r.image.Refresh()
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	r.image.Move(fyne.NewPos(0, 0))
	r.image.Resize(r.min)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return r.min }
func (r *boardWidgetRenderer) Destroy()           {}
