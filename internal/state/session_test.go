package state

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"MyWhiteboard/internal/surface"
)

const (
	testWidth  = 64
	testHeight = 48
)

var (
	redPen = Pen{Tool: ToolPen, Color: "red", Width: 2}
	eraser = Pen{Tool: ToolEraser, Color: "red", Width: 8}
)

func fixedClock() *Clock {
	return NewClock(func() time.Time { return t0 })
}

type fataler interface {
	Fatalf(format string, args ...any)
}

func newRaster(t fataler) *surface.Raster {
	r, err := surface.NewRaster(testWidth, testHeight, "white")
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	return r
}

func newTestSession(t fataler, undoDepth int) *Session {
	return NewSession(newRaster(t), undoDepth, fixedClock(), nil)
}

func pixels(s surface.Surface) []uint8 {
	img := s.Image().(*image.RGBA)
	out := make([]uint8, len(img.Pix))
	copy(out, img.Pix)
	return out
}

func pt(x, y float64) surface.Point { return surface.Point{X: x, Y: y} }

func drawStroke(s *Session, pen Pen, pts ...surface.Point) {
	s.BeginGesture(pts[0], pen)
	for _, p := range pts[1:] {
		s.ExtendGesture(p, pen)
	}
	s.EndGesture(EndRelease)
}

func TestGestureRecordsStartAndSegments(t *testing.T) {
	s := newTestSession(t, 0)
	drawStroke(s, redPen, pt(5, 5), pt(20, 5), pt(20, 20), pt(40, 20))

	log := s.Actions()
	require.Len(t, log, 1)
	assert.Equal(t, 4, log.Len())
	assert.Equal(t, ToolPen, log[0].Tool)
	for _, p := range log[0].Points {
		assert.Equal(t, "red", p.Color)
		assert.Equal(t, 2.0, p.Width)
		assert.Equal(t, t0, p.At)
	}
	assert.Equal(t, 1, s.SnapshotCount())
	assert.Equal(t, 0, s.UndoIndex())
	assert.False(t, s.Drawing())
	assert.Equal(t, surface.Paint, s.Surface().Composite())
}

func TestExtendWithoutGestureIsNoop(t *testing.T) {
	s := newTestSession(t, 0)
	before := pixels(s.Surface())
	s.ExtendGesture(pt(10, 10), redPen)
	s.EndGesture(EndRelease)

	assert.Equal(t, 0, s.ActionCount())
	assert.Equal(t, 0, s.SnapshotCount())
	assert.Equal(t, before, pixels(s.Surface()))
}

func TestGestureCancelledByLeave(t *testing.T) {
	s := newTestSession(t, 0)

	s.BeginGesture(pt(5, 5), redPen)
	s.ExtendGesture(pt(30, 30), redPen)
	s.EndGesture(EndLeave)
	assert.Equal(t, 0, s.SnapshotCount(), "leaving the surface takes no snapshot")
	assert.Equal(t, 2, s.ActionCount(), "the cancelled stroke is still logged")

	drawStroke(s, redPen, pt(5, 40), pt(30, 40))
	assert.Equal(t, 1, s.SnapshotCount(), "a release takes a snapshot")

	s.EndGesture(EndRelease)
	assert.Equal(t, 1, s.SnapshotCount(), "a second end event is ignored")
}

func TestBeginWhileOpenCancelsPrevious(t *testing.T) {
	s := newTestSession(t, 0)
	s.BeginGesture(pt(1, 1), redPen)
	s.BeginGesture(pt(2, 2), redPen)
	s.EndGesture(EndRelease)

	assert.Len(t, s.Actions(), 2)
	assert.Equal(t, 1, s.SnapshotCount())
}

func TestEraserErasesAndResetsComposite(t *testing.T) {
	s := newTestSession(t, 0)
	drawStroke(s, Pen{Tool: ToolPen, Color: "black", Width: 6}, pt(5, 24), pt(60, 24))
	img := s.Surface().Image().(*image.RGBA)
	require.Equal(t, uint8(255), img.RGBAAt(30, 24).A)

	s.BeginGesture(pt(20, 24), eraser)
	assert.Equal(t, surface.Subtract, s.Surface().Composite())
	s.ExtendGesture(pt(40, 24), eraser)
	s.EndGesture(EndRelease)

	assert.Equal(t, uint8(0), img.RGBAAt(30, 24).A)
	assert.Equal(t, surface.Paint, s.Surface().Composite())
	assert.Equal(t, ToolEraser, s.Actions()[1].Tool)
}

func TestRecordRectangle(t *testing.T) {
	s := newTestSession(t, 0)
	s.RecordRectangle(pt(10, 10), pt(40, 30), Pen{Tool: ToolPen, Color: "blue", Width: 2})

	log := s.Actions()
	require.Len(t, log, 1)
	assert.Equal(t, KindRectangle, log[0].Kind)
	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 1, s.SnapshotCount())

	img := s.Surface().Image().(*image.RGBA)
	assert.Equal(t, uint8(255), img.RGBAAt(20, 10).B)
	assert.Equal(t, uint8(255), img.RGBAAt(20, 20).R, "inside stays background")
}

func TestUndoRestoresPreviousGesture(t *testing.T) {
	s := newTestSession(t, 0)
	blank := pixels(s.Surface())

	drawStroke(s, redPen, pt(5, 5), pt(30, 5))
	first := pixels(s.Surface())
	drawStroke(s, redPen, pt(5, 20), pt(30, 20))
	second := pixels(s.Surface())
	drawStroke(s, redPen, pt(5, 40), pt(30, 40))
	require.Equal(t, 3, s.SnapshotCount())

	s.Undo()
	assert.Equal(t, second, pixels(s.Surface()))
	assert.Equal(t, 1, s.UndoIndex())
	assert.Equal(t, s.UndoIndex(), s.SnapshotCount()-1)

	s.Undo()
	assert.Equal(t, first, pixels(s.Surface()))
	assert.Equal(t, 0, s.UndoIndex())

	s.Undo()
	assert.Equal(t, blank, pixels(s.Surface()))
	assert.Equal(t, -1, s.UndoIndex())
	assert.Equal(t, 0, s.SnapshotCount())

	assert.Equal(t, 6, s.ActionCount(), "undo leaves the action log alone")
}

func TestUndoDepthCap(t *testing.T) {
	s := newTestSession(t, 3)
	for i := 0; i < 5; i++ {
		drawStroke(s, redPen, pt(5, float64(5+i*8)), pt(30, float64(5+i*8)))
	}
	assert.Equal(t, 3, s.SnapshotCount())
	assert.Equal(t, 2, s.UndoIndex())
}

func TestClearEmptiesEverything(t *testing.T) {
	s := newTestSession(t, 0)
	blank := pixels(s.Surface())
	drawStroke(s, redPen, pt(5, 5), pt(30, 30))
	s.RecordRectangle(pt(1, 1), pt(9, 9), redPen)

	s.Clear()
	assert.Equal(t, blank, pixels(s.Surface()))
	assert.Equal(t, 0, s.SnapshotCount())
	assert.Equal(t, -1, s.UndoIndex())
	assert.Equal(t, 0, s.ActionCount())
}

func TestSessionReplayRebuildsPixels(t *testing.T) {
	live := newTestSession(t, 0)
	drawStroke(live, redPen, pt(5, 5), pt(20, 5), pt(20, 20), pt(40, 20))

	other := newTestSession(t, 0)
	other.Replay(live.Actions())
	assert.Equal(t, live.Actions(), other.Actions())
	assert.Equal(t, 0, other.SnapshotCount())

	img := other.Surface().Image().(*image.RGBA)
	assert.Equal(t, uint8(255), img.RGBAAt(12, 5).R)
	assert.Equal(t, uint8(0), img.RGBAAt(12, 5).G, "red polyline through the recorded points")
	assert.Equal(t, uint8(0), img.RGBAAt(20, 12).G)
	assert.Equal(t, uint8(255), img.RGBAAt(12, 30).G, "away from the polyline stays white")

	other.Undo()
	assert.Equal(t, 4, other.ActionCount(), "undo after a load clears pixels only")
}

func TestReplayKeepsStyleChangedMidStroke(t *testing.T) {
	live := newTestSession(t, 0)
	blueWide := Pen{Tool: ToolPen, Color: "blue", Width: 10}
	live.BeginGesture(pt(5, 24), blueWide)
	live.ExtendGesture(pt(30, 24), blueWide)
	live.ExtendGesture(pt(60, 24), redPen)
	live.EndGesture(EndRelease)

	log := live.Actions()
	require.Len(t, log, 1)
	assert.Equal(t, "blue", log[0].Points[1].Color)
	assert.Equal(t, "red", log[0].Points[2].Color)

	surf := newRaster(t)
	Replay(surf, log)
	img := surf.Image().(*image.RGBA)
	assert.Equal(t, uint8(255), img.RGBAAt(15, 21).B, "wide blue segment")
	assert.Equal(t, uint8(0), img.RGBAAt(15, 21).R)
	assert.Equal(t, uint8(255), img.RGBAAt(50, 24).R, "thin red segment")
	assert.Equal(t, uint8(255), img.RGBAAt(50, 21).G, "red segment keeps its own width")
	assert.Equal(t, pixels(live.Surface()), pixels(surf))
}

// gestures draws a random sequence of strokes, erasures and rectangles.
func gestures(t *rapid.T, s *Session) {
	coord := func(label string, max int) float64 {
		return float64(rapid.IntRange(-4, max+4).Draw(t, label))
	}
	pen := rapid.Custom(func(t *rapid.T) Pen {
		return Pen{
			Tool:  rapid.SampledFrom([]Tool{ToolPen, ToolEraser}).Draw(t, "tool"),
			Color: rapid.SampledFrom([]string{"black", "red", "#00ff00", "rgb(0, 0, 255)"}).Draw(t, "color"),
			Width: float64(rapid.IntRange(1, 12).Draw(t, "width")),
		}
	})
	n := rapid.IntRange(0, 8).Draw(t, "gestures")
	for i := 0; i < n; i++ {
		p := pen.Draw(t, "pen")
		if rapid.Bool().Draw(t, "rect") {
			s.RecordRectangle(
				pt(coord("x1", testWidth), coord("y1", testHeight)),
				pt(coord("x2", testWidth), coord("y2", testHeight)), p)
			continue
		}
		s.BeginGesture(pt(coord("x", testWidth), coord("y", testHeight)), p)
		segs := rapid.IntRange(0, 6).Draw(t, "segments")
		for j := 0; j < segs; j++ {
			if rapid.Bool().Draw(t, "restyle") {
				p = pen.Draw(t, "pen")
			}
			s.ExtendGesture(pt(coord("x", testWidth), coord("y", testHeight)), p)
		}
		reason := rapid.SampledFrom([]EndReason{EndRelease, EndLeave}).Draw(t, "end")
		s.EndGesture(reason)
	}
}

func TestReplayIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestSession(t, 0)
		gestures(t, s)
		log := s.Actions()

		surf := newRaster(t)
		Replay(surf, log)
		once := pixels(surf)
		assert.Equal(t, surface.Paint, surf.Composite())

		Replay(surf, log)
		assert.Equal(t, once, pixels(surf), "replaying onto a used surface")

		fresh := newRaster(t)
		Replay(fresh, log)
		assert.Equal(t, once, pixels(fresh), "replaying onto a fresh surface")
	})
}

func TestReplayMatchesLiveDrawing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newTestSession(t, 0)
		gestures(t, s)

		surf := newRaster(t)
		Replay(surf, s.Actions())
		assert.Equal(t, pixels(s.Surface()), pixels(surf))
	})
}

func TestUndoConvergesToEmpty(t *testing.T) {
	blank := pixels(newRaster(t))
	rapid.Check(t, func(t *rapid.T) {
		s := NewSession(newRaster(t), rapid.IntRange(0, 5).Draw(t, "depth"), fixedClock(), nil)
		gestures(t, s)

		n := s.SnapshotCount()
		for i := 0; i <= n; i++ {
			if s.SnapshotCount() > 0 && s.UndoIndex() != s.SnapshotCount()-1 {
				t.Fatalf("index %d with %d snapshots", s.UndoIndex(), s.SnapshotCount())
			}
			s.Undo()
		}
		if s.UndoIndex() != -1 || s.SnapshotCount() != 0 {
			t.Fatalf("undo did not reach the floor: index %d, %d snapshots", s.UndoIndex(), s.SnapshotCount())
		}
		assert.Equal(t, blank, pixels(s.Surface()))

		s.Undo()
		assert.Equal(t, blank, pixels(s.Surface()), "undo at the floor is a no-op")
		assert.Equal(t, -1, s.UndoIndex())
	})
}
