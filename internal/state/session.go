package state

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"MyWhiteboard/internal/surface"
)

// EndReason says why a gesture ended.
type EndReason int

const (
	// EndRelease is a pointer release over the surface. It completes the gesture.
	EndRelease EndReason = iota
	// EndLeave is the pointer leaving the surface. The gesture is cancelled
	// rather than completed, so no undo snapshot is taken.
	EndLeave
)

// Session is the live state of one open drawing: the action log being
// recorded, the raster snapshots used for undo, and the surface both act on.
// A Session is driven from a single event loop and is not safe for concurrent use.
type Session struct {
	ID string

	surface surface.Surface
	clock   *Clock
	logger  *log.Logger

	log ActionLog

	snapshots []surface.Snapshot
	index     int // position of the current snapshot; -1 when there is none
	undoDepth int

	gesture bool // a stroke is open at log[len(log)-1]
	last    surface.Point
}

// NewSession creates a session drawing on surf. undoDepth caps the snapshot
// stack; zero or less means unbounded.
func NewSession(surf surface.Surface, undoDepth int, clock *Clock, logger *log.Logger) *Session {
	if clock == nil {
		clock = NewClock(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		surface:   surf,
		clock:     clock,
		logger:    logger.With("session", id[:8]),
		index:     -1,
		undoDepth: undoDepth,
	}
}

func (s *Session) Surface() surface.Surface { return s.surface }

// Actions returns a copy of the live action log.
func (s *Session) Actions() ActionLog { return s.log.Clone() }

// ActionCount is the number of primitives in the live log.
func (s *Session) ActionCount() int { return s.log.Len() }

// SnapshotCount is the depth of the undo stack.
func (s *Session) SnapshotCount() int { return len(s.snapshots) }

// UndoIndex is the position of the current snapshot, or -1 when there is none.
func (s *Session) UndoIndex() int { return s.index }

// Drawing reports whether a stroke gesture is open.
func (s *Session) Drawing() bool { return s.gesture }

// BeginGesture opens a stroke at p. An already open gesture is first
// cancelled, as if the pointer had left the surface.
func (s *Session) BeginGesture(p surface.Point, pen Pen) {
	if s.gesture {
		s.EndGesture(EndLeave)
	}
	s.surface.BeginPath()
	s.surface.MoveTo(p)
	s.surface.SetComposite(pen.Tool.Composite())
	s.surface.SetStrokeStyle(pen.Color, pen.Width)

	s.log = append(s.log, Action{
		Kind:   KindStroke,
		Tool:   pen.Tool,
		Points: []StrokePoint{s.point(p, pen)},
	})
	s.gesture = true
	s.last = p
}

// ExtendGesture draws a segment from the previous point to p. It does nothing
// when no gesture is open.
func (s *Session) ExtendGesture(p surface.Point, pen Pen) {
	if !s.gesture {
		return
	}
	cur := &s.log[len(s.log)-1]

	s.surface.SetComposite(cur.Tool.Composite())
	s.surface.SetStrokeStyle(pen.Color, pen.Width)
	s.surface.BeginPath()
	s.surface.MoveTo(s.last)
	s.surface.LineTo(p)
	s.surface.Stroke()

	cur.Points = append(cur.Points, s.point(p, pen))
	s.last = p
}

// EndGesture closes the open stroke and returns the surface to paint mode.
// Unless the gesture was cancelled by leaving the surface, the resulting
// pixels are pushed onto the undo stack. Without an open gesture it does nothing.
func (s *Session) EndGesture(reason EndReason) {
	if !s.gesture {
		return
	}
	s.surface.ClosePath()
	s.surface.SetComposite(surface.Paint)
	s.gesture = false

	if reason == EndLeave {
		s.logger.Debug("gesture cancelled", "actions", s.log.Len())
		return
	}
	s.pushSnapshot()
}

// RecordRectangle draws an unfilled rectangle between a and b and logs it.
// A rectangle is a gesture of its own and is pushed onto the undo stack.
func (s *Session) RecordRectangle(a, b surface.Point, pen Pen) {
	if s.gesture {
		s.EndGesture(EndRelease)
	}
	s.surface.SetComposite(surface.Paint)
	s.surface.SetStrokeStyle(pen.Color, pen.Width)
	s.surface.StrokeRect(a, b)

	s.log = append(s.log, Action{
		Kind: KindRectangle,
		Rect: &Rectangle{From: a, To: b, Color: pen.Color, Width: pen.Width, At: s.clock.Now()},
	})
	s.pushSnapshot()
}

// Undo steps back one gesture. With one snapshot or none left, it clears
// the surface instead; repeated calls at that floor change nothing.
// Undo works on pixels only: the action log is left as it is.
func (s *Session) Undo() {
	if s.gesture {
		s.EndGesture(EndLeave)
	}
	if s.index <= 0 {
		s.clearSurface()
		return
	}
	s.snapshots[len(s.snapshots)-1] = surface.Snapshot{}
	s.snapshots = s.snapshots[:len(s.snapshots)-1]
	s.index--
	s.surface.Restore(s.snapshots[s.index])
}

// Clear wipes the surface, the undo stack and the action log.
func (s *Session) Clear() {
	s.clearSurface()
	s.log = nil
	s.logger.Debug("cleared")
}

// Replay installs a copy of l as the live log and rebuilds the surface from it.
func (s *Session) Replay(l ActionLog) {
	s.gesture = false
	s.log = l.Clone()
	s.snapshots = nil
	s.index = -1
	Replay(s.surface, s.log)
	s.logger.Debug("replayed", "actions", s.log.Len())
}

func (s *Session) clearSurface() {
	s.gesture = false
	s.surface.ClosePath()
	s.surface.SetComposite(surface.Paint)
	s.surface.FillBackground()
	s.snapshots = nil
	s.index = -1
}

func (s *Session) pushSnapshot() {
	s.snapshots = append(s.snapshots, s.surface.Snapshot())
	if s.undoDepth > 0 && len(s.snapshots) > s.undoDepth {
		s.snapshots[0] = surface.Snapshot{}
		s.snapshots = append(s.snapshots[:0], s.snapshots[1:]...)
	}
	s.index = len(s.snapshots) - 1
}

func (s *Session) point(p surface.Point, pen Pen) StrokePoint {
	return StrokePoint{Point: p, Color: pen.Color, Width: pen.Width, At: s.clock.Now()}
}
