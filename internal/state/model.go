package state

import (
	"encoding/json"
	"fmt"
	"time"

	"MyWhiteboard/internal/surface"
)

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// Composite returns the compositing mode strokes of this tool render with.
func (t Tool) Composite() surface.Composite {
	if t == ToolEraser {
		return surface.Subtract
	}
	return surface.Paint
}

// Pen is the tool, colour and width a primitive is drawn with.
type Pen struct {
	Tool  Tool
	Color string
	Width float64
}

// StrokePoint is one primitive of a freehand stroke. The first point of a
// stroke is its start; every later point is a segment from the previous one.
// Colour and width are captured per point so replay reproduces the drawing
// even when the toolbar changed mid-log.
type StrokePoint struct {
	surface.Point
	Color string    `json:"color"`
	Width float64   `json:"width"`
	At    time.Time `json:"at"`
}

// Rectangle is an unfilled rectangle between two corners.
type Rectangle struct {
	From  surface.Point `json:"from"`
	To    surface.Point `json:"to"`
	Color string        `json:"color"`
	Width float64       `json:"width"`
	At    time.Time     `json:"at"`
}

type ActionKind string

const (
	KindStroke    ActionKind = "stroke"
	KindRectangle ActionKind = "rectangle"
)

// Action is one completed or in-progress gesture.
type Action struct {
	Kind   ActionKind    `json:"kind"`
	Tool   Tool          `json:"tool,omitempty"`
	Points []StrokePoint `json:"points,omitempty"`
	Rect   *Rectangle    `json:"rect,omitempty"`
}

// Len is the number of primitives the action holds.
func (a Action) Len() int {
	switch a.Kind {
	case KindStroke:
		return len(a.Points)
	case KindRectangle:
		return 1
	}
	return 0
}

func (a Action) clone() Action {
	c := a
	if a.Points != nil {
		c.Points = make([]StrokePoint, len(a.Points))
		copy(c.Points, a.Points)
	}
	if a.Rect != nil {
		r := *a.Rect
		c.Rect = &r
	}
	return c
}

// ActionLog is the ordered record of everything drawn since the last clear.
type ActionLog []Action

// Len counts primitives: one per stroke point and one per rectangle.
func (l ActionLog) Len() int {
	n := 0
	for _, a := range l {
		n += a.Len()
	}
	return n
}

// Clone returns a deep copy that shares no memory with l.
func (l ActionLog) Clone() ActionLog {
	if l == nil {
		return nil
	}
	out := make(ActionLog, len(l))
	for i, a := range l {
		out[i] = a.clone()
	}
	return out
}

// Truncate returns a copy holding only the most recent max primitives. When
// the cut falls inside a stroke, the oldest surviving point becomes its start.
func (l ActionLog) Truncate(max int) ActionLog {
	drop := l.Len() - max
	if drop <= 0 {
		return l.Clone()
	}
	out := make(ActionLog, 0, len(l))
	for _, a := range l {
		n := a.Len()
		switch {
		case drop >= n:
			drop -= n
		case drop > 0:
			c := a.clone()
			c.Points = c.Points[drop:]
			drop = 0
			out = append(out, c)
		default:
			out = append(out, a.clone())
		}
	}
	return out
}

// Primitive is the flat form of a single drawing operation, as the browser
// version of the whiteboard stored it.
type Primitive struct {
	Type      string       `json:"type"`
	X         float64      `json:"x,omitempty"`
	Y         float64      `json:"y,omitempty"`
	X1        float64      `json:"x1,omitempty"`
	Y1        float64      `json:"y1,omitempty"`
	X2        float64      `json:"x2,omitempty"`
	Y2        float64      `json:"y2,omitempty"`
	Color     string       `json:"color,omitempty"`
	Width     flexibleSize `json:"width"`
	Timestamp int64        `json:"timestamp"`
}

const (
	PrimStart      = "start"
	PrimLineTo     = "lineTo"
	PrimEraseStart = "erase_start"
	PrimEraseLine  = "erase_line"
	PrimRectangle  = "rectangle"
)

// Primitives flattens l into start/segment/rectangle primitives.
func (l ActionLog) Primitives() []Primitive {
	out := make([]Primitive, 0, l.Len())
	for _, a := range l {
		switch a.Kind {
		case KindStroke:
			start, line := PrimStart, PrimLineTo
			if a.Tool == ToolEraser {
				start, line = PrimEraseStart, PrimEraseLine
			}
			for i, p := range a.Points {
				typ := line
				if i == 0 {
					typ = start
				}
				out = append(out, Primitive{
					Type: typ, X: p.X, Y: p.Y, Color: p.Color,
					Width: flexibleSize(p.Width), Timestamp: p.At.UnixMilli(),
				})
			}
		case KindRectangle:
			r := a.Rect
			if r == nil {
				continue
			}
			out = append(out, Primitive{
				Type: PrimRectangle, X1: r.From.X, Y1: r.From.Y, X2: r.To.X, Y2: r.To.Y,
				Color: r.Color, Width: flexibleSize(r.Width), Timestamp: r.At.UnixMilli(),
			})
		}
	}
	return out
}

// FromPrimitives groups flat primitives back into gestures. A segment with no
// open stroke of its tool starts a new stroke, the way a canvas treats lineTo
// without a current point.
func FromPrimitives(prims []Primitive) (ActionLog, error) {
	var out ActionLog
	open := -1
	for _, p := range prims {
		at := time.UnixMilli(p.Timestamp).UTC()
		pt := StrokePoint{Point: surface.Point{X: p.X, Y: p.Y}, Color: p.Color, Width: float64(p.Width), At: at}
		switch p.Type {
		case PrimStart, PrimEraseStart, PrimLineTo, PrimEraseLine:
			tool := ToolPen
			if p.Type == PrimEraseStart || p.Type == PrimEraseLine {
				tool = ToolEraser
			}
			isStart := p.Type == PrimStart || p.Type == PrimEraseStart
			if isStart || open < 0 || out[open].Tool != tool {
				out = append(out, Action{Kind: KindStroke, Tool: tool})
				open = len(out) - 1
			}
			out[open].Points = append(out[open].Points, pt)
		case PrimRectangle:
			out = append(out, Action{Kind: KindRectangle, Rect: &Rectangle{
				From:  surface.Point{X: p.X1, Y: p.Y1},
				To:    surface.Point{X: p.X2, Y: p.Y2},
				Color: p.Color, Width: float64(p.Width), At: at,
			}})
			open = -1
		default:
			return nil, fmt.Errorf("unknown primitive type %q", p.Type)
		}
	}
	return out, nil
}

// UnmarshalJSON reads both the grouped form this package writes and the flat
// primitive lists saved by the browser version.
func (l *ActionLog) UnmarshalJSON(data []byte) error {
	var probe []struct {
		Kind ActionKind `json:"kind"`
		Type string     `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe) > 0 && probe[0].Kind == "" && probe[0].Type != "" {
		var prims []Primitive
		if err := json.Unmarshal(data, &prims); err != nil {
			return err
		}
		log, err := FromPrimitives(prims)
		if err != nil {
			return err
		}
		*l = log
		return nil
	}
	type grouped []Action
	return json.Unmarshal(data, (*grouped)(l))
}

// flexibleSize decodes widths written either as numbers or as numeric strings.
type flexibleSize float64

func (f *flexibleSize) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		var v float64
		if _, err := fmt.Sscan(s, &v); err != nil {
			return fmt.Errorf("width %q: %w", s, err)
		}
		*f = flexibleSize(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexibleSize(v)
	return nil
}
