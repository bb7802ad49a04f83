package state

import "MyWhiteboard/internal/surface"

// Replay clears surf and redraws every action of l in order. Each stroke
// segment is drawn in the composite mode of its tool with the colour and
// width recorded on its end point, the same way the segment was drawn live.
// Replay always leaves surf in paint mode with no open path.
func Replay(surf surface.Surface, l ActionLog) {
	surf.ClosePath()
	surf.SetComposite(surface.Paint)
	surf.FillBackground()

	for _, a := range l {
		switch a.Kind {
		case KindStroke:
			replayStroke(surf, a)
		case KindRectangle:
			if a.Rect == nil {
				continue
			}
			surf.SetComposite(surface.Paint)
			surf.SetStrokeStyle(a.Rect.Color, a.Rect.Width)
			surf.StrokeRect(a.Rect.From, a.Rect.To)
		}
	}

	surf.ClosePath()
	surf.SetComposite(surface.Paint)
}

func replayStroke(surf surface.Surface, a Action) {
	if len(a.Points) == 0 {
		return
	}
	first := a.Points[0]
	surf.SetComposite(a.Tool.Composite())
	surf.SetStrokeStyle(first.Color, first.Width)

	prev := first.Point
	for _, p := range a.Points[1:] {
		surf.SetStrokeStyle(p.Color, p.Width)
		surf.BeginPath()
		surf.MoveTo(prev)
		surf.LineTo(p.Point)
		surf.Stroke()
		prev = p.Point
	}
	surf.ClosePath()
	surf.SetComposite(surface.Paint)
}
