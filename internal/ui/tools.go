package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

// palette is the swatch row, in the colour strings the action log records.
var palette = []string{"black", "red", "green", "blue", "yellow"}

type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill, err := surface.ParseColor(s.Color)
	if err != nil {
		fill = color.Black
	}
	rect := canvas.NewRectangle(fill)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the drawing toolbar: tools, colours, width and the
// board and file actions.
func NewToolbar(wb *Whiteboard) fyne.CanvasObject {
	board := wb.canvas
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			board.SetTool(state.ToolPen)
			wb.setStatus("Pen")
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			board.SetTool(state.ToolEraser)
			wb.setStatus("Eraser")
		}),
		widget.NewToolbarAction(theme.CheckButtonIcon(), func() {
			board.SetRectangleMode()
			wb.setStatus("Rectangle: press at one corner, release at the other")
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), wb.Undo),
		widget.NewToolbarAction(theme.DeleteIcon(), wb.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), wb.promptSave),
		widget.NewToolbarAction(theme.FolderOpenIcon(), wb.showArchive),
		widget.NewToolbarAction(theme.DownloadIcon(), wb.promptExport),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), wb.promptScreenshot),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), wb.ToggleDark),
	)

	onColorTapped := func(c string) {
		board.SetColor(c)
		wb.setStatus("Colour " + c)
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(board.Pen().Width)
	strokeSlider.OnChanged = board.SetStroke
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
