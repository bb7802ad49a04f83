package ui

import (
	"image"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/fogleman/gg"

	"MyWhiteboard/internal/export"
)

// ExportTo writes the live drawing to w as PNG or PDF, chosen by the file
// name's extension. Anything else is written as PNG.
func (wb *Whiteboard) ExportTo(w io.Writer, name string) error {
	c := wb.cfg.Canvas
	opts := export.Options{Width: c.Width, Height: c.Height, Background: c.Background}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return export.PDF(w, wb.board.Session.Actions(), opts)
	}
	return export.PNG(w, wb.board.Session.Actions(), opts)
}

func (wb *Whiteboard) promptExport() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			wb.showError(err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := wb.ExportTo(w, w.URI().Name()); err != nil {
			wb.showError(err)
			return
		}
		wb.setStatus("Exported " + w.URI().Name())
	}, wb.window)
	d.SetFileName("drawing.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}

// Screenshot captures the whole window, notes included, as a PNG.
func (wb *Whiteboard) Screenshot(w io.Writer) error {
	return encodePNG(w, wb.window.Canvas().Capture())
}

func (wb *Whiteboard) promptScreenshot() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			wb.showError(err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := wb.Screenshot(w); err != nil {
			wb.showError(err)
			return
		}
		wb.setStatus("Screenshot saved to " + w.URI().Name())
	}, wb.window)
	d.SetFileName("whiteboard.png")
	d.Show()
}

func encodePNG(w io.Writer, img image.Image) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}
