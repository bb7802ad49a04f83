// Package export renders action logs to image files outside the GUI.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

// Options is the canvas an export is drawn on.
type Options struct {
	Width      int
	Height     int
	Background string
}

// Render replays l onto a fresh raster.
func Render(l state.ActionLog, opts Options) (*surface.Raster, error) {
	r, err := surface.NewRaster(opts.Width, opts.Height, opts.Background)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	state.Replay(r, l)
	return r, nil
}

// PNG writes the replayed pixels of l as a PNG image.
func PNG(w io.Writer, l state.ActionLog, opts Options) error {
	r, err := Render(l, opts)
	if err != nil {
		return err
	}
	if err := gg.NewContextForImage(r.Image()).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WriteFile exports l to path, picking PNG or PDF from the extension.
func WriteFile(path string, l state.ActionLog, opts Options) error {
	var write func(io.Writer, state.ActionLog, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = PNG
	case ".pdf":
		write = PDF
	default:
		return fmt.Errorf("unsupported export format %q: use .png or .pdf", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, l, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
