package export

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

var opts = Options{Width: 64, Height: 48, Background: "white"}

func sampleLog() state.ActionLog {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sp := func(x, y float64, c string, w float64) state.StrokePoint {
		return state.StrokePoint{Point: surface.Point{X: x, Y: y}, Color: c, Width: w, At: at}
	}
	return state.ActionLog{
		{Kind: state.KindStroke, Tool: state.ToolPen, Points: []state.StrokePoint{
			sp(5, 5, "red", 3), sp(40, 5, "red", 3), sp(40, 30, "red", 3),
		}},
		{Kind: state.KindStroke, Tool: state.ToolEraser, Points: []state.StrokePoint{
			sp(20, 0, "red", 6), sp(20, 20, "red", 6),
		}},
		{Kind: state.KindRectangle, Rect: &state.Rectangle{
			From: surface.Point{X: 50, Y: 40}, To: surface.Point{X: 10, Y: 35}, Color: "#0000ff", Width: 2, At: at,
		}},
	}
}

func TestPNGMatchesReplay(t *testing.T) {
	// opaque only: partially erased pixels do not survive premultiplication exactly
	l := state.ActionLog{sampleLog()[0], sampleLog()[2]}
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, l, opts))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	got := image.NewRGBA(decoded.Bounds())
	draw.Draw(got, got.Bounds(), decoded, image.Point{}, draw.Src)

	want, err := Render(l, opts)
	require.NoError(t, err)
	assert.Equal(t, want.Image().(*image.RGBA).Pix, got.Pix)
}

func TestPNGKeepsErasedTransparent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sampleLog(), opts))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	_, _, _, a := decoded.At(20, 10).RGBA()
	assert.Zero(t, a)
	_, _, _, a = decoded.At(60, 20).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestPNGBadBackground(t *testing.T) {
	err := PNG(&bytes.Buffer{}, nil, Options{Width: 4, Height: 4, Background: "nope"})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sampleLog(), opts))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err := PDF(&bytes.Buffer{}, sampleLog(), Options{Width: 4, Height: 4, Background: "nope"})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "board.PNG")
	require.NoError(t, WriteFile(pngPath, sampleLog(), opts))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)

	pdfPath := filepath.Join(dir, "board.pdf")
	require.NoError(t, WriteFile(pdfPath, sampleLog(), opts))
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	assert.Error(t, WriteFile(filepath.Join(dir, "board.svg"), sampleLog(), opts))
}
