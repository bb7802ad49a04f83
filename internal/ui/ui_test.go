package ui

import (
	"bytes"
	"context"
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MyWhiteboard/internal/cli"
	"MyWhiteboard/internal/config"
	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/storage"
)

func newTestEnv(store storage.Store) *cli.Env {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 64, 48
	cfg.Storage.Driver = "memory"
	return &cli.Env{Config: cfg, Store: store, Logger: log.New(io.Discard)}
}

func newTestWhiteboard(t *testing.T, store storage.Store) *Whiteboard {
	t.Helper()
	a := test.NewTempApp(t)
	w := a.NewWindow("test")
	wb, err := NewWhiteboard(context.Background(), a, w, newTestEnv(store))
	require.NoError(t, err)
	w.SetContent(wb.Content())
	return wb
}

func press(b *BoardWidget, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	})
}

func drag(b *BoardWidget, x, y float32) {
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func release(b *BoardWidget, x, y float32) {
	b.MouseUp(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	})
	b.DragEnd()
}

func TestBoardWidgetRecordsGesture(t *testing.T) {
	wb := newTestWhiteboard(t, storage.NewMemory())
	b := wb.canvas
	b.SetColor("red")
	b.SetStroke(2)

	press(b, 5, 5)
	drag(b, 20, 5)
	drag(b, 20, 20)
	drag(b, 40, 20)
	release(b, 40, 20)

	s := wb.board.Session
	assert.Equal(t, 4, s.ActionCount())
	assert.Equal(t, 1, s.SnapshotCount(), "MouseUp then DragEnd is one gesture")
	assert.Equal(t, "red", s.Actions()[0].Points[0].Color)
	assert.Equal(t, "4 actions, 1 undo steps", wb.status.Text)

	wb.Undo()
	assert.Equal(t, 0, s.SnapshotCount())
	assert.Equal(t, 4, s.ActionCount())
}

func TestBoardWidgetMouseOutCancels(t *testing.T) {
	wb := newTestWhiteboard(t, storage.NewMemory())
	b := wb.canvas

	press(b, 5, 5)
	drag(b, 30, 30)
	b.MouseOut()
	assert.False(t, wb.board.Session.Drawing())
	assert.Equal(t, 0, wb.board.Session.SnapshotCount())

	drag(b, 40, 40)
	assert.Equal(t, 2, wb.board.Session.ActionCount(), "drags after leaving are ignored")
}

func TestBoardWidgetRectangleMode(t *testing.T) {
	wb := newTestWhiteboard(t, storage.NewMemory())
	b := wb.canvas
	b.SetRectangleMode()
	require.True(t, b.RectangleMode())

	press(b, 10, 10)
	drag(b, 20, 20)
	release(b, 40, 30)

	actions := wb.board.Session.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, state.KindRectangle, actions[0].Kind)
	assert.Equal(t, 40.0, actions[0].Rect.To.X)

	b.SetTool(state.ToolEraser)
	assert.False(t, b.RectangleMode())
	assert.Equal(t, state.ToolEraser, b.Pen().Tool)
}

func TestSaveLoadAndAutoLoad(t *testing.T) {
	store := storage.NewMemory()
	wb := newTestWhiteboard(t, store)

	_, err := wb.SaveAs("empty")
	assert.ErrorIs(t, err, state.ErrEmptyLog)

	press(wb.canvas, 5, 5)
	drag(wb.canvas, 30, 5)
	release(wb.canvas, 30, 5)
	d, err := wb.SaveAs("Sketch#1")
	require.NoError(t, err)
	assert.Equal(t, 2, d.ActionCount)

	wb.StartFresh()
	assert.Equal(t, 0, wb.board.Session.ActionCount())
	require.NoError(t, wb.LoadDrawing(d.ID))
	assert.Equal(t, 2, wb.board.Session.ActionCount())

	restarted := newTestWhiteboard(t, store)
	assert.Equal(t, 0, restarted.board.Session.ActionCount())
	restarted.AutoLoad()
	assert.Equal(t, 2, restarted.board.Session.ActionCount())
	assert.Equal(t, `Restored "Sketch#1"`, restarted.status.Text)

	require.NoError(t, restarted.DeleteDrawing(d.ID))
	assert.ErrorIs(t, restarted.DeleteDrawing(d.ID), state.ErrNotFound)
	assert.Equal(t, 2, restarted.board.Session.ActionCount(), "deleting leaves the board alone")
}

func TestNotesPanel(t *testing.T) {
	store := storage.NewMemory()
	wb := newTestWhiteboard(t, store)
	p := wb.panel
	assert.True(t, p.empty.Visible())

	test.Type(p.input, "Buy milk")
	test.Tap(p.add)
	test.Type(p.input, "call Ana")
	p.input.OnSubmitted(p.input.Text)

	require.Len(t, p.Shown(), 2)
	assert.Equal(t, "call Ana", p.Shown()[0].Text)
	assert.Empty(t, p.input.Text)
	assert.False(t, p.empty.Visible())

	test.Type(p.search, "MILK")
	require.Len(t, p.Shown(), 1)
	milk := p.Shown()[0]

	require.NoError(t, p.Edit(milk.ID, "buy oat milk"))
	assert.Equal(t, "buy oat milk", p.Shown()[0].Text)
	require.NoError(t, p.Delete(milk.ID))
	assert.Empty(t, p.Shown())
	assert.True(t, p.empty.Visible())

	p.search.SetText("")
	p.Filter()
	assert.Len(t, p.Shown(), 1)

	reopened := newTestWhiteboard(t, store)
	assert.Len(t, reopened.panel.Shown(), 1, "notes are loaded on startup")
}

func TestExportAndScreenshot(t *testing.T) {
	wb := newTestWhiteboard(t, storage.NewMemory())
	press(wb.canvas, 5, 5)
	drag(wb.canvas, 30, 30)
	release(wb.canvas, 30, 30)

	var png bytes.Buffer
	require.NoError(t, wb.ExportTo(&png, "drawing.png"))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var pdf bytes.Buffer
	require.NoError(t, wb.ExportTo(&pdf, "drawing.PDF"))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))

	var shot bytes.Buffer
	require.NoError(t, wb.Screenshot(&shot))
	assert.True(t, bytes.HasPrefix(shot.Bytes(), []byte("\x89PNG")))
}

func TestToggleDark(t *testing.T) {
	wb := newTestWhiteboard(t, storage.NewMemory())
	before := isDark(wb.app)
	wb.ToggleDark()
	assert.Equal(t, !before, isDark(wb.app))
	wb.ToggleDark()
	assert.Equal(t, before, isDark(wb.app))
}

func TestSaveHintWarnsAboutTruncation(t *testing.T) {
	a := test.NewTempApp(t)
	env := newTestEnv(storage.NewMemory())
	env.Config.Drawing.MaxActions = 3
	wb, err := NewWhiteboard(context.Background(), a, a.NewWindow("test"), env)
	require.NoError(t, err)

	press(wb.canvas, 5, 5)
	drag(wb.canvas, 20, 5)
	release(wb.canvas, 20, 5)
	assert.Empty(t, wb.saveHint())

	press(wb.canvas, 5, 20)
	drag(wb.canvas, 20, 20)
	drag(wb.canvas, 30, 20)
	release(wb.canvas, 30, 20)
	assert.Equal(t, "Only the last 3 of 5 actions are kept", wb.saveHint())

	d, err := wb.SaveAs("long")
	require.NoError(t, err)
	assert.Equal(t, 3, d.ActionCount)
}
