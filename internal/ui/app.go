// Package ui is the fyne front end: the drawing board, its toolbar, the
// saved-drawings browser and the notes panel.
package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"MyWhiteboard/internal/cli"
	"MyWhiteboard/internal/config"
	"MyWhiteboard/internal/notes"
	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

const appID = "io.github.mywhiteboard"

// Whiteboard is one open whiteboard window and everything it drives.
type Whiteboard struct {
	ctx    context.Context
	app    fyne.App
	window fyne.Window
	cfg    *config.Config
	logger *log.Logger

	board  *state.Board
	notes  *notes.Store
	canvas *BoardWidget
	panel  *NotesPanel
	status *widget.Label
}

// Run opens the whiteboard window and blocks until it is closed.
func Run(ctx context.Context, env *cli.Env) error {
	a := app.NewWithID(appID)
	w := a.NewWindow("Whiteboard")

	wb, err := NewWhiteboard(ctx, a, w, env)
	if err != nil {
		return err
	}
	wb.AutoLoad()

	w.SetContent(wb.Content())
	w.Resize(fyne.NewSize(float32(env.Config.Canvas.Width)+340, float32(env.Config.Canvas.Height)+80))
	w.ShowAndRun()
	return nil
}

// NewWhiteboard wires a board session, the archive and the note store to
// window w. Notes are loaded here; the drawing is left blank.
func NewWhiteboard(ctx context.Context, a fyne.App, w fyne.Window, env *cli.Env) (*Whiteboard, error) {
	cfg := env.Config
	raster, err := surface.NewRaster(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.Background)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	clock := state.NewClock(nil)
	session := state.NewSession(raster, cfg.Drawing.UndoDepth, clock, env.Logger.WithPrefix("session"))
	archive := state.NewArchive(env.Store, clock, cfg.Drawing.MaxActions, env.Logger.WithPrefix("archive"))

	wb := &Whiteboard{
		ctx:    ctx,
		app:    a,
		window: w,
		cfg:    cfg,
		logger: env.Logger.WithPrefix("ui"),
		board:  state.NewBoard(session, archive, env.Logger.WithPrefix("board")),
		notes:  notes.New(env.Store, clock, env.Logger.WithPrefix("notes")),
		status: widget.NewLabel("Ready"),
	}
	if err := wb.notes.Load(ctx); err != nil {
		return nil, err
	}

	pen := state.Pen{Tool: state.ToolPen, Color: cfg.Drawing.Color, Width: cfg.Drawing.Width}
	wb.canvas = NewBoardWidget(wb.board, raster, pen)
	wb.canvas.OnChanged = wb.updateStatus
	wb.panel = NewNotesPanel(wb)
	return wb, nil
}

// Content lays out the toolbar, the board and the notes panel.
func (wb *Whiteboard) Content() fyne.CanvasObject {
	board := container.NewScroll(container.NewVBox(wb.canvas))
	split := container.NewHSplit(board, wb.panel.Content())
	split.Offset = 0.75
	return container.NewBorder(NewToolbar(wb), wb.status, nil, nil, split)
}

// AutoLoad restores the most recently saved drawing, if any.
func (wb *Whiteboard) AutoLoad() {
	d, ok, err := wb.board.AutoLoad(wb.ctx)
	if err != nil {
		wb.logger.Error("auto-load failed", "err", err)
		wb.setStatus("Could not restore the last drawing: " + err.Error())
		return
	}
	if ok {
		wb.canvas.Refresh()
		wb.setStatus(fmt.Sprintf("Restored %q", d.Name))
	}
}

func (wb *Whiteboard) Undo() {
	wb.board.Session.Undo()
	wb.canvas.Refresh()
	wb.updateStatus()
}

func (wb *Whiteboard) Clear() {
	wb.board.Session.Clear()
	wb.canvas.Refresh()
	wb.setStatus("Cleared")
}

// SaveAs stores the live drawing under name.
func (wb *Whiteboard) SaveAs(name string) (state.SavedDrawing, error) {
	d, err := wb.board.Save(wb.ctx, name)
	if err != nil {
		return state.SavedDrawing{}, err
	}
	wb.setStatus(fmt.Sprintf("Saved %q (%d actions)", d.Name, d.ActionCount))
	return d, nil
}

func (wb *Whiteboard) StartFresh() {
	wb.board.StartFresh()
	wb.canvas.Refresh()
	wb.updateStatus()
}

func (wb *Whiteboard) LoadDrawing(id int64) error {
	d, err := wb.board.LoadByID(wb.ctx, id)
	if err != nil {
		return err
	}
	wb.canvas.Refresh()
	wb.setStatus(fmt.Sprintf("Loaded %q", d.Name))
	return nil
}

func (wb *Whiteboard) DeleteDrawing(id int64) error {
	if err := wb.board.DeleteByID(wb.ctx, id); err != nil {
		return err
	}
	wb.setStatus("Drawing deleted")
	return nil
}

// promptSave asks for a name, saves, then offers to start a new drawing.
func (wb *Whiteboard) promptSave() {
	if wb.board.Session.ActionCount() == 0 {
		dialog.ShowInformation("Nothing to save", state.ErrEmptyLog.Error(), wb.window)
		return
	}
	name := widget.NewEntry()
	if def, err := wb.board.DefaultName(wb.ctx); err == nil {
		name.SetText(def)
	}
	item := widget.NewFormItem("Name", name)
	item.HintText = wb.saveHint()
	items := []*widget.FormItem{item}
	dialog.ShowForm("Save drawing", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if _, err := wb.SaveAs(name.Text); err != nil {
			wb.showError(err)
			return
		}
		dialog.ShowConfirm("Drawing saved", "Clear the board and start a new drawing?", func(fresh bool) {
			if fresh {
				wb.StartFresh()
			}
		}, wb.window)
	}, wb.window)
}

// saveHint warns when a save will drop the oldest actions.
func (wb *Whiteboard) saveHint() string {
	n, max := wb.board.Session.ActionCount(), wb.board.Archive.MaxActions()
	if n <= max {
		return ""
	}
	return fmt.Sprintf("Only the last %d of %d actions are kept", max, n)
}

// ToggleDark flips the app theme between light and dark.
func (wb *Whiteboard) ToggleDark() {
	next := newVariantTheme(theme.VariantDark)
	if isDark(wb.app) {
		next = newVariantTheme(theme.VariantLight)
	}
	wb.app.Settings().SetTheme(next)
}

func (wb *Whiteboard) showError(err error) {
	wb.logger.Warn("action failed", "err", err)
	switch {
	case errors.Is(err, state.ErrEmptyLog), errors.Is(err, state.ErrNameRequired),
		errors.Is(err, notes.ErrEmptyText):
		dialog.ShowInformation("Whiteboard", err.Error(), wb.window)
	default:
		dialog.ShowError(err, wb.window)
	}
}

func (wb *Whiteboard) setStatus(text string) {
	wb.status.SetText(text)
}

func (wb *Whiteboard) updateStatus() {
	s := wb.board.Session
	wb.setStatus(fmt.Sprintf("%d actions, %d undo steps", s.ActionCount(), s.SnapshotCount()))
}
