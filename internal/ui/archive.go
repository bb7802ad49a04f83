package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MyWhiteboard/internal/state"
)

// showArchive lists the saved drawings with load and delete buttons.
func (wb *Whiteboard) showArchive() {
	list, err := wb.board.Archive.List(wb.ctx)
	if err != nil {
		wb.showError(err)
		return
	}
	if len(list) == 0 {
		dialog.ShowInformation("Saved drawings", "No saved drawings yet.", wb.window)
		return
	}

	var d *dialog.CustomDialog
	var rows *widget.List
	rows = widget.NewList(
		func() int { return len(list) },
		func() fyne.CanvasObject {
			name := widget.NewLabel("name")
			name.TextStyle = fyne.TextStyle{Bold: true}
			info := widget.NewLabel("info")
			load := widget.NewButtonWithIcon("Load", theme.FolderOpenIcon(), nil)
			del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			return container.NewBorder(nil, nil, nil, container.NewHBox(load, del), container.NewVBox(name, info))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			entry := list[i]
			row := o.(*fyne.Container)
			labels := row.Objects[0].(*fyne.Container)
			labels.Objects[0].(*widget.Label).SetText(entry.Name)
			labels.Objects[1].(*widget.Label).SetText(entry.Summary())

			buttons := row.Objects[1].(*fyne.Container)
			buttons.Objects[0].(*widget.Button).OnTapped = func() {
				if err := wb.LoadDrawing(entry.ID); err != nil {
					wb.showError(err)
					return
				}
				d.Hide()
			}
			buttons.Objects[1].(*widget.Button).OnTapped = func() {
				wb.confirmDelete(entry, func() {
					list = removeDrawing(list, entry.ID)
					rows.Refresh()
					if len(list) == 0 {
						d.Hide()
					}
				})
			}
		},
	)

	d = dialog.NewCustom("Saved drawings", "Close", rows, wb.window)
	d.Resize(fyne.NewSize(420, 360))
	d.Show()
}

func (wb *Whiteboard) confirmDelete(entry state.SavedDrawing, done func()) {
	msg := fmt.Sprintf("Delete %q? This cannot be undone.", entry.Name)
	dialog.ShowConfirm("Delete drawing", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := wb.DeleteDrawing(entry.ID); err != nil {
			wb.showError(err)
			return
		}
		done()
	}, wb.window)
}

func removeDrawing(list []state.SavedDrawing, id int64) []state.SavedDrawing {
	out := list[:0:0]
	for _, d := range list {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}
