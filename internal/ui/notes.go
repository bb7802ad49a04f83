package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"MyWhiteboard/internal/notes"
)

// NotesPanel is the sticky-notes column: an add box, a search box and the
// filtered list.
type NotesPanel struct {
	wb *Whiteboard

	input  *widget.Entry
	add    *widget.Button
	search *widget.Entry
	list   *widget.List
	empty  *widget.Label

	shown []notes.Note
}

func NewNotesPanel(wb *Whiteboard) *NotesPanel {
	p := &NotesPanel{wb: wb}

	p.input = widget.NewEntry()
	p.input.SetPlaceHolder("Add a note")
	p.input.OnSubmitted = func(string) { p.Add() }
	p.add = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), p.Add)

	p.search = widget.NewEntry()
	p.search.SetPlaceHolder("Search notes")
	p.search.OnChanged = func(string) { p.Filter() }

	p.empty = widget.NewLabel("No notes yet. Add one above!")
	p.empty.Alignment = fyne.TextAlignCenter

	p.list = widget.NewList(
		func() int { return len(p.shown) },
		func() fyne.CanvasObject {
			text := widget.NewLabel("note")
			text.Truncation = fyne.TextTruncateEllipsis
			when := widget.NewLabel("when")
			when.TextStyle = fyne.TextStyle{Italic: true}
			edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil)
			del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			return container.NewBorder(nil, nil, nil, container.NewHBox(edit, del), container.NewVBox(text, when))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			n := p.shown[i]
			row := o.(*fyne.Container)
			labels := row.Objects[0].(*fyne.Container)
			labels.Objects[0].(*widget.Label).SetText(n.Text)
			labels.Objects[1].(*widget.Label).SetText(noteTime(n))

			buttons := row.Objects[1].(*fyne.Container)
			buttons.Objects[0].(*widget.Button).OnTapped = func() { p.promptEdit(n) }
			buttons.Objects[1].(*widget.Button).OnTapped = func() { p.confirmDelete(n) }
		},
	)

	p.Filter()
	return p
}

func (p *NotesPanel) Content() fyne.CanvasObject {
	top := container.NewVBox(
		widget.NewLabelWithStyle("Notes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, p.add, p.input),
		p.search,
	)
	return container.NewBorder(top, nil, nil, nil, container.NewStack(p.list, p.empty))
}

// Shown is the notes currently listed, after the search filter.
func (p *NotesPanel) Shown() []notes.Note { return p.shown }

// Add stores the text typed in the add box.
func (p *NotesPanel) Add() {
	if _, err := p.wb.notes.Add(p.wb.ctx, p.input.Text); err != nil {
		p.wb.showError(err)
		return
	}
	p.input.SetText("")
	p.Filter()
}

func (p *NotesPanel) Edit(id int64, text string) error {
	if _, err := p.wb.notes.Edit(p.wb.ctx, id, text); err != nil {
		return err
	}
	p.Filter()
	return nil
}

func (p *NotesPanel) Delete(id int64) error {
	if err := p.wb.notes.Delete(p.wb.ctx, id); err != nil {
		return err
	}
	p.Filter()
	return nil
}

// Filter re-applies the search box to the note store.
func (p *NotesPanel) Filter() {
	p.shown = p.wb.notes.Search(p.search.Text)
	if len(p.shown) == 0 {
		p.empty.Show()
	} else {
		p.empty.Hide()
	}
	p.list.Refresh()
}

func (p *NotesPanel) promptEdit(n notes.Note) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(n.Text)
	items := []*widget.FormItem{widget.NewFormItem("Note", entry)}
	dialog.ShowForm("Edit note", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if err := p.Edit(n.ID, entry.Text); err != nil {
			p.wb.showError(err)
		}
	}, p.wb.window)
}

func (p *NotesPanel) confirmDelete(n notes.Note) {
	dialog.ShowConfirm("Delete note", "Are you sure you want to delete this note?", func(ok bool) {
		if !ok {
			return
		}
		if err := p.Delete(n.ID); err != nil {
			p.wb.showError(err)
		}
	}, p.wb.window)
}

func noteTime(n notes.Note) string {
	if n.CreatedAt.IsZero() {
		return ""
	}
	return n.CreatedAt.Local().Format("2006-01-02 15:04")
}
