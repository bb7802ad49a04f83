package state

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Board ties a live drawing session to the saved-drawing archive.
type Board struct {
	Session *Session
	Archive *Archive
	logger  *log.Logger
}

func NewBoard(session *Session, archive *Archive, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{Session: session, Archive: archive, logger: logger}
}

// DefaultName is the name offered when prompting for a save.
func (b *Board) DefaultName(ctx context.Context) (string, error) {
	list, err := b.Archive.List(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Drawing %d", len(list)+1), nil
}

// Save stores the live action log under name. The live drawing is untouched;
// call StartFresh afterwards to begin a new one.
func (b *Board) Save(ctx context.Context, name string) (SavedDrawing, error) {
	return b.Archive.Save(ctx, name, b.Session.log)
}

// StartFresh drops the live drawing after a save.
func (b *Board) StartFresh() {
	b.Session.Clear()
}

// LoadByID replaces the live drawing with a saved one.
func (b *Board) LoadByID(ctx context.Context, id int64) (SavedDrawing, error) {
	d, err := b.Archive.Get(ctx, id)
	if err != nil {
		return SavedDrawing{}, err
	}
	b.Session.Replay(d.Actions)
	b.logger.Info("drawing loaded", "id", d.ID, "name", d.Name)
	return d, nil
}

// DeleteByID removes a saved drawing. The live drawing is not affected.
func (b *Board) DeleteByID(ctx context.Context, id int64) error {
	return b.Archive.Delete(ctx, id)
}

// AutoLoad restores the last archive entry in storage order, if any, for
// session recovery on startup.
func (b *Board) AutoLoad(ctx context.Context) (SavedDrawing, bool, error) {
	d, ok, err := b.Archive.Latest(ctx)
	if err != nil || !ok {
		return SavedDrawing{}, false, err
	}
	b.Session.Replay(d.Actions)
	b.logger.Info("session recovered", "name", d.Name, "actions", d.ActionCount)
	return d, true, nil
}
