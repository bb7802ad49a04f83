package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"MyWhiteboard/internal/storage"
)

var (
	// ErrEmptyLog is returned when saving a drawing with nothing drawn.
	ErrEmptyLog = errors.New("no drawing to save")

	// ErrNameRequired is returned when saving without a name.
	ErrNameRequired = errors.New("a drawing needs a name")

	// ErrNotFound is returned when an archive entry id does not exist.
	ErrNotFound = errors.New("saved drawing not found")
)

// DefaultMaxActions is how many primitives a saved drawing keeps.
const DefaultMaxActions = 500

// SavedDrawing is a named capture of an action log.
type SavedDrawing struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Actions     ActionLog `json:"actions"`
	SavedAt     time.Time `json:"saved_at"`
	ActionCount int       `json:"action_count"`
}

// UnmarshalJSON also reads entries saved by the browser version, which used
// "savedAt" with a locale string and "actionCount".
func (d *SavedDrawing) UnmarshalJSON(data []byte) error {
	type plain SavedDrawing
	var v struct {
		plain
		LegacySavedAt string `json:"savedAt"`
		LegacyCount   int    `json:"actionCount"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = SavedDrawing(v.plain)
	if d.SavedAt.IsZero() {
		d.SavedAt = LegacyTime(v.LegacySavedAt, d.ID)
	}
	if d.ActionCount == 0 {
		d.ActionCount = v.LegacyCount
	}
	if d.ActionCount == 0 {
		d.ActionCount = d.Actions.Len()
	}
	return nil
}

// Summary is the one-line description shown in drawing lists.
func (d SavedDrawing) Summary() string {
	return fmt.Sprintf("%s (%d actions)", d.SavedAt.Local().Format("2006-01-02 15:04:05"), d.ActionCount)
}

// Archive is the persisted, append-ordered list of saved drawings. The whole
// list is rewritten on every change.
type Archive struct {
	store      storage.Store
	clock      *Clock
	maxActions int
	logger     *log.Logger
}

// NewArchive creates an archive over store. maxActions caps how many
// primitives each save keeps; zero or less means DefaultMaxActions.
func NewArchive(store storage.Store, clock *Clock, maxActions int, logger *log.Logger) *Archive {
	if clock == nil {
		clock = NewClock(nil)
	}
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Archive{store: store, clock: clock, maxActions: maxActions, logger: logger}
}

func (a *Archive) MaxActions() int { return a.maxActions }

// List returns every saved drawing in storage order.
func (a *Archive) List(ctx context.Context) ([]SavedDrawing, error) {
	var list []SavedDrawing
	if _, err := storage.LoadJSON(ctx, a.store, storage.DrawingsKey, &list); err != nil {
		return nil, err
	}
	for _, d := range list {
		a.clock.Observe(d.ID)
	}
	return list, nil
}

// Get returns the drawing with the given id.
func (a *Archive) Get(ctx context.Context, id int64) (SavedDrawing, error) {
	list, err := a.List(ctx)
	if err != nil {
		return SavedDrawing{}, err
	}
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return SavedDrawing{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Save appends a copy of the most recent primitives of l under name.
func (a *Archive) Save(ctx context.Context, name string, l ActionLog) (SavedDrawing, error) {
	if l.Len() == 0 {
		return SavedDrawing{}, ErrEmptyLog
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedDrawing{}, ErrNameRequired
	}

	list, err := a.List(ctx)
	if err != nil {
		return SavedDrawing{}, err
	}
	kept := l.Truncate(a.maxActions)
	d := SavedDrawing{
		ID:          a.clock.NextID(),
		Name:        name,
		Actions:     kept,
		SavedAt:     a.clock.Now(),
		ActionCount: kept.Len(),
	}
	list = append(list, d)
	if err := storage.SaveJSON(ctx, a.store, storage.DrawingsKey, list); err != nil {
		return SavedDrawing{}, err
	}
	a.logger.Info("drawing saved", "id", d.ID, "name", d.Name, "actions", d.ActionCount)
	return SavedDrawing{
		ID: d.ID, Name: d.Name, Actions: kept.Clone(), SavedAt: d.SavedAt, ActionCount: d.ActionCount,
	}, nil
}

// Delete removes the drawing with the given id.
func (a *Archive) Delete(ctx context.Context, id int64) error {
	list, err := a.List(ctx)
	if err != nil {
		return err
	}
	kept := make([]SavedDrawing, 0, len(list))
	for _, d := range list {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := storage.SaveJSON(ctx, a.store, storage.DrawingsKey, kept); err != nil {
		return err
	}
	a.logger.Info("drawing deleted", "id", id)
	return nil
}

// Latest returns the last entry in storage order, which is the most recently
// appended one.
func (a *Archive) Latest(ctx context.Context) (SavedDrawing, bool, error) {
	list, err := a.List(ctx)
	if err != nil || len(list) == 0 {
		return SavedDrawing{}, false, err
	}
	return list[len(list)-1], true, nil
}
