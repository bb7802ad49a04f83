// Package notes is the sticky-notes list shown beside the board. Notes are
// kept newest first and the whole list is written back on every change.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/storage"
)

var (
	// ErrEmptyText is returned when adding or editing a note with no text.
	ErrEmptyText = errors.New("note text is empty")

	// ErrNotFound is returned when a note id does not exist.
	ErrNotFound = errors.New("note not found")
)

type Note struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalJSON also accepts notes written by the browser version, whose
// timestamp is a locale string under "createdAt".
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var v struct {
		plain
		LegacyCreatedAt string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Note(v.plain)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = state.LegacyTime(v.LegacyCreatedAt, n.ID)
	}
	return nil
}

// Store holds the notes in memory and mirrors them to a storage.Store.
type Store struct {
	store  storage.Store
	clock  *state.Clock
	logger *log.Logger
	notes  []Note
}

func New(store storage.Store, clock *state.Clock, logger *log.Logger) *Store {
	if clock == nil {
		clock = state.NewClock(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{store: store, clock: clock, logger: logger}
}

// Load replaces the in-memory list with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	var list []Note
	if _, err := storage.LoadJSON(ctx, s.store, storage.NotesKey, &list); err != nil {
		return err
	}
	for _, n := range list {
		s.clock.Observe(n.ID)
	}
	s.notes = list
	s.logger.Debug("notes loaded", "count", len(list))
	return nil
}

// All returns every note, newest first.
func (s *Store) All() []Note {
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Store) Get(id int64) (Note, error) {
	i := s.index(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.notes[i], nil
}

// Add puts a new note at the front of the list.
func (s *Store) Add(ctx context.Context, text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyText
	}
	n := Note{ID: s.clock.NextID(), Text: text, CreatedAt: s.clock.Now()}

	next := make([]Note, 0, len(s.notes)+1)
	next = append(next, n)
	next = append(next, s.notes...)
	if err := s.persist(ctx, next); err != nil {
		return Note{}, err
	}
	s.logger.Info("note added", "id", n.ID)
	return n, nil
}

// Edit replaces a note's text and refreshes its timestamp. The note keeps its
// place in the list.
func (s *Store) Edit(ctx context.Context, id int64, text string) (Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, ErrEmptyText
	}
	i := s.index(id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	next := s.All()
	next[i].Text = text
	next[i].CreatedAt = s.clock.Now()
	if err := s.persist(ctx, next); err != nil {
		return Note{}, err
	}
	s.logger.Info("note edited", "id", id)
	return next[i], nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	next := make([]Note, 0, len(s.notes)-1)
	next = append(next, s.notes[:i]...)
	next = append(next, s.notes[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("note deleted", "id", id)
	return nil
}

// Search returns the notes whose text contains query, ignoring case.
// An empty query matches every note.
func (s *Store) Search(query string) []Note {
	if query == "" {
		return s.All()
	}
	fold := cases.Fold()
	q := fold.String(query)
	var out []Note
	for _, n := range s.notes {
		if strings.Contains(fold.String(n.Text), q) {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) index(id int64) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// persist writes next and only then makes it the current list, so a failed
// write leaves the store unchanged.
func (s *Store) persist(ctx context.Context, next []Note) error {
	if err := storage.SaveJSON(ctx, s.store, storage.NotesKey, next); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	s.notes = next
	return nil
}
