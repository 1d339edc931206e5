// Package notes holds the sticky-notes state container. It mirrors the
// editor store's reducer shape for a flat entity list: every mutation
// returns fresh state plus the changed slices, missing ids are no-ops.
package notes

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/paniterce/notecraftr/internal/ident"
	"github.com/paniterce/notecraftr/internal/models"
)

// Slice names a persistable part of the notes state.
type Slice string

// SliceNotes is the single persisted slice of this store.
const SliceNotes Slice = "notes"

// State holds the full notes collection.
type State struct {
	Notes []models.Note
}

// Action is the closed set of notes mutations.
type Action interface {
	isAction()
}

// LoadNotes replaces the whole list (startup seed / external reload).
type LoadNotes struct {
	Notes []models.Note
}

// AddNote appends a fresh empty note with a random background tag.
type AddNote struct{}

// UpdateNote replaces the note with the matching id.
type UpdateNote struct {
	Note models.Note
}

// DeleteNote removes the note with the matching id.
type DeleteNote struct {
	Note models.Note
}

// DuplicateNote clones the note under a newly allocated id.
type DuplicateNote struct {
	Note models.Note
}

// UpdateNotes bulk-replaces the list; used to reconcile opened flags against
// the windows that are actually open.
type UpdateNotes struct {
	Notes []models.Note
}

func (LoadNotes) isAction()     {}
func (AddNote) isAction()       {}
func (UpdateNote) isAction()    {}
func (DeleteNote) isAction()    {}
func (DuplicateNote) isAction() {}
func (UpdateNotes) isAction()   {}

// Reduce applies an action and returns the next state plus changed slices.
func Reduce(state State, action Action) (State, []Slice) {
	switch a := action.(type) {
	case LoadNotes:
		return withNotes(append([]models.Note(nil), a.Notes...))

	case AddNote:
		n := models.Note{
			ID:              ident.Next(noteIDs(state.Notes)),
			Text:            "",
			Opened:          false,
			BackgroundClass: randomBackground(),
		}
		return withNotes(append(cloneNotes(state.Notes), n))

	case UpdateNote:
		i := findNote(state.Notes, a.Note.ID)
		if i < 0 {
			return state, nil
		}
		notes := cloneNotes(state.Notes)
		notes[i] = a.Note
		return withNotes(notes)

	case DeleteNote:
		i := findNote(state.Notes, a.Note.ID)
		if i < 0 {
			return state, nil
		}
		notes := make([]models.Note, 0, len(state.Notes)-1)
		for _, n := range state.Notes {
			if n.ID != a.Note.ID {
				notes = append(notes, n)
			}
		}
		return withNotes(notes)

	case DuplicateNote:
		if findNote(state.Notes, a.Note.ID) < 0 {
			return state, nil
		}
		dup := a.Note
		dup.ID = ident.Next(noteIDs(state.Notes))
		return withNotes(append(cloneNotes(state.Notes), dup))

	case UpdateNotes:
		return withNotes(append([]models.Note(nil), a.Notes...))
	}

	return state, nil
}

// ChangeFunc receives post-reduction state and the changed slices.
type ChangeFunc func(state State, changed []Slice)

// Store owns the notes state and serializes dispatches.
type Store struct {
	mu       sync.Mutex
	state    State
	onChange ChangeFunc
}

// NewStore creates a store seeded with initial state. onChange may be nil.
func NewStore(initial State, onChange ChangeFunc) *Store {
	return &Store{state: initial, onChange: onChange}
}

// Dispatch reduces the action and returns the new state.
func (st *Store) Dispatch(action Action) State {
	st.mu.Lock()
	next, changed := Reduce(st.state, action)
	st.state = next
	cb := st.onChange
	st.mu.Unlock()

	if cb != nil && len(changed) > 0 {
		cb(next, changed)
	}
	return next
}

// State returns the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Find returns the note with the given id, or nil.
func Find(state State, id int) *models.Note {
	if i := findNote(state.Notes, id); i >= 0 {
		n := state.Notes[i]
		return &n
	}
	return nil
}

func withNotes(notes []models.Note) (State, []Slice) {
	return State{Notes: notes}, []Slice{SliceNotes}
}

func cloneNotes(ns []models.Note) []models.Note {
	return append([]models.Note(nil), ns...)
}

func noteIDs(ns []models.Note) []int {
	ids := make([]int, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}

func findNote(ns []models.Note, id int) int {
	for i, n := range ns {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func randomBackground() string {
	return fmt.Sprintf("card-bg-%d", rand.IntN(12)+1)
}
