// Package textfiltr holds the text-filtering add-on state: a target text and
// a set of character-class toggles, with a derived filtered output.
package textfiltr

import (
	"strings"
	"sync"
	"unicode"
)

// Slice names a persistable part of the filter state.
type Slice string

// Textfiltr slices, one per persisted key.
const (
	SliceTargetText     Slice = "targetText"
	SliceFilterNumbers  Slice = "filterNumbers"
	SliceFilterLetters  Slice = "filterLetters"
	SliceFilterSpecial  Slice = "filterSpecialCharacters"
	SliceFilterSpaces   Slice = "filterSpaces"
	SlicePreviewVisible Slice = "previewVisible"
)

// DefaultTargetText seeds a fresh install.
const DefaultTargetText = "Toggle any filter to change me.. 1, 2, 3, go!"

// State is the full filter state.
type State struct {
	TargetText              string
	FilterNumbers           bool
	FilterLetters           bool
	FilterSpecialCharacters bool
	FilterSpaces            bool
	PreviewVisible          bool
}

// Action is the closed set of filter mutations.
type Action interface {
	isAction()
}

// UpdateTargetText replaces the text being filtered.
type UpdateTargetText struct{ Text string }

// UpdateFilterNumbers toggles digit stripping.
type UpdateFilterNumbers struct{ Enabled bool }

// UpdateFilterLetters toggles letter stripping.
type UpdateFilterLetters struct{ Enabled bool }

// UpdateFilterSpecialCharacters toggles stripping of everything that is not
// a letter, digit, or space.
type UpdateFilterSpecialCharacters struct{ Enabled bool }

// UpdateFilterSpaces toggles whitespace stripping.
type UpdateFilterSpaces struct{ Enabled bool }

// UpdatePreviewVisible toggles the preview flag.
type UpdatePreviewVisible struct{ Enabled bool }

func (UpdateTargetText) isAction()              {}
func (UpdateFilterNumbers) isAction()           {}
func (UpdateFilterLetters) isAction()           {}
func (UpdateFilterSpecialCharacters) isAction() {}
func (UpdateFilterSpaces) isAction()            {}
func (UpdatePreviewVisible) isAction()          {}

// Reduce applies an action and reports the changed slice.
func Reduce(state State, action Action) (State, []Slice) {
	switch a := action.(type) {
	case UpdateTargetText:
		state.TargetText = a.Text
		return state, []Slice{SliceTargetText}
	case UpdateFilterNumbers:
		state.FilterNumbers = a.Enabled
		return state, []Slice{SliceFilterNumbers}
	case UpdateFilterLetters:
		state.FilterLetters = a.Enabled
		return state, []Slice{SliceFilterLetters}
	case UpdateFilterSpecialCharacters:
		state.FilterSpecialCharacters = a.Enabled
		return state, []Slice{SliceFilterSpecial}
	case UpdateFilterSpaces:
		state.FilterSpaces = a.Enabled
		return state, []Slice{SliceFilterSpaces}
	case UpdatePreviewVisible:
		state.PreviewVisible = a.Enabled
		return state, []Slice{SlicePreviewVisible}
	}
	return state, nil
}

// Output derives the filtered text: every enabled toggle strips its
// character class from the target text.
func Output(state State) string {
	if !state.FilterNumbers && !state.FilterLetters &&
		!state.FilterSpecialCharacters && !state.FilterSpaces {
		return state.TargetText
	}
	var b strings.Builder
	b.Grow(len(state.TargetText))
	for _, r := range state.TargetText {
		switch {
		case state.FilterNumbers && unicode.IsDigit(r):
		case state.FilterLetters && unicode.IsLetter(r):
		case state.FilterSpaces && unicode.IsSpace(r):
		case state.FilterSpecialCharacters &&
			!unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ChangeFunc receives post-reduction state and the changed slices.
type ChangeFunc func(state State, changed []Slice)

// Store owns the filter state and serializes dispatches.
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
