// Package settings holds the persisted user settings slice: theme and the
// behavior toggles consumed by the shell (auto-copy, add-ons, linked
// sections).
package settings

import "sync"

// Slice names a persistable settings field.
type Slice string

// Settings slices, one per persisted key.
const (
	SliceTheme                    Slice = "theme"
	SliceAddonsEnabled            Slice = "addonsEnabled"
	SliceAutoCopyOnTemplateChange Slice = "autoCopyOnTemplateChange"
	SliceAutoCopyOnOutputChange   Slice = "autoCopyOnOutputChange"
	SliceLinkedSectionsEnabled    Slice = "linkedSectionsEnabled"
)

// Theme is the cosmetic theme selection.
type Theme struct {
	Theme string `json:"theme"`
	Color string `json:"color"`
}

// DefaultTheme is applied on a fresh install.
var DefaultTheme = Theme{Theme: "light", Color: "pink"}

// State is the full settings state.
type State struct {
	Theme                    Theme
	AddonsEnabled            bool
	AutoCopyOnTemplateChange bool
	AutoCopyOnOutputChange   bool
	LinkedSectionsEnabled    bool
}

// Action is the closed set of settings mutations.
type Action interface {
	isAction()
}

// UpdateTheme replaces the theme selection.
type UpdateTheme struct{ Theme Theme }

// UpdateAddonsEnabled toggles the add-on views.
type UpdateAddonsEnabled struct{ Enabled bool }

// UpdateAutoCopyOnTemplateChange toggles clipboard copy on template switch.
type UpdateAutoCopyOnTemplateChange struct{ Enabled bool }

// UpdateAutoCopyOnOutputChange toggles clipboard copy on output change.
type UpdateAutoCopyOnOutputChange struct{ Enabled bool }

// UpdateLinkedSectionsEnabled toggles the linked-sections feature.
type UpdateLinkedSectionsEnabled struct{ Enabled bool }

func (UpdateTheme) isAction()                    {}
func (UpdateAddonsEnabled) isAction()            {}
func (UpdateAutoCopyOnTemplateChange) isAction() {}
func (UpdateAutoCopyOnOutputChange) isAction()   {}
func (UpdateLinkedSectionsEnabled) isAction()    {}

// Reduce applies an action and reports the changed slice.
func Reduce(state State, action Action) (State, []Slice) {
	switch a := action.(type) {
	case UpdateTheme:
		state.Theme = a.Theme
		return state, []Slice{SliceTheme}
	case UpdateAddonsEnabled:
		state.AddonsEnabled = a.Enabled
		return state, []Slice{SliceAddonsEnabled}
	case UpdateAutoCopyOnTemplateChange:
		state.AutoCopyOnTemplateChange = a.Enabled
		return state, []Slice{SliceAutoCopyOnTemplateChange}
	case UpdateAutoCopyOnOutputChange:
		state.AutoCopyOnOutputChange = a.Enabled
		return state, []Slice{SliceAutoCopyOnOutputChange}
	case UpdateLinkedSectionsEnabled:
		state.LinkedSectionsEnabled = a.Enabled
		return state, []Slice{SliceLinkedSectionsEnabled}
	}
	return state, nil
}

// ChangeFunc receives post-reduction state and the changed slices.
type ChangeFunc func(state State, changed []Slice)

// Store owns the settings state and serializes dispatches.
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
