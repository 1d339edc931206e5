package editor

import "sync"

// ChangeFunc receives the state after a reduction along with the slices that
// changed. The persistence bridge registers one to mirror state to disk.
type ChangeFunc func(state State, changed []Slice)

// Store owns the editor state. Dispatches are applied one at a time; each
// reduction is atomic with respect to other dispatches, and change callbacks
// fire in dispatch order.
type Store struct {
	mu       sync.Mutex
	state    State
	onChange ChangeFunc
}

// NewStore creates a store seeded with initial state. onChange may be nil.
func NewStore(initial State, onChange ChangeFunc) *Store {
	return &Store{state: initial, onChange: onChange}
}

// Dispatch reduces the action against current state and returns the new
// state. No-op actions produce no change notification.
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

// State returns the current state. Reductions never mutate prior state, so
// the returned value is safe to read concurrently with dispatches.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}
