// Package apperr defines the sentinel errors shared between the persistence
// layer and the API boundary. Store reductions themselves never return
// errors: targeted mutations on missing ids are silent no-ops.
package apperr

import "errors"

// ErrNotFound marks an absent key in the durable store or a missing entity
// id reported at the API boundary.
var ErrNotFound = errors.New("not found")
