package editor

import (
	"testing"

	"github.com/paniterce/notecraftr/internal/models"
)

func TestStoreDispatchNotifiesChanges(t *testing.T) {
	var gotSlices [][]Slice
	st := NewStore(State{}, func(_ State, changed []Slice) {
		gotSlices = append(gotSlices, changed)
	})

	st.Dispatch(CreateDefaultTemplate{})
	st.Dispatch(UpdateSectionFilter{Filter: "x"})
	// No-op must not notify.
	st.Dispatch(DeleteTemplate{Template: models.Template{ID: 99}})

	if len(gotSlices) != 2 {
		t.Fatalf("notifications = %d, want 2", len(gotSlices))
	}
	if gotSlices[0][0] != SliceTemplates || gotSlices[1][0] != SliceSectionsFilter {
		t.Errorf("slices = %v", gotSlices)
	}
}

func TestStoreStateReflectsDispatches(t *testing.T) {
	st := NewStore(State{}, nil)
	st.Dispatch(CreateDefaultTemplate{})
	state := st.State()
	if len(state.Templates) != 1 || state.Templates[0].Title != "Default Template" {
		t.Errorf("state = %+v", state)
	}
}
