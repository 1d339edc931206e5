package notes

import (
	"reflect"
	"strings"
	"testing"

	"github.com/paniterce/notecraftr/internal/models"
)

func TestAddNote(t *testing.T) {
	state, changed := Reduce(State{}, AddNote{})
	if len(state.Notes) != 1 {
		t.Fatalf("len = %d", len(state.Notes))
	}
	n := state.Notes[0]
	if n.ID != 0 || n.Text != "" || n.Opened {
		t.Errorf("defaults wrong: %+v", n)
	}
	if !strings.HasPrefix(n.BackgroundClass, "card-bg-") {
		t.Errorf("background = %q", n.BackgroundClass)
	}
	if !reflect.DeepEqual(changed, []Slice{SliceNotes}) {
		t.Errorf("changed = %v", changed)
	}
}

func TestAddNoteAllocatesSmallestFreeID(t *testing.T) {
	state := State{Notes: []models.Note{{ID: 0}, {ID: 2}}}
	state, _ = Reduce(state, AddNote{})
	if got := state.Notes[2].ID; got != 1 {
		t.Errorf("id = %d, want 1", got)
	}
}

func TestUpdateNote(t *testing.T) {
	state := State{Notes: []models.Note{{ID: 0, Text: "old"}}}
	state, _ = Reduce(state, UpdateNote{Note: models.Note{ID: 0, Text: "new", Opened: true}})
	if state.Notes[0].Text != "new" || !state.Notes[0].Opened {
		t.Errorf("note = %+v", state.Notes[0])
	}
}

func TestDeleteNote(t *testing.T) {
	state := State{Notes: []models.Note{{ID: 0}, {ID: 1}}}
	state, _ = Reduce(state, DeleteNote{Note: models.Note{ID: 0}})
	if len(state.Notes) != 1 || state.Notes[0].ID != 1 {
		t.Errorf("notes = %+v", state.Notes)
	}
}

func TestDuplicateNote(t *testing.T) {
	src := models.Note{ID: 0, Text: "body", BackgroundClass: "card-bg-3"}
	state := State{Notes: []models.Note{src}}
	state, _ = Reduce(state, DuplicateNote{Note: src})
	if len(state.Notes) != 2 {
		t.Fatalf("len = %d", len(state.Notes))
	}
	dup := state.Notes[1]
	if dup.ID == src.ID {
		t.Error("duplicate reused id")
	}
	if dup.Text != "body" || dup.BackgroundClass != "card-bg-3" {
		t.Errorf("dup = %+v", dup)
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	state := State{Notes: []models.Note{{ID: 0}}}
	for _, a := range []Action{
		UpdateNote{Note: models.Note{ID: 9}},
		DeleteNote{Note: models.Note{ID: 9}},
		DuplicateNote{Note: models.Note{ID: 9}},
	} {
		next, changed := Reduce(state, a)
		if changed != nil || !reflect.DeepEqual(next, state) {
			t.Errorf("%T: expected no-op", a)
		}
	}
}

func TestUpdateNotesBulkReplace(t *testing.T) {
	state := State{Notes: []models.Note{{ID: 0, Opened: true}, {ID: 1, Opened: true}}}
	state, _ = Reduce(state, UpdateNotes{Notes: []models.Note{{ID: 0, Opened: false}}})
	if len(state.Notes) != 1 || state.Notes[0].Opened {
		t.Errorf("notes = %+v", state.Notes)
	}
}

func TestStoreDispatch(t *testing.T) {
	var calls int
	st := NewStore(State{}, func(_ State, _ []Slice) { calls++ })
	st.Dispatch(AddNote{})
	st.Dispatch(DeleteNote{Note: models.Note{ID: 42}}) // no-op
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := Find(st.State(), 0); got == nil {
		t.Error("note 0 missing")
	}
}
