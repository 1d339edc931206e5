package persist

import (
	"reflect"
	"testing"
	"time"

	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/kvstore"
	"github.com/paniterce/notecraftr/internal/models"
	"github.com/paniterce/notecraftr/internal/notes"
	"github.com/paniterce/notecraftr/internal/settings"
	"github.com/paniterce/notecraftr/internal/testutil"
	"github.com/paniterce/notecraftr/internal/textfiltr"
)

func TestBridgeEditorRoundTrip(t *testing.T) {
	p := testutil.DiskvProvider(t)

	when := models.At(time.Date(2024, time.January, 5, 13, 37, 42, 0, time.UTC))
	state := editor.State{
		Templates: []models.Template{{
			ID:     0,
			Title:  "Standup",
			Active: true,
			Sections: []models.Section{
				{
					ID: 0, TemplateID: 0, Title: "Greeting", Type: models.TypeSingle,
					Active: true, LinkedID: models.NoLink,
					SingleTextValue: "Hello", BackgroundClass: "card-bg-3",
				},
				{
					ID: 1, TemplateID: 0, Title: "Date", Type: models.TypeDate,
					Active: true, LinkedID: models.NoLink,
					DateValue: when, DateFormat: "DD/MM/YYYY",
				},
			},
		}},
		SectionsFilter: "gre",
		PreviewVisible: true,
	}

	b := NewBridge(p, nil, testutil.Logger())
	b.SaveEditor(state, []editor.Slice{
		editor.SliceTemplates, editor.SliceSectionsFilter, editor.SlicePreviewVisible,
	})
	b.Close()

	got := NewBridge(p, nil, testutil.Logger()).LoadEditor()
	if got.SectionsFilter != "gre" || !got.PreviewVisible {
		t.Fatalf("flags: filter=%q preview=%v", got.SectionsFilter, got.PreviewVisible)
	}
	if len(got.Templates) != 1 || len(got.Templates[0].Sections) != 2 {
		t.Fatalf("unexpected templates: %+v", got.Templates)
	}
	sec := got.Templates[0].Sections[1]
	if sec.DateValue == nil || !sec.DateValue.Equal(when.Time) {
		t.Fatalf("date value lost: %+v", sec.DateValue)
	}
	got.Templates[0].Sections[1].DateValue = state.Templates[0].Sections[1].DateValue
	if !reflect.DeepEqual(got.Templates, state.Templates) {
		t.Fatalf("templates changed across round trip:\n got %+v\nwant %+v", got.Templates, state.Templates)
	}
}

func TestBridgeDefaultsWhenAbsent(t *testing.T) {
	p := testutil.DiskvProvider(t)
	b := NewBridge(p, nil, testutil.Logger())
	defer b.Close()

	if got := b.LoadEditor(); len(got.Templates) != 0 || got.SectionsFilter != "" || got.PreviewVisible {
		t.Fatalf("editor defaults: %+v", got)
	}
	if got := b.LoadNotes(); len(got.Notes) != 0 {
		t.Fatalf("notes defaults: %+v", got)
	}
	if got := b.LoadTextFiltr(); got.TargetText != textfiltr.DefaultTargetText || got.FilterNumbers {
		t.Fatalf("textfiltr defaults: %+v", got)
	}
	if got := b.LoadSettings(); got.Theme != settings.DefaultTheme || got.AddonsEnabled {
		t.Fatalf("settings defaults: %+v", got)
	}
}

func TestBridgeDefaultsWhenMalformed(t *testing.T) {
	p := testutil.DiskvProvider(t)
	if err := p.Set(kvstore.KeyTemplates, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := p.Set(kvstore.KeyTheme, []byte(`["wrong","shape"]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := NewBridge(p, nil, testutil.Logger())
	defer b.Close()

	if got := b.LoadTemplates(); len(got) != 0 {
		t.Fatalf("expected empty templates, got %+v", got)
	}
	if got := b.LoadSettings().Theme; got != settings.DefaultTheme {
		t.Fatalf("expected default theme, got %+v", got)
	}
}

func TestBridgeWritesInDispatchOrder(t *testing.T) {
	p := testutil.DiskvProvider(t)
	b := NewBridge(p, nil, testutil.Logger())

	for i := range 20 {
		b.SaveNotes(notes.State{Notes: []models.Note{{ID: i, Text: "v", Width: 100, Height: 100}}}, []notes.Slice{notes.SliceNotes})
	}
	b.Close()

	got := NewBridge(p, nil, testutil.Logger()).LoadNotes()
	if len(got.Notes) != 1 || got.Notes[0].ID != 19 {
		t.Fatalf("expected last snapshot to win, got %+v", got.Notes)
	}
}

func TestBridgeMarksTracker(t *testing.T) {
	p := testutil.DiskvProvider(t)
	tr := kvstore.NewTracker()
	b := NewBridge(p, tr, testutil.Logger())

	b.SaveTextFiltr(textfiltr.State{FilterNumbers: true}, []textfiltr.Slice{textfiltr.SliceFilterNumbers})
	b.Close()

	data, err := p.Get(kvstore.KeyFilterNumbers)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tr.Changed(kvstore.KeyFilterNumbers, data) {
		t.Fatal("own write should be marked as seen")
	}
}
