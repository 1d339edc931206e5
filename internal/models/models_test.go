package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTemplateJSONRoundTrip(t *testing.T) {
	when := At(time.Date(2024, time.March, 9, 8, 15, 30, 0, time.UTC))
	in := Template{
		ID:     2,
		Title:  "Daily Report",
		Active: true,
		Sections: []Section{
			{
				ID: 0, TemplateID: 2, Title: "Date", Type: TypeDate,
				Active: true, LinkedID: NoLink,
				DateValue: when, DateFormat: "Do MMMM YYYY",
			},
			{
				ID: 1, TemplateID: 2, Title: "Mood", Type: TypeMultiple,
				Active: true, Linked: true, LinkedID: 1,
				Options:           []string{"good", "bad"},
				MultipleTextValue: []string{"good"},
				Separator:         ", ",
				BackgroundClass:   "card-bg-7",
			},
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Template
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Title != in.Title || !out.Active {
		t.Fatalf("template fields changed: %+v", out)
	}
	if len(out.Sections) != 2 {
		t.Fatalf("sections = %+v", out.Sections)
	}
	if out.Sections[0].DateValue == nil || !out.Sections[0].DateValue.Equal(when.Time) {
		t.Fatalf("date value = %v, want %v", out.Sections[0].DateValue, when)
	}
	if got := out.Sections[1]; !got.Linked || got.LinkedID != 1 || got.Separator != ", " {
		t.Fatalf("section fields changed: %+v", got)
	}
}

func TestSectionJSONTags(t *testing.T) {
	data, err := json.Marshal(Section{ID: 3, TemplateID: 1, Type: TypeInput, LinkedID: NoLink})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"id":3`, `"templateId":1`, `"type":"input"`, `"linkedId":-1`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded section missing %s: %s", key, data)
		}
	}
}

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2024-01-05T13:37:42Z"`, time.Date(2024, 1, 5, 13, 37, 42, 0, time.UTC)},
		{"rfc3339 nano", `"2024-01-05T13:37:42.25Z"`, time.Date(2024, 1, 5, 13, 37, 42, 250000000, time.UTC)},
		{"unix millis", `1704461862000`, time.UnixMilli(1704461862000)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Time
			if err := json.Unmarshal([]byte(tc.raw), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTimeUnmarshalMalformedFallsBack(t *testing.T) {
	before := time.Now()
	var got Time
	if err := json.Unmarshal([]byte(`"not a date"`), &got); err != nil {
		t.Fatalf("unmarshal should not fail: %v", err)
	}
	if got.Before(before) || got.After(time.Now()) {
		t.Fatalf("expected current-time fallback, got %v", got)
	}
}

func TestSectionTypeValid(t *testing.T) {
	for _, st := range []SectionType{TypeSingle, TypeMultiple, TypeInput, TypeDate} {
		if !st.Valid() {
			t.Errorf("%q should be valid", st)
		}
	}
	if SectionType("checkbox").Valid() {
		t.Error("unknown type should be invalid")
	}
}

func TestTemplateClone(t *testing.T) {
	in := Template{ID: 1, Title: "T", Sections: []Section{{ID: 0, Options: []string{"a"}}}}
	cp := in.Clone()
	cp.Sections[0].Options[0] = "b"
	cp.Sections[0].Title = "changed"
	if in.Sections[0].Options[0] != "a" || in.Sections[0].Title != "" {
		t.Fatalf("clone shares memory with original: %+v", in.Sections[0])
	}
}
