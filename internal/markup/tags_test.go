package markup

import (
	"errors"
	"testing"
)

func TestTagTableRoundTrip(t *testing.T) {
	table := NewTagTable()
	lines := []string{
		"ID:gun1",
		"  Title :  Super Gun  ",
		"Description: Fires: fast",
		"Title:Second title",
	}
	var errs []error
	for _, line := range lines {
		tag, value, err := ParseHeaderLine(line)
		if err == nil {
			err = table.Set(tag, value)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) != 1 || !errors.Is(errs[0], ErrDuplicateTag) {
		t.Fatalf("expected a single duplicate tag error, got %v", errs)
	}
	want := map[string]string{
		"ID":          "gun1",
		"Title":       "Super Gun",
		"Description": "Fires: fast",
	}
	if table.Len() != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), table.Len())
	}
	for tag, value := range want {
		got, ok := table.Get(tag)
		if !ok || got != value {
			t.Fatalf("tag %s: got %q, want %q", tag, got, value)
		}
	}
	if order := table.Tags(); order[0] != "ID" || order[2] != "Description" {
		t.Fatalf("unexpected declaration order %v", order)
	}

	table.Reset()
	if table.Len() != 0 || table.Has("ID") {
		t.Fatalf("expected reset table to be empty")
	}
}

func TestParseHeaderLineErrors(t *testing.T) {
	if _, _, err := ParseHeaderLine("no colon here"); !errors.Is(err, ErrMalformedTag) {
		t.Fatalf("expected ErrMalformedTag, got %v", err)
	}
	if _, _, err := ParseHeaderLine("   :value"); !errors.Is(err, ErrBlankTag) {
		t.Fatalf("expected ErrBlankTag, got %v", err)
	}
	if err := NewTagTable().Set(" ", "x"); !errors.Is(err, ErrBlankTag) {
		t.Fatalf("expected ErrBlankTag from Set, got %v", err)
	}
}

func TestTagsAreCaseSensitive(t *testing.T) {
	table := NewTagTable()
	if err := table.Set("id", "lower"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := table.Set("ID", "upper"); err != nil {
		t.Fatalf("expected distinct tags, got %v", err)
	}
	if table.GetOr("Id", "fallback") != "fallback" {
		t.Fatalf("expected fallback for unknown casing")
	}
}
