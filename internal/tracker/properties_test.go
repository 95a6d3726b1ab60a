package tracker_test

import (
	"reflect"
	"testing"

	"lectern/internal/tracker"
)

func TestGetIsCaseInsensitive(t *testing.T) {
	props := tracker.RawProperties{
		"Fahrplan.Title":   "Talk A",
		"Record.Language":  "de",
		"Fahrplan.Room":    "",
		"EncodingProfile.IsMaster": "yes",
	}

	if v, ok := props.Get("fahrplan.title"); !ok || v != "Talk A" {
		t.Fatalf("Get(fahrplan.title) = %q, %v", v, ok)
	}
	if v, ok := props.Get("RECORD.LANGUAGE"); !ok || v != "de" {
		t.Fatalf("Get(RECORD.LANGUAGE) = %q, %v", v, ok)
	}
	// Present-but-empty is distinct from absent.
	if v, ok := props.Get("Fahrplan.Room"); !ok || v != "" {
		t.Fatalf("Get(Fahrplan.Room) = %q, %v", v, ok)
	}
	if _, ok := props.Get("Fahrplan.Track"); ok {
		t.Fatal("expected absent key")
	}
}

func TestKeysSorted(t *testing.T) {
	props := tracker.RawProperties{"b": "2", "a": "1", "c": "3"}
	want := []string{"a", "b", "c"}
	if got := props.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestCloneDetaches(t *testing.T) {
	props := tracker.RawProperties{"a": "1"}
	cp := props.Clone()
	cp["a"] = "2"
	if props["a"] != "1" {
		t.Fatal("clone aliases original map")
	}
}
