package history

import (
	"path/filepath"
	"slices"
	"testing"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestAddAndRecent(t *testing.T) {
	s, _ := openStore(t)
	for _, line := range []string{"var a = 1.", "", "  ", "print(a).", "print(a).", "a / 0."} {
		if err := s.Add(line, line == "a / 0."); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"var a = 1.", "print(a).", "a / 0."}
	if !slices.Equal(Lines(got), want) {
		t.Fatalf("lines = %q, want %q", Lines(got), want)
	}
	if !got[2].Failed || got[0].Failed {
		t.Fatalf("failed flags = %v %v", got[0].Failed, got[2].Failed)
	}

	last, err := s.Recent(1)
	if err != nil || len(last) != 1 || last[0].Line != "a / 0." {
		t.Fatalf("Recent(1) = %v, %v", last, err)
	}
}

func TestSearchEscapesWildcards(t *testing.T) {
	s, _ := openStore(t)
	for _, line := range []string{"var x_1 = 1.", "var xa1 = 2.", "print(100%)."} {
		if err := s.Add(line, false); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Search("x_1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(Lines(got), []string{"var x_1 = 1."}) {
		t.Fatalf("search = %q", Lines(got))
	}
	got, _ = s.Search("%", 10)
	if len(got) != 1 {
		t.Fatalf("search %% = %q", Lines(got))
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	s, path := openStore(t)
	if err := s.Add("var kept = 1.", false); err != nil {
		t.Fatal(err)
	}
	s.Close()

	again, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	got, err := again.Recent(5)
	if err != nil || len(got) != 1 || got[0].Line != "var kept = 1." {
		t.Fatalf("reopened history = %v, %v", got, err)
	}
	if err := again.Clear(); err != nil {
		t.Fatal(err)
	}
	if got, _ := again.Recent(5); len(got) != 0 {
		t.Fatalf("clear left %d lines", len(got))
	}
}
