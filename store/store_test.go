package store

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "designs.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGet(t *testing.T) {
	s := open(t)

	d, err := s.Save("  Contoso Dark Theme ", "token-1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.Name != "Contoso Dark Theme" || d.Slug != "contoso-dark-theme" || d.Token != "token-1" {
		t.Errorf("Save() = %+v", d)
	}
	if d.ID.Version() != 7 {
		t.Errorf("id version = %d", d.ID.Version())
	}

	for _, ref := range []string{d.ID.String(), "contoso dark theme", "Contoso-Dark-Theme"} {
		got, err := s.Get(ref)
		if err != nil {
			t.Errorf("Get(%q): %v", ref, err)
			continue
		}
		if got.ID != d.ID {
			t.Errorf("Get(%q) returned %s", ref, got.ID)
		}
	}

	if _, err := s.Get("nothing here"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := open(t)

	first, err := s.Save("Theme", "old")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save("theme", "new")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || !second.Created.Equal(first.Created) {
		t.Errorf("identity changed: %+v -> %+v", first, second)
	}
	if second.Token != "new" || second.Name != "theme" {
		t.Errorf("Save() = %+v", second)
	}
	list, err := s.List()
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d designs, %v", len(list), err)
	}
}

func TestSaveBadName(t *testing.T) {
	s := open(t)
	for _, name := range []string{"", "   ", "!!!"} {
		if _, err := s.Save(name, "x"); !errors.Is(err, ErrBadName) {
			t.Errorf("Save(%q) error = %v", name, err)
		}
	}
}

func TestListNaturalOrder(t *testing.T) {
	s := open(t)
	for _, name := range []string{"theme 10", "theme 2", "theme 1", "alpha"} {
		if _, err := s.Save(name, name); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "theme 1", "theme 2", "theme 10"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d designs", len(list))
	}
	for i, d := range list {
		if d.Name != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, d.Name, want[i])
		}
	}
}

func TestDelete(t *testing.T) {
	s := open(t)
	d, err := s.Save("gone", "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(d.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "designs.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save("kept", "token"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	s, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if d, err := s.Get("kept"); err != nil || d.Token != "token" {
		t.Errorf("Get after reopen = %+v, %v", d, err)
	}
}

func TestMemory(t *testing.T) {
	s, err := Open(":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Save("x", "y"); err != nil {
		t.Error(err)
	}
}

func TestClosed(t *testing.T) {
	s := open(t)
	if _, err := s.Save("kept", "token"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Save("late", "token"); !errors.Is(err, ErrClosed) {
		t.Errorf("Save after Close error = %v", err)
	}
	if _, err := s.Get("kept"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close error = %v", err)
	}
	if _, err := s.List(); !errors.Is(err, ErrClosed) {
		t.Errorf("List after Close error = %v", err)
	}
	if err := s.Delete("kept"); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete after Close error = %v", err)
	}
}
