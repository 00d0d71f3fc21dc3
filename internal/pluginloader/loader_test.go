package pluginloader

import (
	"errors"
	"testing"
)

func TestSymbolFor(t *testing.T) {
	if got, want := SymbolFor("routing"), "HarnessPlugin_routing"; got != want {
		t.Errorf("SymbolFor(routing) = %q, want %q", got, want)
	}
}

func TestLoadLibraryNotFound(t *testing.T) {
	l := New(t.TempDir())
	if _, _, err := l.Load("nonexistent"); !errors.Is(err, ErrLibraryNotFound) {
		t.Fatalf("expected ErrLibraryNotFound, got %v", err)
	}
}
