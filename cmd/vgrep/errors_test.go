package main

import (
	"errors"
	"os"
	"testing"
)

func TestUsageErrorUnwrap(t *testing.T) {
	err := &UsageError{Err: ErrMissingPattern}
	if !errors.Is(err, ErrMissingPattern) {
		t.Fatal("errors.Is(err, ErrMissingPattern) = false, want true")
	}
	if got, want := err.Error(), "vgrep: a pattern argument is required"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestIOErrorUnwrapAndFormat(t *testing.T) {
	underlying := os.ErrNotExist
	err := &IOError{Path: "missing.txt", Err: underlying}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("errors.Is(err, os.ErrNotExist) = false, want true")
	}
	if got, want := err.Error(), "vgrep: missing.txt: file does not exist"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	noPath := &IOError{Err: underlying}
	if got, want := noPath.Error(), "vgrep: file does not exist"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
