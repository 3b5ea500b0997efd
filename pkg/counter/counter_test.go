// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the visitor counter store.

package counter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRead_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "visitor_count.txt"))
	if got := s.Read(); got != 0 {
		t.Fatalf("missing file should read 0, got %d", got)
	}
}

func TestRead_CorruptContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a number", "forty-two"},
		{"empty", ""},
		{"float", "3.14"},
		{"negative", "-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "visitor_count.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if got := New(path).Read(); got != 0 {
				t.Errorf("corrupt content %q should read 0, got %d", tt.content, got)
			}
		})
	}
}

func TestRead_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitor_count.txt")
	if err := os.WriteFile(path, []byte("41\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if got := New(path).Read(); got != 41 {
		t.Fatalf("got %d, want 41", got)
	}
}

func TestIncrement_Sequential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visitor_count.txt")
	if err := os.WriteFile(path, []byte("10"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := New(path)
	const n = 5
	for i := 0; i < n; i++ {
		if _, err := s.Increment(); err != nil {
			t.Fatalf("Increment %d: %v", i, err)
		}
	}
	if got := s.Read(); got != 10+n {
		t.Fatalf("after %d increments got %d, want %d", n, got, 10+n)
	}

	// The file holds the bare integer, no trailing structure.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "15" {
		t.Errorf("file content %q, want %q", data, "15")
	}
}

func TestIncrement_WriteFailure(t *testing.T) {
	// Pointing the store at a directory makes the write fail.
	s := New(t.TempDir())
	_, err := s.Increment()

	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected *WriteError, got %v", err)
	}
}
