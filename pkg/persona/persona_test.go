package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistrySeedsDefaults(t *testing.T) {
	r := NewRegistry()
	chars := r.List()
	if len(chars) == 0 {
		t.Fatal("expected compiled-in characters")
	}
	if chars[0].ID != DefaultCharacterID {
		t.Fatalf("expected %q first, got %q", DefaultCharacterID, chars[0].ID)
	}
	for _, c := range chars {
		if c.SystemPrompt == "" || c.IntroMessage == "" {
			t.Fatalf("character %q missing prompt or intro", c.ID)
		}
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	got := r.Get("no-such-character")
	if got.ID != DefaultCharacterID {
		t.Fatalf("expected default character, got %q", got.ID)
	}
	if r.Get("").ID != DefaultCharacterID {
		t.Fatal("empty id must resolve to the default character")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	doc := `characters:
  - id: luna
    name: Luna
    description: Moon-focused reader
    systemPrompt: You are Luna, a lunar astrologer.
    introMessage: Namaste! Luna here.
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chars := r.List()
	if len(chars) != 1 || chars[0].ID != "luna" {
		t.Fatalf("unexpected registry contents: %+v", chars)
	}

	// The stock default is gone; unknown ids resolve to the first
	// declared character.
	if got := r.Get("missing"); got.ID != "luna" {
		t.Fatalf("expected fallback to first declared character, got %q", got.ID)
	}
}

func TestLoadFileKeepsOldSnapshotOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	if err := os.WriteFile(path, []byte("characters: [this is not valid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	before := len(r.List())
	if err := r.LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
	if len(r.List()) != before {
		t.Fatal("failed load must keep the previous snapshot")
	}

	if err := r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
	if len(r.List()) != before {
		t.Fatal("failed load must keep the previous snapshot")
	}
}

func TestLoadFileRejectsIncompleteCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	doc := `characters:
  - id: ""
    name: Nameless
    systemPrompt: prompt
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err == nil {
		t.Fatal("expected validation error for missing id")
	}
}
