package storage

import (
	"errors"
	"testing"

	"openenterprise/tinydash/config"
)

func fakeClock(t int64) func() int64 {
	return func() int64 { return t }
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(1000))
	if err := m.Write("notes.txt", []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := m.Read("notes.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestListReflectsWrites(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(42))
	m.Write("a.json", []byte("{}"))
	m.Write("b.log", []byte("boot\n"))

	list, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	for _, f := range list {
		if f.Modified != 42 {
			t.Fatalf("expected Modified=42, got %d", f.Modified)
		}
	}
}

func TestWriteRejectsPathTraversal(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if err := m.Write("../escape.txt", []byte("x")); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestWriteRejectsDisallowedExtension(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if err := m.Write("firmware.exe", []byte("x")); err != ErrDisallowedExt {
		t.Fatalf("expected ErrDisallowedExt, got %v", err)
	}
}

func TestWriteRejectsOversizedFile(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	big := make([]byte, MaxFileSize+1)
	if err := m.Write("big.bin", big); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestWriteRejectsProtectedFile(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if err := m.Write("config.json", []byte("{}")); err != ErrProtected {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
}

func TestDeleteRejectsProtectedFile(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if err := m.Delete("wifi_config.json"); err != ErrProtected {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
}

func TestDeleteRemovesFromIndexAndContent(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(1))
	m.Write("notes.txt", []byte("hi"))
	if err := m.Delete("notes.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Read("notes.txt"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	list, _ := m.List()
	if len(list) != 0 {
		t.Fatalf("expected empty index after delete, got %d", len(list))
	}
}

func TestDeleteMissingFileReturnsNotFound(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if err := m.Delete("ghost.txt"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteOverwritesExistingEntryInPlace(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(5))
	m.Write("a.json", []byte("{}"))
	m.Write("a.json", []byte(`{"x":1}`))

	list, _ := m.List()
	if len(list) != 1 {
		t.Fatalf("expected overwrite to keep a single index entry, got %d", len(list))
	}
	got, _ := m.Read("a.json")
	if string(got) != `{"x":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestValidateFilenameRejectsEmptyAndReservedChars(t *testing.T) {
	cases := []string{"", "a/b.txt", "a\\b.txt", "a..b.txt"}
	for _, name := range cases {
		if err := validateFilename(name); err != ErrInvalidName {
			t.Fatalf("validateFilename(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestReadMissingFileReturnsNotFound(t *testing.T) {
	m := NewManager(&config.MemStore{}, fakeClock(0))
	if _, err := m.Read("nope.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexRoundTripsThroughSerialization(t *testing.T) {
	in := []Info{
		{Name: "a.json", Size: 2, Modified: 100},
		{Name: "b.log", Size: 10, Modified: -5},
	}
	raw := serializeIndex(in)
	out, err := deserializeIndex(raw)
	if err != nil {
		t.Fatalf("deserializeIndex: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
