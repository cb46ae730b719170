package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.Set("version/app-a", "1.2.0"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	var got string
	ok, err := s.Get("version/app-a", &got)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got != "1.2.0" {
		t.Errorf("value = %q, want %q", got, "1.2.0")
	}
}

func TestFileStore_MissingKey(t *testing.T) {
	s := NewFileStore(t.TempDir())

	var got string
	ok, err := s.Get("version/nope", &got)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("Get() ok = true for missing key")
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.Set("location/app-a", "/opt/apps/a"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Delete("location/app-a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := s.Delete("location/app-a"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}

	var got string
	if ok, _ := s.Get("location/app-a", &got); ok {
		t.Error("value survived Delete()")
	}
}

func TestFileStore_ToleratesUserEditedJSON(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	// Simulate a hand-edited file with a comment and trailing comma.
	content := "{\n  // custom install root\n  \"baseDir\": \"D:/Games/AppA\",\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "location_app-a.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var got struct {
		BaseDir string `json:"baseDir"`
	}
	ok, err := s.Get("location/app-a", &got)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok || got.BaseDir != "D:/Games/AppA" {
		t.Errorf("got %+v, want the hand-edited baseDir", got)
	}
}

func TestFileStore_KeysByPrefix(t *testing.T) {
	s := NewFileStore(t.TempDir())

	for _, k := range []string{"version/b", "version/a", "location/a"} {
		if err := s.Set(k, "x"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys("version/")
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "version/a" || keys[1] != "version/b" {
		t.Errorf("Keys() = %v, want sorted version/a, version/b", keys)
	}
}

func TestMemStore_RoundTrip(t *testing.T) {
	s := NewMemStore()

	if err := s.Set("channel/app-a", true); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	var pre bool
	ok, err := s.Get("channel/app-a", &pre)
	if err != nil || !ok || !pre {
		t.Errorf("Get() = (%v, %v, %v), want (true, true, nil)", pre, ok, err)
	}

	keys, _ := s.Keys("channel/")
	if len(keys) != 1 {
		t.Errorf("Keys() = %v, want one entry", keys)
	}
}
