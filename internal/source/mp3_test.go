// ABOUTME: Tests for the MP3 frame source
// ABOUTME: Verifies error handling for missing and malformed files
package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMP3MissingFile(t *testing.T) {
	if _, err := OpenMP3("/nonexistent/file.mp3"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestOpenMP3MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mp3")
	if err := os.WriteFile(path, []byte("this is not an mp3 stream"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	if _, err := OpenMP3(path); err == nil {
		t.Error("expected an error for a malformed file")
	}
}
