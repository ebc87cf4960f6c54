package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestSaveFileGeneratesUniqueNames(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	first, err := storage.SaveFile(makeFileHeader(t, "notes.pdf", "first"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	second, err := storage.SaveFile(makeFileHeader(t, "notes.pdf", "second"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if first == second {
		t.Fatalf("two uploads of the same filename stored under one name: %q", first)
	}
	if !strings.HasSuffix(first, ".pdf") || !strings.HasSuffix(second, ".pdf") {
		t.Errorf("extension not preserved: %q, %q", first, second)
	}

	for stored, want := range map[string]string{first: "first", second: "second"} {
		data, err := os.ReadFile(storage.GetFullPath(stored))
		if err != nil {
			t.Fatalf("reading %q: %v", stored, err)
		}
		if string(data) != want {
			t.Errorf("%q = %q, want %q", stored, data, want)
		}
	}
}

func TestDeleteFileIdempotent(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	stored, err := storage.SaveFile(makeFileHeader(t, "notes.pdf", "bytes"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if err := storage.DeleteFile(stored); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	// A second delete of the same name is a no-op, not an error
	if err := storage.DeleteFile(stored); err != nil {
		t.Errorf("repeat DeleteFile: %v", err)
	}
	if err := storage.DeleteFile(""); err != nil {
		t.Errorf("empty name DeleteFile: %v", err)
	}
}

func TestGetFullPathSanitizesName(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	got := storage.GetFullPath("../../etc/passwd")
	if got != filepath.Join(base, "passwd") {
		t.Errorf("path = %q, traversal must be reduced to the base name", got)
	}
}
