package testutil

import (
	"archive/zip"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// onePixelPNG is a valid 1x1 PNG used as page content.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// PNGBytes returns the bytes of a valid 1x1 PNG image.
func PNGBytes(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(onePixelPNG)
	if err != nil {
		t.Fatalf("Failed to decode test PNG: %v", err)
	}
	return data
}

// CreateTestCBZ creates a CBZ file at dir/name holding the given entries.
// Image entries receive a real 1x1 PNG so covers can be thumbnailed;
// other entries are written empty. Intermediate directories are created.
func CreateTestCBZ(t *testing.T, dir, name string, pages []string) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		t.Fatalf("Failed to create directory for cbz: %v", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		t.Fatalf("Failed to create temp cbz file: %v", err)
	}
	defer file.Close()

	png := PNGBytes(t)
	zipWriter := zip.NewWriter(file)
	for _, page := range pages {
		w, err := zipWriter.Create(page)
		if err != nil {
			t.Fatalf("Failed to create entry '%s' in zip: %v", page, err)
		}
		if strings.HasSuffix(strings.ToLower(page), ".png") || strings.HasSuffix(strings.ToLower(page), ".jpg") {
			if _, err := w.Write(png); err != nil {
				t.Fatalf("Failed to write entry '%s': %v", page, err)
			}
		}
	}
	if err := zipWriter.Close(); err != nil {
		t.Fatalf("Failed to finalize cbz: %v", err)
	}
	return filePath
}
