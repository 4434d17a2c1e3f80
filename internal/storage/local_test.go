package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Tiny but valid JPEG header so MIME sniffing sees an image.
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

func writeOriginal(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLocalReadWrite(t *testing.T) {
	t.Parallel()

	store := NewLocal(t.TempDir(), "")
	ctx := context.Background()

	if err := store.WriteFile(ctx, "exports/run_imagelist.csv", []byte("filename\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := store.ReadFile(ctx, "exports/run_imagelist.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "filename\n" {
		t.Fatalf("read back %q", data)
	}

	_, err = store.ReadFile(ctx, "missing.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file should yield fs.ErrNotExist, got %v", err)
	}
}

func TestLocalCopyImage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	originals := filepath.Join(root, "originals")
	writeOriginal(t, originals, "HGB_1_001_002_001.jpg", jpegBytes)

	store := NewLocal(root, "")
	ctx := context.Background()

	result, err := store.CopyImage(ctx, "HGB_1_001_002_001.jpg", "run_selected_sample")
	if err != nil {
		t.Fatalf("CopyImage: %v", err)
	}
	if result.Filename != "HGB_1_001_002_001.jpg" {
		t.Fatalf("result filename = %q", result.Filename)
	}
	if result.Size != int64(len(jpegBytes)) {
		t.Fatalf("result size = %d, want %d", result.Size, len(jpegBytes))
	}
	if result.MIMEType != "image/jpeg" {
		t.Fatalf("result mime = %q, want image/jpeg", result.MIMEType)
	}
	if len(result.Checksum) != 64 {
		t.Fatalf("checksum %q is not a 256-bit hex digest", result.Checksum)
	}

	copied, err := os.ReadFile(filepath.Join(root, "run_selected_sample", "HGB_1_001_002_001.jpg"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(copied) != string(jpegBytes) {
		t.Fatal("copy differs from original")
	}

	// Copying again into the same destination must not fail.
	if _, err := store.CopyImage(ctx, "HGB_1_001_002_001.jpg", "run_selected_sample"); err != nil {
		t.Fatalf("second CopyImage: %v", err)
	}
}

func TestLocalCopyImage_NestedOriginals(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeOriginal(t, filepath.Join(root, "originals", "HGB_1_001_002"), "HGB_1_001_002_001.jpg", jpegBytes)

	store := NewLocal(root, "")
	if _, err := store.CopyImage(context.Background(), "HGB_1_001_002_001.jpg", "dest"); err != nil {
		t.Fatalf("CopyImage from nested directory: %v", err)
	}
}

func TestLocalCopyImage_NotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeOriginal(t, filepath.Join(root, "originals"), "other.jpg", jpegBytes)

	store := NewLocal(root, "")
	_, err := store.CopyImage(context.Background(), "HGB_1_001_002_001.jpg", "dest")
	if !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestLocalCopyImage_Ambiguous(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeOriginal(t, filepath.Join(root, "originals", "batch1"), "HGB_1_001_002_001.jpg", jpegBytes)
	writeOriginal(t, filepath.Join(root, "originals", "batch2"), "HGB_1_001_002_001.jpg", jpegBytes)

	store := NewLocal(root, "")
	_, err := store.CopyImage(context.Background(), "HGB_1_001_002_001.jpg", "dest")
	if !errors.Is(err, ErrImageAmbiguous) {
		t.Fatalf("expected ErrImageAmbiguous, got %v", err)
	}
}

func TestLocalCopyImage_SeparateOriginalsDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	corpus := t.TempDir()
	writeOriginal(t, corpus, "HGB_1_001_002_001.jpg", jpegBytes)

	store := NewLocal(root, corpus)
	if _, err := store.CopyImage(context.Background(), "HGB_1_001_002_001.jpg", "dest"); err != nil {
		t.Fatalf("CopyImage: %v", err)
	}
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewLocal(root, "")
	results := []CopyResult{
		{Filename: "a.jpg", Size: 10, MIMEType: "image/jpeg", Checksum: "aa"},
		{Filename: "b.jpg", Size: 20, MIMEType: "image/jpeg", Checksum: "bb"},
	}

	if err := WriteManifest(context.Background(), store, "run_selected_sample", results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "run_selected_sample", ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("manifest has %d lines, want header plus 2 rows:\n%s", len(lines), data)
	}
	if lines[0] != "filename,size,mime_type,checksum" {
		t.Fatalf("manifest header = %q", lines[0])
	}
	if lines[1] != "a.jpg,10,image/jpeg,aa" {
		t.Fatalf("manifest row = %q", lines[1])
	}
}

func TestParseS3Root(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		bucket   string
		prefix   string
		ok       bool
	}{
		{"s3://scans/pixplot/output", "scans", "pixplot/output", true},
		{"s3://scans", "scans", "", true},
		{"s3://scans/", "scans", "", true},
		{"/data/output", "", "", false},
		{"s3://", "", "", false},
	}
	for _, tc := range tests {
		bucket, prefix, ok := ParseS3Root(tc.location)
		if bucket != tc.bucket || prefix != tc.prefix || ok != tc.ok {
			t.Fatalf("ParseS3Root(%q) = %q, %q, %v; want %q, %q, %v",
				tc.location, bucket, prefix, ok, tc.bucket, tc.prefix, tc.ok)
		}
	}
}
