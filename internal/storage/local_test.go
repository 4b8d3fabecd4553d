package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewLocalStorageClient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")

	client, err := NewLocalStorageClient(dir)
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected base directory %s to be created", dir)
	}
	if client.BaseDir() != dir {
		t.Errorf("Expected BaseDir %s, got %s", dir, client.BaseDir())
	}
}

func TestLocalStorageClient_StoreAndGet(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		data []byte
	}{
		{"html page", "snapshots/2025/03/01/herd-2025-03-01-10-00-00/index.html", []byte("<html></html>")},
		{"png image", "snapshots/2025/03/01/herd-2025-03-01-10-00-00/chart-by-batch.png", []byte{0x89, 'P', 'N', 'G'}},
		{"leading slash", "/notes.md", []byte("# Notes")},
		{"empty file", "empty.txt", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.StoreFile(ctx, tt.path, tt.data); err != nil {
				t.Fatalf("StoreFile failed: %v", err)
			}
			got, err := client.GetFile(ctx, tt.path)
			if err != nil {
				t.Fatalf("GetFile failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.data) && !(len(got) == 0 && len(tt.data) == 0) {
				t.Errorf("Expected %v, got %v", tt.data, got)
			}
			exists, err := client.FileExists(ctx, tt.path)
			if err != nil || !exists {
				t.Errorf("Expected %s to exist, got %v, %v", tt.path, exists, err)
			}
		})
	}

	// overwrite replaces content
	if err := client.StoreFile(ctx, "empty.txt", []byte("now full")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	if got, _ := client.GetFile(ctx, "empty.txt"); string(got) != "now full" {
		t.Errorf("Expected overwritten content, got %q", got)
	}
}

func TestLocalStorageClient_Missing(t *testing.T) {
	client, _ := NewLocalStorageClient(t.TempDir())
	ctx := context.Background()

	if _, err := client.GetFile(ctx, "nope.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	exists, err := client.FileExists(ctx, "nope.html")
	if err != nil || exists {
		t.Errorf("Expected missing file, got %v, %v", exists, err)
	}
	files, err := client.ListDir(ctx, "snapshots", true)
	if err != nil || len(files) != 0 {
		t.Errorf("Expected empty listing, got %v, %v", files, err)
	}
}

func TestLocalStorageClient_RejectsTraversal(t *testing.T) {
	client, _ := NewLocalStorageClient(t.TempDir())
	ctx := context.Background()

	for _, p := range []string{"../outside.txt", "snapshots/../../etc/passwd", "a/../../b"} {
		t.Run(p, func(t *testing.T) {
			if err := client.StoreFile(ctx, p, []byte("x")); err == nil {
				t.Errorf("Expected StoreFile(%q) to fail", p)
			}
			if _, err := client.GetFile(ctx, p); err == nil {
				t.Errorf("Expected GetFile(%q) to fail", p)
			}
		})
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	client, _ := NewLocalStorageClient(t.TempDir())
	ctx := context.Background()

	for _, p := range []string{
		"snapshots/2025/03/01/herd-2025-03-01-10-00-00/index.html",
		"snapshots/2025/03/01/herd-2025-03-01-10-00-00/chart-by-batch.png",
		"snapshots/2025/03/02/costs-2025-03-02-09-30-00/index.html",
		"other.txt",
	} {
		if err := client.StoreFile(ctx, p, []byte("x")); err != nil {
			t.Fatalf("StoreFile failed: %v", err)
		}
	}

	recursive, err := client.ListDir(ctx, "snapshots", true)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	if len(recursive) != 3 {
		t.Errorf("Expected 3 files, got %v", recursive)
	}

	top, err := client.ListDir(ctx, "", false)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	expected := []string{"other.txt", "snapshots/"}
	if !reflect.DeepEqual(top, expected) {
		t.Errorf("Expected %v, got %v", expected, top)
	}
}
