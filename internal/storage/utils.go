package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// SnapshotsRoot is the prefix every dashboard snapshot is stored under
const SnapshotsRoot = "snapshots"

// SnapshotIndex is the page file of a snapshot folder
const SnapshotIndex = "index.html"

// GenerateSnapshotFolderPath returns the folder of one dashboard snapshot.
// Format: snapshots/YYYY/MM/DD/<tab>-YYYY-MM-DD-HH-MM-SS
func GenerateSnapshotFolderPath(tab string, timestamp time.Time) string {
	timestamp = timestamp.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s-%04d-%02d-%02d-%02d-%02d-%02d",
		SnapshotsRoot,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		sanitizeTab(tab),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// ListSnapshots returns the index pages of stored snapshots, newest first
func ListSnapshots(ctx context.Context, client StorageClient, limit int) ([]string, error) {
	objects, err := client.ListDir(ctx, SnapshotsRoot, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var pages []string
	for _, o := range objects {
		if path.Base(o) == SnapshotIndex {
			pages = append(pages, o)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return snapshotStamp(pages[i]) > snapshotStamp(pages[j])
	})
	if limit > 0 && limit < len(pages) {
		pages = pages[:limit]
	}
	return pages, nil
}

// snapshotStamp extracts YYYY-MM-DD-HH-MM-SS from a snapshot index path
func snapshotStamp(indexPath string) string {
	folder := path.Base(path.Dir(indexPath))
	const stampLen = len("2006-01-02-15-04-05")
	if len(folder) < stampLen {
		return folder
	}
	return folder[len(folder)-stampLen:]
}

func sanitizeTab(tab string) string {
	tab = strings.ToLower(strings.TrimSpace(tab))
	var sb strings.Builder
	for _, r := range tab {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	if sb.Len() == 0 {
		return "dashboard"
	}
	return sb.String()
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
