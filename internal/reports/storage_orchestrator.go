package reports

import (
	"context"
	"fmt"
	"path"
	"sort"
	"time"

	"herdboard/internal/logger"
	"herdboard/internal/storage"
)

// StorageOrchestrator stores the artifacts of rendered dashboards
type StorageOrchestrator struct {
	storage storage.StorageClient
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{storage: client, log: logger.Component("reports")}
}

// StoreAllFiles writes every artifact into a fresh snapshot folder and returns the folder.
// index.html is written last so a listed snapshot is always complete.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles, tab string, timestamp time.Time) (string, error) {
	folder := storage.GenerateSnapshotFolderPath(tab, timestamp)

	if err := so.storeMap(ctx, folder, files.JSONFiles); err != nil {
		return "", err
	}
	if err := so.storeMap(ctx, folder, files.AssetFiles); err != nil {
		return "", err
	}
	if err := so.storage.StoreFile(ctx, folder+"/"+storage.SnapshotIndex, []byte(files.HTMLContent)); err != nil {
		return "", fmt.Errorf("failed to store dashboard page: %w", err)
	}

	files.FolderPath = folder
	so.log.Info("snapshot stored", logger.Fields{"folder": folder, "files": 1 + len(files.JSONFiles) + len(files.AssetFiles)})
	return folder, nil
}

// ListSnapshots returns index entries for the newest stored snapshots
func (so *StorageOrchestrator) ListSnapshots(ctx context.Context, limit int) ([]SnapshotEntry, error) {
	pages, err := storage.ListSnapshots(ctx, so.storage, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]SnapshotEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, snapshotEntry(p))
	}
	return entries, nil
}

func (so *StorageOrchestrator) storeMap(ctx context.Context, folder string, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := so.storage.StoreFile(ctx, folder+"/"+name, files[name]); err != nil {
			return fmt.Errorf("failed to store file %s: %w", name, err)
		}
	}
	return nil
}

// snapshotEntry splits "snapshots/Y/M/D/<tab>-<stamp>/index.html" into tab and stamp
func snapshotEntry(indexPath string) SnapshotEntry {
	const stampLayout = "2006-01-02-15-04-05"
	entry := SnapshotEntry{Path: indexPath, Tab: "dashboard"}

	folder := path.Base(path.Dir(indexPath))
	if len(folder) > len(stampLayout)+1 {
		entry.Tab = folder[:len(folder)-len(stampLayout)-1]
		if ts, err := time.Parse(stampLayout, folder[len(folder)-len(stampLayout):]); err == nil {
			entry.Stored = ts.Format("2006-01-02 15:04:05 UTC")
		}
	}
	return entry
}
