package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/exercise-tracker/apiserver/types"
)

const snapshotContentType = "application/json"

// SnapshotStorage receives exported snapshots.
type SnapshotStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Snapshot is the document written by ExportService.
type Snapshot struct {
	ExportedAt time.Time    `json:"exported_at"`
	Count      int          `json:"count"`
	Users      []types.User `json:"users"`
}

// ExportService writes point-in-time JSON snapshots of every user.
type ExportService struct {
	repo    UserRepository
	storage SnapshotStorage
	now     func() time.Time
}

func NewExportService(repo UserRepository, storage SnapshotStorage) *ExportService {
	return &ExportService{repo: repo, storage: storage, now: time.Now}
}

// Export uploads the snapshot and returns its object key.
func (s *ExportService) Export(ctx context.Context) (string, Snapshot, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return "", Snapshot{}, err
	}

	snapshot := Snapshot{
		ExportedAt: s.now().UTC(),
		Count:      len(users),
		Users:      users,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", Snapshot{}, err
	}

	key := fmt.Sprintf("users-%d.json", snapshot.ExportedAt.Unix())
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), snapshotContentType); err != nil {
		return "", Snapshot{}, fmt.Errorf("upload snapshot %s: %w", key, err)
	}
	return key, snapshot, nil
}
