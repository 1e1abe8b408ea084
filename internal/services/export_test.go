package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshots struct {
	objects      map[string][]byte
	contentTypes map[string]string
	err          error
}

func (m *memorySnapshots) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
		m.contentTypes = map[string]string{}
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func TestExportWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryUserRepository()
	users := NewUserService(repo)
	user, err := users.Create(ctx, CreateUserInput{Username: "a"})
	require.NoError(t, err)
	_, err = users.AddExercise(ctx, AddExerciseInput{UserID: user.ID, Description: "run", Duration: "30", Date: "2023-01-15"})
	require.NoError(t, err)

	snapshots := &memorySnapshots{}
	export := NewExportService(repo, snapshots)
	export.now = func() time.Time { return time.Unix(1700000000, 0) }

	key, snapshot, err := export.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, "users-1700000000.json", key)
	assert.Equal(t, 1, snapshot.Count)
	assert.Equal(t, "application/json", snapshots.contentTypes[key])

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(snapshots.objects[key], &decoded))
	require.Len(t, decoded.Users, 1)
	assert.Equal(t, "Sun Jan 15 2023", decoded.Users[0].Log[0].Date)
}

func TestExportWrapsUploadError(t *testing.T) {
	boom := errors.New("bucket gone")
	export := NewExportService(store.NewMemoryUserRepository(), &memorySnapshots{err: boom})

	_, _, err := export.Export(context.Background())
	assert.ErrorIs(t, err, boom)
}
