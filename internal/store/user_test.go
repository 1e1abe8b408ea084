package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *int64:
			*target = f.values[i].(int64)
		case *string:
			*target = f.values[i].(string)
		case *int:
			*target = f.values[i].(int)
		case *[]byte:
			*target = f.values[i].([]byte)
		}
	}
	return nil
}

func TestScanUserDecodesLog(t *testing.T) {
	row := fakeRow{values: []any{
		int64(7),
		"alice",
		2,
		[]byte(`[{"description":"run","duration":30,"date":"Sun Jan 15 2023"},{"description":"swim","duration":60,"date":"Mon Jan 16 2023"}]`),
	}}

	user, err := scanUser(row)

	assert.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 2, user.Count)
	assert.Len(t, user.Log, 2)
	assert.Equal(t, "swim", user.Log[1].Description)
}

func TestScanUserEmptyLogIsNotNil(t *testing.T) {
	user, err := scanUser(fakeRow{values: []any{int64(0), "bob", 0, []byte(nil)}})

	assert.NoError(t, err)
	assert.NotNil(t, user.Log)
	assert.Empty(t, user.Log)
}

func TestScanUserPropagatesScanError(t *testing.T) {
	boom := errors.New("boom")
	_, err := scanUser(fakeRow{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestParseUserID(t *testing.T) {
	id, err := parseUserID("12")
	assert.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"", "abc", "-1", "1.5"} {
		_, err := parseUserID(raw)
		assert.ErrorIs(t, err, ErrNotFound, raw)
	}
}
