package services

import (
	"testing"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

var sampleLog = []types.Exercise{
	{Description: "run", Duration: 30, Date: "Tue Jan 10 2023"},
	{Description: "swim", Duration: 45, Date: "Sun Jan 15 2023"},
	{Description: "bike", Duration: 60, Date: "Fri Jan 20 2023"},
}

func TestLimitLog(t *testing.T) {
	assert.Equal(t, sampleLog[:2], LimitLog(sampleLog, 2))
	assert.Equal(t, sampleLog, LimitLog(sampleLog, 10))
	assert.Empty(t, LimitLog(sampleLog, 0))
	assert.Empty(t, LimitLog(sampleLog, -3))
}

func TestLimitLogCopies(t *testing.T) {
	log := append([]types.Exercise(nil), sampleLog...)
	limited := LimitLog(log, 1)
	limited[0].Description = "changed"
	assert.Equal(t, "run", log[0].Description)
}

func TestFilterLog(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     []string
	}{
		{"open", time.Time{}, time.Time{}, []string{"run", "swim", "bike"}},
		{"middle only", day(2023, 1, 12), day(2023, 1, 18), []string{"swim"}},
		{"bounds exclusive", day(2023, 1, 10), day(2023, 1, 20), []string{"swim"}},
		{"from only", day(2023, 1, 14), time.Time{}, []string{"swim", "bike"}},
		{"to only", time.Time{}, day(2023, 1, 15), []string{"run"}},
		{"empty window", day(2023, 2, 1), day(2023, 3, 1), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLog(sampleLog, tt.from, tt.to)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.Description)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilterLogDropsUnreadableDatesWhenBounded(t *testing.T) {
	log := []types.Exercise{{Description: "odd", Date: "Invalid Date"}}

	assert.Len(t, FilterLog(log, time.Time{}, time.Time{}), 1)
	assert.Empty(t, FilterLog(log, day(2020, 1, 1), time.Time{}))
}

func TestNormalizeDate(t *testing.T) {
	for raw, want := range map[string]string{
		"2023-01-15":          "Sun Jan 15 2023",
		"Sun Jan 15 2023":     "Sun Jan 15 2023",
		"2023-01-15T08:00:00": "Sun Jan 15 2023",
		"Jan 15 2023":         "Sun Jan 15 2023",
		"January 15, 2023":    "Sun Jan 15 2023",
		"2023/01/15":          "Sun Jan 15 2023",
	} {
		got, err := NormalizeDate(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := NormalizeDate("Invalid Date")
	assert.Error(t, err)
	_, err = NormalizeDate("")
	assert.Error(t, err)
}
