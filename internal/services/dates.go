package services

import (
	"errors"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/types"
)

var errInvalidDate = errors.New("invalid date")

// inputDateLayouts are tried in order when a client sends a date.
var inputDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	types.DateLayout,
	"Jan 02 2006",
	"January 2, 2006",
	"2006/01/02",
}

// ParseDate reads a client supplied date. Values without a zone are taken
// in the server's local time zone.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errInvalidDate
	}
	for _, layout := range inputDateLayouts {
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return parsed.In(time.Local), nil
		}
	}
	return time.Time{}, errInvalidDate
}

// FormatDate renders t in the stored display layout.
func FormatDate(t time.Time) string {
	return t.Format(types.DateLayout)
}

// NormalizeDate parses raw and reformats it to the display layout.
func NormalizeDate(raw string) (string, error) {
	parsed, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return FormatDate(parsed), nil
}

func parseStoredDate(value string) (time.Time, bool) {
	parsed, err := time.ParseInLocation(types.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
