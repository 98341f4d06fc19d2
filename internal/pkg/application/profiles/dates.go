package profiles

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Partial dates are completed the lenient
// way: missing month and day components become January the 1st, and a
// missing year becomes year 1.
var dateLayouts = []struct {
	layout string
	zoned  bool
}{
	{layout: time.RFC3339, zoned: true},
	{layout: "2006-01-02T15:04:05-07:00", zoned: true},
	{layout: "2006-01-02T15:04:05", zoned: false},
	{layout: "2006-01-02 15:04:05", zoned: false},
	{layout: "2006-01-02", zoned: false},
	{layout: "2006-01", zoned: false},
	{layout: "2006", zoned: false},
	{layout: "2006/01/02", zoned: false},
	{layout: "02-01-2006", zoned: false},
}

var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
}

// parseDate parses a possibly partial date string and returns it in ISO
// 8601 form. Naive inputs come back without a zone offset, zoned inputs
// keep theirs.
func parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty date value")
	}

	for _, candidate := range dateLayouts {
		t, err := time.Parse(candidate.layout, value)
		if err != nil {
			continue
		}

		if candidate.zoned {
			return t.Format("2006-01-02T15:04:05-07:00"), nil
		}
		return t.Format("2006-01-02T15:04:05"), nil
	}

	for _, layout := range timeOnlyLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		completed := time.Date(1, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		return completed.Format("2006-01-02T15:04:05"), nil
	}

	return "", fmt.Errorf("unparsable date value: %s", value)
}
