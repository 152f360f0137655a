package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order for absolute times
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimeString parses an absolute time (RFC3339, "2006-01-02 15:04[:05]", "2006-01-02")
// or a relative one meaning "that long ago" ("90s", "30m", "1h", "2d", "1w").
// Absolute times without a zone are read in local time.
func ParseTimeString(value string) (time.Time, error) {
	return parseTimeStringAt(value, time.Now())
}

func parseTimeStringAt(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}

	switch strings.ToLower(value) {
	case "now":
		return now, nil
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}

	if d, err := parseRelative(value); err == nil {
		return now.Add(-d), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC3339, YYYY-MM-DD or a duration like 30m, 2d)", value)
}

// parseRelative accepts Go durations plus d (days) and w (weeks) suffixes
func parseRelative(value string) (time.Duration, error) {
	value = strings.TrimSuffix(value, " ago")

	unit := value[len(value)-1]
	if unit == 'd' || unit == 'w' {
		n, err := strconv.Atoi(value[:len(value)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		day := 24 * time.Hour
		if unit == 'w' {
			return time.Duration(n) * 7 * day, nil
		}
		return time.Duration(n) * day, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return d, nil
}
