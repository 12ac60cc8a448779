package contract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// timestampLayouts are tried in order when parsing event timestamps and --start.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Define the regular expression to capture "N [units]".
var durationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute|second)s?$`)

// ParseDuration converts strings like "10 days" or "240h" into a time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Try Go's built-in duration parsing first (e.g., "240h", "30m")
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return d, nil
	}

	// Fall back to custom parsing for human-readable formats (e.g., "10 days", "2 weeks")
	s = strings.ToLower(s)
	matches := durationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", matches[1])
	}

	var unit time.Duration
	switch matches[2] {
	case "year":
		unit = 365 * 24 * time.Hour // Approximation: 1 year = 365 days
	case "month":
		unit = 30 * 24 * time.Hour // Approximation: 1 month = 30 days
	case "week":
		unit = 7 * 24 * time.Hour
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	default:
		unit = time.Second
	}

	if int64(value) > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("duration too large: %s", s)
	}
	d := time.Duration(value) * unit
	if d <= 0 {
		return 0, errors.New("duration must be positive")
	}
	return d, nil
}

// ParseTimestamp parses an event timestamp. It accepts RFC3339, a few common
// date and date-time layouts (read as UTC) and integer unix seconds.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q. Expected RFC3339, YYYY-MM-DD or unix seconds", s)
}
