package mailbox

import (
	"fmt"
	"strings"
	"time"
)

// date layouts sent by the service: the listing and the message detail don't agree on the offset
var (
	layoutsWithOffset = []string{
		"2006-01-02 15:04:05-0700",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05 -07:00",
		time.RFC3339,
	}
	layoutsWithoutOffset = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
)

// ParseDate reads a date from the service. A date without a UTC offset is read in loc,
// which defaults to DefaultLocation when nil. An offset present in the value is always kept.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = DefaultLocation
	}
	for _, layout := range layoutsWithOffset {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	for _, layout := range layoutsWithoutOffset {
		if date, err := time.ParseInLocation(layout, value, loc); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// ParseOffset returns a fixed location from an offset like "+0200" or "-05:30"
func ParseOffset(offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	if offset == "" || strings.EqualFold(offset, "Z") || strings.EqualFold(offset, "UTC") {
		return time.UTC, nil
	}
	for _, layout := range []string{"-0700", "-07:00", "-07"} {
		if ref, err := time.Parse(layout, offset); err == nil {
			_, seconds := ref.Zone()
			return time.FixedZone(offset, seconds), nil
		}
	}
	return nil, fmt.Errorf("invalid UTC offset: %q", offset)
}
