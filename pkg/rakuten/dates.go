package rakuten

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// QueryTimeLayout formats date-time query parameters of the events API.
	QueryTimeLayout = "2006-01-02 15:04:05"
	// ReportDateLayout formats bdate/edate of the advanced reports API.
	ReportDateLayout = "20060102"

	eventDateLayout = "Mon Jan 02 2006 15:04:05 -0700"
)

// ParseEventDate parses dates such as "Mon Jan 02 2023 10:00:00 GMT+0000 (Coordinated Universal Time)".
// The parenthesized label is dropped and the zone name is kept on the returned location.
func ParseEventDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, " ("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	fields := strings.Fields(s)
	if len(fields) != 6 {
		return time.Time{}, fmt.Errorf("event date %q: expected 6 fields, got %d", raw, len(fields))
	}

	zone := fields[5]
	idx := strings.IndexAny(zone, "+-")
	if idx < 0 {
		return time.Time{}, fmt.Errorf("event date %q: zone %q has no offset", raw, zone)
	}
	name, offset := zone[:idx], zone[idx:]
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return time.Time{}, fmt.Errorf("event date %q: invalid zone name %q", raw, name)
		}
	}

	t, err := time.Parse(eventDateLayout, strings.Join(append(fields[:5:5], offset), " "))
	if err != nil {
		return time.Time{}, fmt.Errorf("event date %q: %w", raw, err)
	}
	if name != "" {
		_, secs := t.Zone()
		t = t.In(time.FixedZone(name, secs))
	}
	return t, nil
}

// ParseCreatedOn parses product feed timestamps such as "2023-01-02T10:00:00.123Z".
func ParseCreatedOn(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("createdon %q: %w", raw, err)
	}
	return t, nil
}
