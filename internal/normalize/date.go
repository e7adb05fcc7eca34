// Package normalize converts the weakly-typed JSON the upstream clusters
// return into canonical records: dates to UTC ISO-8601, wrapper envelopes to
// flat collections, and raw records to typed entities.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// isoMillis is the canonical timestamp layout: UTC ISO-8601 with
// millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// nativeLayouts are tried first, in order. Valid ISO-ish inputs short-circuit
// the slash-format heuristics entirely.
var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate converts an arbitrary textual timestamp into canonical UTC
// ISO-8601 with millisecond precision. Unparseable input yields "", never
// an error and never a fabricated "now".
//
// Beyond native layouts it understands the slash formats the clusters emit:
// MM/DD/YYYY, DD/MM/YYYY (chosen when the first component exceeds 12),
// two-digit years, HH:mm:SS and HH:mm:ms time parts, and AM/PM markers.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(isoMillis)
		}
	}

	fields := strings.Fields(s)
	year, month, day, ok := parseSlashDate(fields[0])
	if !ok {
		return ""
	}

	hour, minute, sec, ms, hasTime := 0, 0, 0, 0, false
	if len(fields) > 1 {
		hour, minute, sec, ms, hasTime = parseTimePart(fields[1])
	}

	// AM/PM markers may appear attached to the time or as their own token.
	upper := strings.ToUpper(s)
	if hasTime {
		switch {
		case strings.Contains(upper, "PM") && hour < 12:
			hour += 12
		case strings.Contains(upper, "AM") && hour == 12:
			hour = 0
		}
	}

	if hasTime && hour <= 23 && minute <= 59 {
		t := time.Date(year, time.Month(month), day, hour, minute, sec, ms*int(time.Millisecond), time.UTC)
		if datePreserved(t, year, month, day) {
			return t.Format(isoMillis)
		}
	}

	// Fall back to date-only at midnight UTC.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if datePreserved(t, year, month, day) {
		return t.Format(isoMillis)
	}
	return ""
}

// parseSlashDate handles MM/DD/YYYY and DD/MM/YYYY. A first component above
// 12 cannot be a month, so day-first is assumed; otherwise month-first wins.
// Two-digit years expand by prefixing "20".
func parseSlashDate(datePart string) (year, month, day int, ok bool) {
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}

	yearStr := parts[2]
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || len(yearStr) != 4 {
		return 0, 0, 0, false
	}

	if first > 12 {
		day, month = first, second
	} else {
		month, day = first, second
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// parseTimePart handles HH:mm, HH:mm:SS and HH:mm:ms. A third segment of
// three or more digits is milliseconds with seconds forced to zero; a
// shorter one is seconds, clamped to 59 when malformed.
func parseTimePart(timePart string) (hour, minute, sec, ms int, ok bool) {
	timePart = strings.TrimSuffix(strings.TrimSuffix(strings.ToUpper(timePart), "PM"), "AM")
	segs := strings.Split(timePart, ":")
	if len(segs) < 2 || len(segs) > 3 {
		return 0, 0, 0, 0, false
	}
	hour, err1 := strconv.Atoi(segs[0])
	minute, err2 := strconv.Atoi(segs[1])
	if err1 != nil || err2 != nil || hour < 0 || minute < 0 {
		return 0, 0, 0, 0, false
	}

	if len(segs) == 3 {
		third, err := strconv.Atoi(segs[2])
		if err != nil || third < 0 {
			return 0, 0, 0, 0, false
		}
		if len(segs[2]) >= 3 {
			ms = third
			if ms > 999 {
				ms = 999
			}
		} else {
			sec = third
			if sec > 59 {
				sec = 59
			}
		}
	}
	return hour, minute, sec, ms, true
}

// datePreserved reports whether time.Date kept the given calendar date,
// i.e. the components did not roll over (such as February 30th).
func datePreserved(t time.Time, year, month, day int) bool {
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
