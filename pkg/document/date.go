package document

import (
	"regexp"
	"strings"

	"github.com/itchyny/timefmt-go"
)

// isoDatePattern matches the ISO 8601 shapes accepted as dates: calendar
// (YYYY, YYYY-MM, YYYY-MM-DD, YYYYMMDD), ordinal (YYYY-DDD), optionally
// followed by a T or space separated time and a zone designator.
var isoDatePattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}|\d{8}|\d{4}-\d{3}|\d{4}-\d{2}|\d{4})` +
		`(?:([T ])(\d{2}(?::\d{2}(?::\d{2}(?:\.\d{1,6})?)?|\d{2}(?:\d{2}(?:\.\d{1,6})?)?)?)` +
		`(Z|[+-]\d{2}(?::?\d{2})?)?)?$`,
)

// IsISODate reports whether s is a strictly valid ISO 8601 date or
// date-time. Out-of-range components (2021-02-30, 25:00) are rejected.
func IsISODate(s string) bool {
	m := isoDatePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	datePart, sep, timePart, zonePart := m[1], m[2], m[3], m[4]

	dateLayout := isoDateLayout(datePart)
	layout := dateLayout
	if sep != "" {
		layout += sep + isoTimeLayout(timePart)
		if zonePart != "" {
			layout += "%z"
		}
	}

	t, err := timefmt.Parse(s, layout)
	if err != nil {
		return false
	}
	// Parsing normalizes overflowing days; a round trip catches them.
	return timefmt.Format(t, dateLayout) == datePart
}

func isoDateLayout(date string) string {
	switch {
	case len(date) == 10:
		return "%Y-%m-%d"
	case len(date) == 8 && strings.Contains(date, "-"):
		return "%Y-%j"
	case len(date) == 8:
		return "%Y%m%d"
	case len(date) == 7:
		return "%Y-%m"
	default:
		return "%Y"
	}
}

func isoTimeLayout(clock string) string {
	frac := ""
	if i := strings.IndexByte(clock, '.'); i >= 0 {
		clock, frac = clock[:i], ".%f"
	}
	if strings.Contains(clock, ":") {
		switch len(clock) {
		case 5:
			return "%H:%M" + frac
		default:
			return "%H:%M:%S" + frac
		}
	}
	switch len(clock) {
	case 2:
		return "%H" + frac
	case 4:
		return "%H%M" + frac
	default:
		return "%H%M%S" + frac
	}
}
