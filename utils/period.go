package utils

import (
	"fmt"
	"strings"
	"time"
)

// JST is the fixed UTC+9 offset all lease periods are interpreted in.
var JST = time.FixedZone("JST", 9*60*60)

const periodLayout = "2006-01-02-15:04"

// ParsePeriod parses "YYYY-MM-DD-HH:MM<sep>YYYY-MM-DD-HH:MM" where <sep> is
// an ASCII or full-width tilde. Both ends are read at UTC+9. The end must be
// strictly after the start.
func ParsePeriod(s string) (start, end time.Time, err error) {
	sep := ""
	switch {
	case strings.Contains(s, "～"):
		sep = "～"
	case strings.Contains(s, "~"):
		sep = "~"
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("period %q is missing the '~' separator", s)
	}

	parts := strings.SplitN(s, sep, 2)
	start, err = time.ParseInLocation(periodLayout, strings.TrimSpace(parts[0]), JST)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad period start %q: %w", parts[0], err)
	}
	end, err = time.ParseInLocation(periodLayout, strings.TrimSpace(parts[1]), JST)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad period end %q: %w", parts[1], err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("period end %s is not after start %s",
			end.Format(periodLayout), start.Format(periodLayout))
	}
	return start, end, nil
}
