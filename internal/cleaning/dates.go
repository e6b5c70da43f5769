package cleaning

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	separatorReplacer = strings.NewReplacer(";", " ", ",", " ")

	leadingWeekday = regexp.MustCompile(`(?i)^(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?\s+`)
	amMarker       = regexp.MustCompile(`(?i)(\d)\s*a\.?m\.?(\s|$)`)
	pmMarker       = regexp.MustCompile(`(?i)(\d)\s*p\.?m\.?(\s|$)`)
	leadingClock   = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?: [AP]M)?) (.+)$`)
)

// fallbackLayouts are tried in order when dateparse gives up. Dotted dates
// are read month first, then day first.
var fallbackLayouts = []string{
	"02-Jan-2006 15:04:05",
	"02-Jan-2006 15:04",
	"02-Jan-2006",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"January 2 2006 15:04:05",
	"January 2 2006 15:04",
	"January 2 2006 3:04 PM",
	"January 2 2006",
	"Jan 2 2006 15:04:05",
	"Jan 2 2006 15:04",
	"Jan 2 2006 3:04 PM",
	"Jan 2 2006",
	"01.02.2006 15:04:05",
	"01.02.2006 15:04",
	"01.02.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
}

// ParseTimestamp parses the mixed timestamp formats found in order exports.
// Semicolons and commas are treated as spaces and ambiguous numeric dates
// are read month first. A leading weekday is dropped and a time written
// before the date is moved after it. It reports false when nothing usable
// is found.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := canonicalTimestamp(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(true),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// canonicalTimestamp rewrites raw into a date-first, single-spaced form with
// AM/PM markers spelled the way time layouts expect.
func canonicalTimestamp(raw string) string {
	s := strings.Join(strings.Fields(separatorReplacer.Replace(raw)), " ")
	s = leadingWeekday.ReplaceAllString(s, "")
	s = amMarker.ReplaceAllString(s, "$1 AM$2")
	s = pmMarker.ReplaceAllString(s, "$1 PM$2")
	s = strings.TrimSpace(s)
	return leadingClock.ReplaceAllString(s, "$2 $1")
}

// DateKey formats t as the YYYY-MM-DD bucket used for daily aggregates.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
