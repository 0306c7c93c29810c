// internal/parse/date.go
package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ISODate is the calendar-date representation used everywhere in the ledger.
// Matching compares these as plain strings.
const ISODate = "2006-01-02"

// DateFormatError reports a date string that matches none of the expected
// shapes. It is caught per message so one garbled notification does not stop
// a pass.
type DateFormatError struct {
	Input string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date %q: %v", e.Input, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

const headerLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// EmailDate converts an RFC 5322 Date header to a calendar date in the
// sender's stated offset. A trailing parenthetical zone name, as in
// "+0000 (UTC)", is stripped before parsing.
func EmailDate(raw string) (string, error) {
	s := raw
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(headerLayout, strings.TrimSpace(s))
	if err != nil {
		return "", &DateFormatError{Input: raw, Err: err}
	}
	return t.Format(ISODate), nil
}

var (
	digitPair  = regexp.MustCompile(`(\d)\s+(\d)`)
	letterPair = regexp.MustCompile(`([A-Za-z])\s+([A-Za-z])`)
	// Boilerplate that follows the date in the notification body. The pair
	// rejoin above may have glued its words together, so the spaces inside
	// the anchors are optional.
	boilerplate = regexp.MustCompile(`(?i)\s*(?:application\s*information|similar\s*jobs\s*you\s*might).*$`)
	dayMonth    = regexp.MustCompile(`^(\d{1,2})\s*([A-Za-z]{3})`)
	monthYear   = regexp.MustCompile(`([A-Za-z]{3})\s*(\d{4})$`)
	fourDigits  = regexp.MustCompile(`\d{4}`)
)

// CleanFragment normalizes an applied-on fragment: NFKC fold, whitespace
// collapse, rejoining digit and letter pairs that a line wrap split apart,
// truncating trailing boilerplate, and re-separating day from month.
// Cleaning an already clean fragment is a no-op.
func CleanFragment(fragment string) string {
	s := CollapseSpace(norm.NFKC.String(fragment))
	for {
		next := digitPair.ReplaceAllString(s, "$1$2")
		next = letterPair.ReplaceAllString(next, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimSpace(boilerplate.ReplaceAllString(s, ""))
	s = dayMonth.ReplaceAllString(s, "$1 $2")
	s = monthYear.ReplaceAllString(s, "$1 $2")
	return s
}

const partialLayout = "2 Jan 2006"

// ResolveAppliedDate parses a day-month fragment into a full calendar date.
// A fragment carrying a 4-digit year is parsed as-is. Without one, the year
// is taken from the last day of the previous calendar month relative to now,
// so a December fragment processed in January lands in the prior year.
func ResolveAppliedDate(fragment string, now time.Time) (string, error) {
	cleaned := CleanFragment(fragment)
	if fourDigits.MatchString(cleaned) {
		t, err := time.Parse(partialLayout, cleaned)
		if err != nil {
			return "", &DateFormatError{Input: fragment, Err: err}
		}
		return t.Format(ISODate), nil
	}
	endOfPrevMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	t, err := time.Parse(partialLayout, fmt.Sprintf("%s %d", cleaned, endOfPrevMonth.Year()))
	if err != nil {
		return "", &DateFormatError{Input: fragment, Err: err}
	}
	return t.Format(ISODate), nil
}
