// Package dateutil normalizes the two textual due-date shapes the app
// accepts into a local-midnight time value.
package dateutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	dashedShape  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactShape = regexp.MustCompile(`^\d{8}$`)
)

// IsAcceptedShape reports whether the trimmed input matches one of the two
// accepted textual shapes: YYYY-MM-DD or YYYYMMDD. The validation layer uses
// this to reject anything else at the request boundary.
func IsAcceptedShape(raw string) bool {
	value := strings.TrimSpace(raw)
	return dashedShape.MatchString(value) || compactShape.MatchString(value)
}

// ParseDueDate converts a due-date string into the corresponding calendar
// date at local midnight. Empty input means "no due date" and yields nil.
//
// Any non-empty input that is not one of the two accepted shapes also yields
// nil. Validation rejects such input before it reaches this function, so that
// path is a defensive no-op rather than an error.
func ParseDueDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	if compactShape.MatchString(value) {
		value = value[0:4] + "-" + value[4:6] + "-" + value[6:8]
	} else if !dashedShape.MatchString(value) {
		return nil
	}

	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		// Shape matched but the digits do not form a real calendar date
		// (e.g. month 13). Treated the same as "no date".
		return nil
	}
	return &t
}

// FormatDueDate renders a due date as its calendar day, for logs and
// summaries.
func FormatDueDate(t time.Time) string {
	return t.Format("2006-01-02")
}
