// Package stamp handles the YYYYMMDD_HHMMSS_ file name prefix for stampname.
package stamp

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the time layout of a stamp prefix, trailing underscore included.
const Layout = "20060102_150405_"

// prefixPattern matches 8 digits, underscore, 6 digits, underscore at the
// start of a name.
var prefixPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})_`)

// StampErrorType represents the type of stamp parsing error.
type StampErrorType string

const (
	NoPrefix    StampErrorType = "NO_PREFIX"
	InvalidDate StampErrorType = "INVALID_DATE"
)

// StampError represents an error that occurred while parsing a stamp prefix.
type StampError struct {
	Type   StampErrorType
	Reason string
}

func (e *StampError) Error() string {
	switch e.Type {
	case NoPrefix:
		return "name has no YYYYMMDD_HHMMSS_ prefix"
	case InvalidDate:
		return fmt.Sprintf("invalid stamp: %s", e.Reason)
	default:
		return fmt.Sprintf("stamp error: %s", e.Reason)
	}
}

// HasPrefix reports whether name already starts with a stamp prefix.
// Only the shape is checked; 99999999_999999_ counts as stamped.
func HasPrefix(name string) bool {
	return prefixPattern.MatchString(name)
}

// Format renders t as a stamp prefix in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Apply prepends the stamp for t to name.
func Apply(t time.Time, name string) string {
	return Format(t) + name
}

// Parse reads the stamp prefix of name as a wall-clock time in loc.
// Calendar fields are validated, including leap years.
func Parse(name string, loc *time.Location) (time.Time, error) {
	m := prefixPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, &StampError{Type: NoPrefix}
	}

	f := make([]int, 6)
	for i := range f {
		f[i], _ = strconv.Atoi(m[i+1])
	}
	year, month, day, hour, minute, second := f[0], f[1], f[2], f[3], f[4], f[5]

	if month < 1 || month > 12 {
		return time.Time{}, &StampError{
			Type:   InvalidDate,
			Reason: fmt.Sprintf("month %02d is out of range (01-12)", month),
		}
	}
	if maxDay := daysInMonth(year, month); day < 1 || day > maxDay {
		return time.Time{}, &StampError{
			Type:   InvalidDate,
			Reason: fmt.Sprintf("day %02d is out of range for month %02d (01-%02d)", day, month, maxDay),
		}
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, &StampError{
			Type:   InvalidDate,
			Reason: fmt.Sprintf("time %02d:%02d:%02d is out of range", hour, minute, second),
		}
	}

	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || (year%400 == 0)
}
