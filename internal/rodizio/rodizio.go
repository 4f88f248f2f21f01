// Package rodizio implements the plate-based circulation restriction used by
// large Brazilian cities: on each weekday, plates ending in two given digits
// may not circulate in the regulated zone. Weekends are unrestricted.
package rodizio

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// restrictedDay maps a final plate digit to the weekday it is barred on.
var restrictedDay = [10]time.Weekday{
	0: time.Friday,
	1: time.Monday,
	2: time.Monday,
	3: time.Tuesday,
	4: time.Tuesday,
	5: time.Wednesday,
	6: time.Wednesday,
	7: time.Thursday,
	8: time.Thursday,
	9: time.Friday,
}

// LastDigit returns the last digit found in plate, ignoring letters and separators.
func LastDigit(plate string) (int, bool) {
	for i := len(plate) - 1; i >= 0; i-- {
		if c := plate[i]; c >= '0' && c <= '9' {
			return int(c - '0'), true
		}
	}
	return 0, false
}

// RestrictedWeekday returns the weekday the plate may not circulate on.
func RestrictedWeekday(plate string) (time.Weekday, bool) {
	d, ok := LastDigit(plate)
	if !ok {
		return time.Sunday, false
	}
	return restrictedDay[d], true
}

// IsRestricted reports whether the plate is barred on the weekday of date.
// Plates without a digit are never restricted.
func IsRestricted(plate string, date time.Time) bool {
	day, ok := RestrictedWeekday(plate)
	return ok && date.Weekday() == day
}

// RestrictionLabel describes the weekday the plate is restricted on, independent of any date.
func RestrictionLabel(plate string) string {
	day, ok := RestrictedWeekday(plate)
	if !ok {
		return "unrestricted"
	}
	return "restricted on " + day.String()
}

// NormalizeCity lower-cases s and strips diacritics, so "São Paulo" and
// "SAO PAULO" compare equal.
func NormalizeCity(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
