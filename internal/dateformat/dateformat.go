// Package dateformat implements the date-format mini-language used by
// date sections. Formatting is locale-independent: month names come from
// fixed English tables regardless of the host locale.
package dateformat

import (
	"fmt"
	"regexp"
	"time"
)

// Custom is the sentinel preset: the section's customDateFormat holds the
// actual pattern.
const Custom = "Custom"

// Default is the pattern applied when a date section has no format set.
const Default = "DD/MM/YYYY"

// Presets are the selectable formats, Custom first.
var Presets = []string{
	Custom,
	"DD/MM/YYYY",
	"MM/DD/YYYY",
	"YYYY/MM/DD",
	"DD-MM-YYYY",
	"MM-DD-YYYY",
	"YYYY-MM-DD",
	"DD MMM YYYY",
	"MMM DD YYYY",
	"YYYY DD MMM",
	"DD MMMM YYYY",
	"MMMM DD YYYY",
	"YYYY MMMM DD",
	"MMMM Do, YYYY",
	"Do MMMM YYYY",
	"YYYY-MM-DD HH:mm:ss",
	"MMMM DD, YYYY h:mm A",
	"MM/DD/YY hh:mm:ss A",
}

var monthsShort = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthsLong = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// tokenRe matches recognized tokens in a single alternation scan. Order
// matters: longer tokens must precede their prefixes (MMMM before MMM before
// MM, HH before H) so that the leftmost-first alternation never splits a
// longer token.
var tokenRe = regexp.MustCompile(`MMMM|MMM|MM|DD|Do|YYYY|YY|HH|H|hh|h|mm|m|ss|s|A`)

// Resolve returns the effective pattern for a section's format fields:
// the custom pattern when dateFormat is the Custom sentinel, otherwise
// dateFormat itself, defaulting when empty.
func Resolve(dateFormat, customDateFormat string) string {
	if dateFormat == Custom {
		return customDateFormat
	}
	if dateFormat == "" {
		return Default
	}
	return dateFormat
}

// Format renders date according to pattern. Characters outside recognized
// tokens pass through unchanged.
func Format(date time.Time, pattern string) string {
	day := date.Day()
	year := date.Year()
	month := int(date.Month())
	hours24 := date.Hour()
	hours12 := hours24 % 12
	if hours12 == 0 {
		hours12 = 12
	}
	minutes := date.Minute()
	seconds := date.Second()
	ampm := "AM"
	if hours24 >= 12 {
		ampm = "PM"
	}

	return tokenRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		switch tok {
		case "MMMM":
			return monthsLong[month-1]
		case "MMM":
			return monthsShort[month-1]
		case "MM":
			return fmt.Sprintf("%02d", month)
		case "DD":
			return fmt.Sprintf("%02d", day)
		case "Do":
			return fmt.Sprintf("%d%s", day, ordinalSuffix(day))
		case "YYYY":
			return fmt.Sprintf("%04d", year)
		case "YY":
			return fmt.Sprintf("%02d", year%100)
		case "HH":
			return fmt.Sprintf("%02d", hours24)
		case "H":
			return fmt.Sprintf("%d", hours24)
		case "hh":
			return fmt.Sprintf("%02d", hours12)
		case "h":
			return fmt.Sprintf("%d", hours12)
		case "mm":
			return fmt.Sprintf("%02d", minutes)
		case "m":
			return fmt.Sprintf("%d", minutes)
		case "ss":
			return fmt.Sprintf("%02d", seconds)
		case "s":
			return fmt.Sprintf("%d", seconds)
		case "A":
			return ampm
		}
		return tok
	})
}

// ordinalSuffix returns st/nd/rd/th for a day of month. 11th–13th take "th"
// despite ending in 1–3.
func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
