// Package smarttime parses a trailing number in a typed task title into a
// planned duration. It is an optional convenience applied to title input
// before a task is created, independent of the timer and completion logic.
package smarttime

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches a title ending in a number of minutes, with an optional m/min
// suffix: "Write report 25", "Stretch 10m", "Email 15 min".
var trailingDuration = regexp.MustCompile(`^(.*\S)\s+(\d{1,4})\s*(?:m|min|mins|minutes)?$`)

// Detect extracts a trailing duration from the title. It returns the title
// with the duration stripped, the minutes, and whether a duration was
// found. Titles that are nothing but a number are left alone.
func Detect(title string) (string, int, bool) {
	trimmed := strings.TrimSpace(title)
	m := trailingDuration.FindStringSubmatch(trimmed)
	if m == nil {
		return title, 0, false
	}

	minutes, err := strconv.Atoi(m[2])
	if err != nil || minutes <= 0 {
		return title, 0, false
	}

	return strings.TrimSpace(m[1]), minutes, true
}
