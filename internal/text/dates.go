package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

var (
	isoDateRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?$`)
)

// ParseFlexibleDate accepts YYYY-MM-DD, D/M, D-M, D/M/YYYY or D-M-YYYY
// (day first). When the year is omitted the current year is assumed.
// Returns the ISO form and false when the token is not shaped like a
// date or does not denote a real calendar day (31/02, 2023-02-30, ...).
func ParseFlexibleDate(token string) (string, bool) {
	token = strings.TrimSpace(token)

	if m := isoDateRe.FindStringSubmatch(token); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return buildDate(y, mo, d)
	}

	if m := dayFirstRe.FindStringSubmatch(token); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y := time.Now().Year()
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
		}
		return buildDate(y, mo, d)
	}

	return "", false
}

func buildDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// time.Date normalizes overflow (Feb 30 -> Mar 2); a round trip
	// mismatch means the components were not a real calendar day.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return t.Format(isoDateLayout), true
}

// IsValidDate reports whether an ISO YYYY-MM-DD string round-trips
// through calendar-date construction.
func IsValidDate(iso string) bool {
	t, err := time.Parse(isoDateLayout, iso)
	return err == nil && t.Format(isoDateLayout) == iso
}

// ParseFlexibleTime accepts H, HH, H:MM or HH:MM and returns the
// zero-padded HH:MM form. A bare hour is taken as :00.
func ParseFlexibleTime(token string) (string, bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	if h > 23 || min > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, min), true
}

// AddMinutes adds n minutes to an HH:MM wall-clock time, wrapping
// within a 24-hour clock. The input is assumed already validated.
func AddMinutes(hhmm string, n int) string {
	parts := strings.SplitN(hhmm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) == 2 {
		m, _ = strconv.Atoi(parts[1])
	}
	total := ((h*60+m+n)%1440 + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
