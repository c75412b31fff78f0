package game

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var trailingParenthetical = regexp.MustCompile(`^(.*?)\s*(\([^()]*\))\s*$`)

// ParseTitle splits a title into its main part and a trailing parenthetical
// subtitle. Colons are never split on.
func ParseTitle(title string) (string, *string) {
	trimmed := strings.TrimSpace(title)
	m := trailingParenthetical.FindStringSubmatch(trimmed)
	if m == nil {
		return trimmed, nil
	}
	main := strings.TrimSpace(m[1])
	if main == "" {
		return trimmed, nil
	}
	subtitle := m[2]
	return main, &subtitle
}

var (
	isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	numericDate   = regexp.MustCompile(`^(\d{1,2})([/\- ])(\d{1,2})([/\- ])(\d{4})$`)
	namedDate     = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)
)

var monthPrefixes = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate parses a day-first or ISO date into UTC midnight. Dates that do
// not exist on the calendar are rejected rather than rolled over.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if m := isoDatePrefix.FindStringSubmatch(s); m != nil {
		return calendarDate(m[1], m[2], m[3])
	}
	if m := numericDate.FindStringSubmatch(s); m != nil {
		if m[2] != m[4] {
			return time.Time{}, false
		}
		return calendarDate(m[5], m[3], m[1])
	}
	if m := namedDate.FindStringSubmatch(s); m != nil {
		name := strings.ToLower(m[2])
		if len(name) < 3 {
			return time.Time{}, false
		}
		month, ok := monthPrefixes[name[:3]]
		if !ok {
			return time.Time{}, false
		}
		return calendarDate(m[3], strconv.Itoa(int(month)), m[1])
	}
	return time.Time{}, false
}

func calendarDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

const isoMillisLayout = "2006-01-02T15:04:05.000Z07:00"

// CanonicalDate returns the ISO-8601 instant for a parseable date, or nil.
func CanonicalDate(raw string) *string {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	s := t.UTC().Format(isoMillisLayout)
	return &s
}

// DateMillis returns the epoch milliseconds of a parseable date.
func DateMillis(raw string) (int64, bool) {
	t, ok := ParseDate(raw)
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

// FormatHours renders fractional hours as "{H}h {M}m".
func FormatHours(hours float64) string {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return ""
	}
	whole := math.Floor(hours)
	minutes := math.Round((hours - whole) * 60)
	if minutes >= 60 {
		whole++
		minutes -= 60
	}
	return fmt.Sprintf("%dh %dm", int(whole), int(minutes))
}

var hoursPattern = regexp.MustCompile(`^(\d+)\s*h(?:\s*(\d+)\s*m)?$`)

// HoursMinutes converts a playtime string back into minutes for sorting.
// Plain numbers are read as hours.
func HoursMinutes(hours string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(hours))
	if s == "" {
		return 0, false
	}
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total := h * 60
		if m[2] != "" {
			mins, _ := strconv.Atoi(m[2])
			total += mins
		}
		return total, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(math.Round(f * 60)), true
	}
	return 0, false
}

// ComputeScore averages the three ratings to one decimal place.
func ComputeScore(presentation, story, gameplay float64) float64 {
	return math.Round((presentation+story+gameplay)/3*10) / 10
}

// TierForScore maps an aggregate score onto a tier.
func TierForScore(score float64) Tier {
	switch {
	case score >= 9:
		return TierS
	case score >= 8:
		return TierA
	case score >= 7:
		return TierB
	case score >= 6:
		return TierC
	case score >= 5:
		return TierD
	default:
		return TierE
	}
}
