package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	inviteCodeLength = 8
)

// Clock returns the current time; services take one so tests can pin "today"
type Clock func() time.Time

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC
func ParseDate(date string) (time.Time, error) {
	if len(date) != len(dateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ValidateDate checks that date is a real YYYY-MM-DD calendar date
func ValidateDate(date string) error {
	_, err := ParseDate(date)
	return err
}

// Today returns the calendar date of now in loc
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(dateLayout)
}

// validatePastDate checks the format and rejects dates strictly after today
func validatePastDate(date, today string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	// Both sides are zero-padded YYYY-MM-DD, so string order is date order.
	if date > today {
		return ErrFutureDate
	}
	return nil
}

// DeriveInviteCode turns a start date into its invite code: the eight date
// digits read as one integer, written in upper-case base 36 and left-padded
// with zeros to eight characters.
func DeriveInviteCode(startDate string) (string, error) {
	if err := ValidateDate(startDate); err != nil {
		return "", err
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(startDate, "-", ""), 10, 64)
	if err != nil {
		return "", ErrInvalidDate
	}
	code := strings.ToUpper(strconv.FormatInt(n, 36))
	if len(code) < inviteCodeLength {
		code = strings.Repeat("0", inviteCodeLength-len(code)) + code
	}
	// 99991231 in base 36 is six characters, so nothing is ever cut here.
	return code[:inviteCodeLength], nil
}

// DecodeInviteCode recovers the start date an invite code was derived from
func DecodeInviteCode(code string) (string, error) {
	code = NormalizeInviteCode(code)
	if len(code) != inviteCodeLength {
		return "", ErrInviteNotFound
	}
	n, err := strconv.ParseInt(code, 36, 64)
	if err != nil || n < 0 || n > 99999999 {
		return "", ErrInviteNotFound
	}
	digits := fmt.Sprintf("%08d", n)
	date := digits[:4] + "-" + digits[4:6] + "-" + digits[6:]
	if err := ValidateDate(date); err != nil {
		return "", ErrInviteNotFound
	}
	return date, nil
}

// NormalizeInviteCode trims and upper-cases a user-typed code
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DaysInLove returns the whole days from startDate to today, never negative
func DaysInLove(startDate, today string) int {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0
	}
	end, err := ParseDate(today)
	if err != nil {
		return 0
	}
	// Duration saturates near 292 years, so count seconds between the two midnights.
	days := int((end.Unix() - start.Unix()) / 86400)
	if days < 0 {
		return 0
	}
	return days
}

// DaysInYear lists every calendar date of year, Jan 1 through Dec 31, in UTC
func DaysInYear(year int) []string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := make([]string, 0, 366)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}

// DaysBefore returns the date n days before date
func DaysBefore(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -n).Format(dateLayout), nil
}
