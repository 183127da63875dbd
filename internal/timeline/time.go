// Package timeline holds the scheduler's time model: instants counted in
// integer milliseconds since year 0 of the calendar table, and the fixed
// "1 Jun 2027 00:00:01.000" timestamp grammar used by STK visibility files.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Instant is a point in time, in milliseconds.
type Instant int64

const (
	millisPerDay = 24 * 3600 * 1000
	maxYear      = 10000
)

var months = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// partialYearDays returns prefix sums of day counts through whole years.
// Built once; pure lookup data afterwards.
var partialYearDays = sync.OnceValue(func() []int {
	result := make([]int, maxYear)
	for i := 1; i < maxYear; i++ {
		result[i] = result[i-1] + 365
		if isLeap(i) {
			result[i]++
		}
	}
	return result
})

func isLeap(year int) bool {
	switch {
	case year%400 == 0:
		return true
	case year%100 == 0:
		return false
	default:
		return year%4 == 0
	}
}

// Stamp is a broken-down calendar timestamp. Month and Day are 0-indexed.
type Stamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	Millis int
}

// ParseStamp parses "1 Jun 2027 00:00:01.000". Month abbreviations are
// case-exact; the day is not zero-padded.
func ParseStamp(s string) (Stamp, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Stamp{}, fmt.Errorf("timestamp %q: want 4 fields, got %d", s, len(fields))
	}
	return parseStampFields(fields)
}

func parseStampFields(fields []string) (Stamp, error) {
	var st Stamp
	var err error
	if st.Day, err = atoi(fields[0]); err != nil {
		return Stamp{}, fmt.Errorf("day %q: %w", fields[0], err)
	}
	st.Day--
	st.Month = -1
	for i, m := range months {
		if m == fields[1] {
			st.Month = i
			break
		}
	}
	if st.Month < 0 {
		return Stamp{}, fmt.Errorf("unknown month %q", fields[1])
	}
	if st.Year, err = atoi(fields[2]); err != nil {
		return Stamp{}, fmt.Errorf("year %q: %w", fields[2], err)
	}
	clock := fields[3]
	dot := strings.IndexByte(clock, '.')
	if dot < 0 {
		return Stamp{}, fmt.Errorf("clock %q: missing millisecond part", clock)
	}
	if st.Millis, err = atoi(clock[dot+1:]); err != nil {
		return Stamp{}, fmt.Errorf("millis %q: %w", clock[dot+1:], err)
	}
	parts := strings.Split(clock[:dot], ":")
	if len(parts) != 3 {
		return Stamp{}, fmt.Errorf("clock %q: want HH:MM:SS", clock)
	}
	if st.Hour, err = atoi(parts[0]); err != nil {
		return Stamp{}, fmt.Errorf("hour %q: %w", parts[0], err)
	}
	if st.Minute, err = atoi(parts[1]); err != nil {
		return Stamp{}, fmt.Errorf("minute %q: %w", parts[1], err)
	}
	if st.Second, err = atoi(parts[2]); err != nil {
		return Stamp{}, fmt.Errorf("second %q: %w", parts[2], err)
	}
	return st, nil
}

// atoi is a strict decimal parser: digits only, no signs or spaces.
func atoi(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("bad digit %q", c)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// Instant converts the stamp to milliseconds.
func (st Stamp) Instant() Instant {
	days := int64(partialYearDays()[st.Year-1])
	for i := 0; i < st.Month; i++ {
		days += int64(monthDays[i])
		if i == 1 && isLeap(st.Year) {
			days++
		}
	}
	days += int64(st.Day)
	return Instant((((days*24+int64(st.Hour))*60+int64(st.Minute))*60+int64(st.Second))*1000 + int64(st.Millis))
}

// FromInstant converts milliseconds back to a broken-down stamp.
func FromInstant(t Instant) Stamp {
	prefix := partialYearDays()
	days := int(int64(t) / millisPerDay)
	var st Stamp
	st.Year = sort.SearchInts(prefix, days+1)
	days -= prefix[st.Year-1]
	for i := 0; i < len(monthDays); i++ {
		d := monthDays[i]
		if i == 1 && isLeap(st.Year) {
			d++
		}
		if days < d {
			break
		}
		st.Month++
		days -= d
	}
	st.Day = days
	rest := int(int64(t) % millisPerDay)
	st.Millis = rest % 1000
	rest /= 1000
	st.Second = rest % 60
	rest /= 60
	st.Minute = rest % 60
	st.Hour = rest / 60
	return st
}

// String formats the stamp as "1 Jun 2027 00:00:01.000".
func (st Stamp) String() string {
	return fmt.Sprintf("%d %s %d %02d:%02d:%02d.%03d",
		st.Day+1, months[st.Month], st.Year, st.Hour, st.Minute, st.Second, st.Millis)
}

// Parse parses a timestamp string straight to an instant.
func Parse(s string) (Instant, error) {
	st, err := ParseStamp(s)
	if err != nil {
		return 0, err
	}
	return st.Instant(), nil
}

// Format renders an instant in the timestamp grammar.
func Format(t Instant) string {
	return FromInstant(t).String()
}
