package event

import (
	"fmt"
	"time"
)

// Order is the result of comparing two timestamps.
type Order int

// Comparison results. The ordering is deliberately inverted relative to
// wall-clock time: a timestamp that is later on the clock compares as
// OrderLess. The merge and window-widening logic is written against this
// orientation, so both sides must stay consistent.
const (
	OrderEqual Order = iota
	OrderGreater
	OrderLess
)

// Timestamp is the wall-clock instant attached to a combat log line.
// The log carries no year, so the year is supplied externally.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	Millis int
}

// ParseTimestamp builds a Timestamp from the date and time fields of a
// log line, using year for the missing year component.
func ParseTimestamp(dateToken, timeToken string, year int) (Timestamp, error) {
	ts := Timestamp{Year: year}
	if err := ts.parseDate(dateToken); err != nil {
		return Timestamp{}, err
	}
	if err := ts.parseTime(timeToken); err != nil {
		return Timestamp{}, err
	}
	return ts, nil
}

// parseDate reads a "month/day" field.
func (t *Timestamp) parseDate(token string) error {
	fields, err := splitNumericFields(token, '/', 2)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", token, err)
	}
	t.Month = fields[0]
	t.Day = fields[1]
	return nil
}

// parseTime reads an "hour:minute:second.millis" field.
func (t *Timestamp) parseTime(token string) error {
	clock, millis, ok := cutLast(token, '.')
	if !ok {
		return fmt.Errorf("parsing time %q: missing millisecond separator", token)
	}

	fields, err := splitNumericFields(clock, ':', 3)
	if err != nil {
		return fmt.Errorf("parsing time %q: %w", token, err)
	}

	t.Hour = fields[0]
	t.Minute = fields[1]
	t.Second = fields[2]
	t.Millis = parseElement(millis)
	return nil
}

// Compare orders t against other with the inverted orientation: the
// chronologically later timestamp is OrderLess.
func (t Timestamp) Compare(other Timestamp) Order {
	pairs := [...][2]int{
		{t.Year, other.Year},
		{t.Month, other.Month},
		{t.Day, other.Day},
		{t.Hour, other.Hour},
		{t.Minute, other.Minute},
		{t.Second, other.Second},
		{t.Millis, other.Millis},
	}

	for _, p := range pairs {
		if p[0] > p[1] {
			return OrderLess
		}
		if p[0] < p[1] {
			return OrderGreater
		}
	}

	return OrderEqual
}

// Before reports whether t is chronologically earlier than other.
func (t Timestamp) Before(other Timestamp) bool {
	return t.Compare(other) == OrderGreater
}

// ElapsedSeconds returns t minus earlier in whole seconds, positive when
// t is chronologically later. Milliseconds are ignored.
func (t Timestamp) ElapsedSeconds(earlier Timestamp) int {
	return int(t.civil().Sub(earlier.civil()) / time.Second)
}

func (t Timestamp) civil() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day,
		t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// String renders the timestamp without milliseconds.
func (t Timestamp) String() string {
	return fmt.Sprintf("%4d-%02d-%02d %02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// splitNumericFields splits token on sep into exactly n numeric fields.
func splitNumericFields(token string, sep byte, n int) ([]int, error) {
	fields := make([]int, 0, n)
	start := 0
	for i := 0; i <= len(token); i++ {
		if i == len(token) || token[i] == sep {
			fields = append(fields, parseElement(token[start:i]))
			start = i + 1
		}
	}
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, found %d", n, len(fields))
	}
	return fields, nil
}

// cutLast splits s around the final occurrence of sep.
func cutLast(s string, sep byte) (before, after string, found bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// parseElement converts a field to an integer, skipping any bytes outside
// the printable ASCII range.
func parseElement(s string) int {
	value := 0
	negative := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 32 || c > 126 {
			continue
		}
		if c == '-' && value == 0 && !negative {
			negative = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int(c-'0')
	}
	if negative {
		return -value
	}
	return value
}
