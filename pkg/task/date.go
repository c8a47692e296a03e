package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/gantt/pkg/timeutil"
)

const layoutISO = "2006-01-02"

// Date is a calendar day. The zero value means "not set" and marshals to an
// empty string, matching how imported sheets leave cells blank.
type Date struct {
	time.Time
}

// NewDate builds a Date pinned to midnight UTC.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date{timeutil.Midnight(t)}
}

// ParseDate accepts YYYY-MM-DD, D/M/YYYY, and D/M/YY. Two-digit years below
// 50 resolve to 20xx, the rest to 19xx.
func ParseDate(v string) (Date, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(layoutISO, s); err == nil {
		return Date{t}, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("unrecognized date %q", v)
	}
	d, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, fmt.Errorf("unrecognized date %q", v)
	}
	if len(strings.TrimSpace(parts[2])) <= 2 {
		if y < 50 {
			y += 2000
		} else {
			y += 1900
		}
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return Date{}, fmt.Errorf("date %q out of range", v)
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != time.Month(m) {
		return Date{}, fmt.Errorf("date %q out of range", v)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(layoutISO)
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{timeutil.AddDays(d.Time, n)}
}

// Equal reports whether both dates name the same calendar day, treating two
// zero dates as equal.
func (d Date) Equal(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return d.IsZero() == o.IsZero()
	}
	return timeutil.SameDay(d.Time, o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", d.Format(layoutISO))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}
