// Package countdown derives time-to-return and overdue durations for an exeat.
// Everything here is a display aid: bad input yields a zero result, never an error.
package countdown

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Remaining is the decomposed distance between now and a return deadline.
// When IsOverdue is set the fields count time elapsed past the deadline.
type Remaining struct {
	Days      int       `json:"days"`
	Hours     int       `json:"hours"`
	Minutes   int       `json:"minutes"`
	Seconds   int       `json:"seconds"`
	IsOverdue bool      `json:"is_overdue"`
	IsSameDay bool      `json:"is_same_day"`
	Valid     bool      `json:"valid"`
	Deadline  time.Time `json:"deadline,omitempty"`
}

// Total returns the duration the fields describe.
func (r Remaining) Total() time.Duration {
	return time.Duration(r.Days)*24*time.Hour +
		time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}

// Precise reports whether the display should tick every second: the
// deadline is less than a day away.
func (r Remaining) Precise() bool {
	return r.Valid && !r.IsOverdue && r.Days == 0
}

// ParseDate reads the calendar date at the start of s (YYYY-MM-DD, optionally
// followed by a time part) as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's date in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Calculate parses the exeat dates in now's location and computes the countdown.
func Calculate(now time.Time, departure, ret string) Remaining {
	dep, ok := ParseDate(departure, now.Location())
	if !ok {
		return Remaining{}
	}
	back, ok := ParseDate(ret, now.Location())
	if !ok {
		return Remaining{}
	}
	return CalculateDates(now, dep, back)
}

// CalculateDates computes the countdown for already-parsed dates. The deadline
// is the end of the return date. Same-day exeats are overdue only once now's
// calendar date is past the return date.
func CalculateDates(now, departure, ret time.Time) Remaining {
	if departure.IsZero() || ret.IsZero() {
		return Remaining{}
	}
	loc := now.Location()
	departure = StartOfDay(departure.In(loc))
	ret = StartOfDay(ret.In(loc))
	deadline := EndOfDay(ret)

	r := Remaining{
		Valid:     true,
		IsSameDay: departure.Equal(ret),
		Deadline:  deadline,
	}
	if r.IsSameDay {
		r.IsOverdue = StartOfDay(now).After(ret)
	} else {
		r.IsOverdue = now.After(deadline)
	}

	var d time.Duration
	if r.IsOverdue {
		d = now.Sub(deadline)
	} else {
		d = deadline.Sub(now)
	}
	if d < 0 {
		d = 0
	}
	r.Days = int(d / (24 * time.Hour))
	r.Hours = int(d%(24*time.Hour)) / int(time.Hour)
	r.Minutes = int(d%time.Hour) / int(time.Minute)
	r.Seconds = int(d%time.Minute) / int(time.Second)
	return r
}

// Progress returns how much of the exeat window has elapsed, in percent
// clamped to [0,100]. Unparseable dates yield 0.
func Progress(now time.Time, departure, ret string) float64 {
	dep, ok := ParseDate(departure, now.Location())
	if !ok {
		return 0
	}
	back, ok := ParseDate(ret, now.Location())
	if !ok {
		return 0
	}
	start := StartOfDay(dep)
	end := EndOfDay(back)
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	pct := float64(now.Sub(start)) / float64(span) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// DurationDays is the exeat length in whole days, rounded up, at least 1.
func DurationDays(departure, ret string) int {
	dep, ok := ParseDate(departure, time.UTC)
	if !ok {
		return 1
	}
	back, ok := ParseDate(ret, time.UTC)
	if !ok {
		return 1
	}
	hours := back.Sub(dep).Hours()
	days := int(hours / 24)
	if float64(days)*24 < hours {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}
