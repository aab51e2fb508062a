package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

var lagos = time.FixedZone("WAT", 3600)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, lagos)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculate_SameDayBoundary(t *testing.T) {
	r := Calculate(at("2024-01-15T23:59:00"), "2024-01-15", "2024-01-15")
	if !r.Valid || !r.IsSameDay {
		t.Fatalf("expected valid same-day result, got %+v", r)
	}
	if r.IsOverdue {
		t.Error("23:59 on the return date should not be overdue")
	}

	r = Calculate(at("2024-01-16T00:00:01"), "2024-01-15", "2024-01-15")
	if !r.IsOverdue {
		t.Error("00:00:01 the next day should be overdue")
	}
}

func TestCalculate_SameDayIgnoresTimeOfDay(t *testing.T) {
	r := Calculate(at("2024-01-15T23:59:59"), "2024-01-15T08:00:00Z", "2024-01-15T10:00:00Z")
	if r.IsOverdue {
		t.Error("same-day exeat is not overdue before the calendar date changes")
	}
}

func TestCalculate_MultiDayCountdown(t *testing.T) {
	r := Calculate(at("2024-01-14T12:00:00"), "2024-01-10", "2024-01-15")
	if !r.Valid || r.IsSameDay || r.IsOverdue {
		t.Fatalf("unexpected flags: %+v", r)
	}
	// 35h59m59s to 23:59:59 on the 15th
	if r.Days != 1 || r.Hours != 11 || r.Minutes != 59 || r.Seconds != 59 {
		t.Errorf("expected 1d 11h 59m 59s, got %dd %dh %dm %ds", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
}

func TestCalculate_MultiDayOverdue(t *testing.T) {
	r := Calculate(at("2024-01-17T02:30:00"), "2024-01-10", "2024-01-15")
	if !r.IsOverdue {
		t.Fatal("expected overdue")
	}
	if r.Days != 1 || r.Hours != 2 || r.Minutes != 30 {
		t.Errorf("expected 1d 2h 30m overdue, got %dd %dh %dm", r.Days, r.Hours, r.Minutes)
	}
}

func TestCalculate_InvalidDates(t *testing.T) {
	for _, c := range [][2]string{{"", "2024-01-15"}, {"2024-01-10", "soon"}, {"15/01/2024", "2024-01-16"}} {
		r := Calculate(at("2024-01-14T12:00:00"), c[0], c[1])
		if r.Valid || r.IsOverdue || r.Total() != 0 {
			t.Errorf("Calculate(%q,%q) should be zero, got %+v", c[0], c[1], r)
		}
	}
}

func TestProgress(t *testing.T) {
	if p := Progress(at("2024-01-09T12:00:00"), "2024-01-10", "2024-01-15"); p != 0 {
		t.Errorf("before departure expected 0, got %v", p)
	}
	if p := Progress(at("2024-01-20T12:00:00"), "2024-01-10", "2024-01-15"); p != 100 {
		t.Errorf("after return expected 100, got %v", p)
	}
	p := Progress(at("2024-01-13T00:00:00"), "2024-01-10", "2024-01-15")
	if p <= 40 || p >= 60 {
		t.Errorf("mid-window expected ~50, got %v", p)
	}
	if p := Progress(at("2024-01-13T00:00:00"), "bad", "2024-01-15"); p != 0 {
		t.Errorf("invalid dates expected 0, got %v", p)
	}
}

func TestDurationDays(t *testing.T) {
	cases := []struct {
		dep, ret string
		want     int
	}{
		{"2024-01-15", "2024-01-15", 1},
		{"2024-01-10", "2024-01-15", 5},
		{"2024-01-31", "2024-02-02", 2},
		{"bad", "2024-01-15", 1},
	}
	for _, c := range cases {
		if got := DurationDays(c.dep, c.ret); got != c.want {
			t.Errorf("DurationDays(%s,%s): expected %d, got %d", c.dep, c.ret, c.want, got)
		}
	}
}

func TestTicker_WatchStopsOnCancel(t *testing.T) {
	tk := NewTicker(10*time.Millisecond, time.Millisecond)
	tk.Now = func() time.Time { return at("2024-01-14T12:00:00") }

	ctx, cancel := context.WithCancel(context.Background())
	ch := tk.Watch(ctx, "2024-01-10", "2024-01-15", false)

	first, ok := <-ch
	if !ok || !first.Valid {
		t.Fatalf("expected an initial countdown, got %+v ok=%v", first, ok)
	}
	second, ok := <-ch
	if !ok || second.Days != first.Days {
		t.Fatalf("expected a second tick, got %+v ok=%v", second, ok)
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel was not closed after cancel")
		}
	}
}

func TestTicker_WatchSpeedsUpWhenPrecise(t *testing.T) {
	tk := NewTicker(200*time.Millisecond, 5*time.Millisecond)
	var calls atomic.Int32
	tk.Now = func() time.Time {
		if calls.Add(1) == 1 {
			return at("2024-01-13T12:00:00")
		}
		return at("2024-01-15T23:10:00")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := tk.Watch(ctx, "2024-01-10", "2024-01-15", false)

	if first := <-ch; first.Precise() {
		t.Fatalf("first emission should be multi-day, got %+v", first)
	}
	second := <-ch
	if !second.Precise() {
		t.Fatalf("second emission should be precise, got %+v", second)
	}
	start := time.Now()
	if third := <-ch; !third.Precise() {
		t.Fatalf("third emission should be precise, got %+v", third)
	}
	if gap := time.Since(start); gap >= 150*time.Millisecond {
		t.Errorf("expected the precise interval after the mode flip, waited %v", gap)
	}
}

func TestTicker_Interval(t *testing.T) {
	tk := NewTicker(0, 0)
	if tk.Interval(false) != time.Minute || tk.Interval(true) != time.Second {
		t.Errorf("unexpected defaults: %v %v", tk.Interval(false), tk.Interval(true))
	}
}

func TestRemaining_Precise(t *testing.T) {
	if !Calculate(at("2024-01-10T15:00:00"), "2024-01-10", "2024-01-10").Precise() {
		t.Error("same-day exeat should tick every second")
	}
	if Calculate(at("2024-01-10T15:00:00"), "2024-01-10", "2024-01-13").Precise() {
		t.Error("multi-day countdown should tick every minute")
	}
	if Calculate(at("2024-01-15T15:00:00"), "2024-01-10", "2024-01-13").Precise() {
		t.Error("overdue countdown should tick every minute")
	}
}
