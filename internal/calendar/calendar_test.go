package calendar

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	// 2017-05-22 is a Monday.
	if !IsBusinessDay(day(2017, time.May, 22)) {
		t.Error("Monday reported as non-business day")
	}
	if IsBusinessDay(day(2017, time.May, 20)) {
		t.Error("Saturday reported as business day")
	}
	if IsBusinessDay(day(2017, time.May, 21)) {
		t.Error("Sunday reported as business day")
	}
}

func TestPrevBusinessDay(t *testing.T) {
	// Monday rolls back over the weekend to Friday.
	got := PrevBusinessDay(day(2017, time.May, 22))
	want := day(2017, time.May, 19)
	if !got.Equal(want) {
		t.Errorf("PrevBusinessDay(Mon) = %v, want %v", got, want)
	}

	got = PrevBusinessDay(day(2017, time.May, 24))
	want = day(2017, time.May, 23)
	if !got.Equal(want) {
		t.Errorf("PrevBusinessDay(Wed) = %v, want %v", got, want)
	}
}

func TestRoll(t *testing.T) {
	// Saturday and Sunday both roll to the preceding Friday.
	friday := day(2017, time.May, 19)
	for _, d := range []time.Time{day(2017, time.May, 20), day(2017, time.May, 21)} {
		if got := Roll(d); !got.Equal(friday) {
			t.Errorf("Roll(%v) = %v, want %v", d, got, friday)
		}
	}
	if got := Roll(friday); !got.Equal(friday) {
		t.Errorf("Roll(Fri) = %v, want unchanged", got)
	}
}

func TestWindowEnding(t *testing.T) {
	// Five business days ending Tuesday 2017-05-23 span the prior week's
	// Wednesday through Tuesday, skipping the weekend.
	got := WindowEnding(day(2017, time.May, 23), 5)
	want := []time.Time{
		day(2017, time.May, 17),
		day(2017, time.May, 18),
		day(2017, time.May, 19),
		day(2017, time.May, 22),
		day(2017, time.May, 23),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("WindowEnding[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWindowEnding_WeekendEnd(t *testing.T) {
	got := WindowEnding(day(2017, time.May, 21), 2)
	want := []time.Time{day(2017, time.May, 18), day(2017, time.May, 19)}
	if len(got) != 2 || !got[0].Equal(want[0]) || !got[1].Equal(want[1]) {
		t.Errorf("WindowEnding(Sun, 2) = %v, want %v", got, want)
	}
}

func TestWindowEnding_Empty(t *testing.T) {
	if got := WindowEnding(day(2017, time.May, 23), 0); got != nil {
		t.Errorf("WindowEnding(n=0) = %v, want nil", got)
	}
}

func TestRange(t *testing.T) {
	got := Range(day(2017, time.May, 19), day(2017, time.May, 23))
	want := []time.Time{
		day(2017, time.May, 19),
		day(2017, time.May, 22),
		day(2017, time.May, 23),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Range[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Range(day(2017, time.May, 23), day(2017, time.May, 19)); got != nil {
		t.Errorf("inverted Range = %v, want nil", got)
	}
}
