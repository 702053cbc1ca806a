package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateLabel(t *testing.T) {
	cases := []struct {
		in   string
		want DateLabel
		ok   bool
	}{
		{"Apr 15", DateLabel{Month: "Apr", Day: 15}, true},
		{" Jan  1 ", DateLabel{Month: "Jan", Day: 1}, true},
		{"Dec 31", DateLabel{Month: "Dec", Day: 31}, true},
		{"Apr", DateLabel{}, false},
		{"Apr 0", DateLabel{}, false},
		{"Apr 32", DateLabel{}, false},
		{"Apr x", DateLabel{}, false},
		{"2025-04-15", DateLabel{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDateLabel(tc.in)
			if !tc.ok {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %+v err=%v, want %+v", got, err, tc.want)
			}
			if got.String() != tc.want.String() {
				t.Fatalf("String() = %q", got.String())
			}
		})
	}
}

func TestMonthHelpers(t *testing.T) {
	now := time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)
	if MonthOf(now) != "Apr" {
		t.Fatalf("MonthOf = %q", MonthOf(now))
	}
	if LabelFor(now) != "Apr 15" {
		t.Fatalf("LabelFor = %q", LabelFor(now))
	}
	if MonthOfLabel("Mar 3") != "Mar" || MonthOfLabel("") != "" {
		t.Fatalf("MonthOfLabel mismatch")
	}
	if DaysIn(now) != 30 {
		t.Fatalf("DaysIn(Apr) = %d", DaysIn(now))
	}
	if DaysIn(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) != 29 {
		t.Fatalf("DaysIn(Feb 2024) should be 29")
	}
}

func TestParseWeekRange(t *testing.T) {
	w, ok := ParseWeekRange("Apr 15 - Apr 21")
	if !ok {
		t.Fatalf("expected ok")
	}
	if w.StartDay != 15 || w.EndDay != 21 || w.StartMonth != "Apr" || w.EndMonth != "Apr" {
		t.Fatalf("unexpected range %+v", w)
	}
	if w.String() != "Apr 15 - Apr 21" {
		t.Fatalf("String() = %q", w.String())
	}
	for day, want := range map[int]bool{14: false, 15: true, 18: true, 21: true, 22: false} {
		if w.Contains(day) != want {
			t.Errorf("Contains(%d) = %v", day, !want)
		}
	}

	for _, bad := range []string{"Apr 15", "Apr 15 - ", "Apr x - Apr 21", "Feb"} {
		if _, ok := ParseWeekRange(bad); ok {
			t.Errorf("%q should not parse", bad)
		}
	}
}
