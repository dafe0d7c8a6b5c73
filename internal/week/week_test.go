package week

import (
	"testing"
	"time"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), "2024-01-08"},
		{"wednesday", time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC), "2024-01-08"},
		{"saturday", time.Date(2024, 1, 13, 12, 0, 0, 0, time.UTC), "2024-01-08"},
		{"sunday goes back six days", time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC), "2024-01-08"},
		{"across month", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), "2024-02-26"},
		{"across year", time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.in); got != tt.want {
				t.Errorf("KeyFor(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyForUsesLocalCalendarDate(t *testing.T) {
	// 23:30 on Sunday in UTC-5 is already Monday in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, 1, 14, 23, 30, 0, 0, loc)
	if got := KeyFor(in); got != "2024-01-08" {
		t.Errorf("KeyFor(%v) = %s, want 2024-01-08", in, got)
	}
}

func TestCurrentKeyIsMonday(t *testing.T) {
	key := CurrentKey()
	if !IsMonday(key) {
		t.Errorf("CurrentKey() = %s, not a Monday", key)
	}
}

func TestKeyForAlwaysMonday(t *testing.T) {
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		day := start.AddDate(0, 0, i)
		if key := KeyFor(day); !IsMonday(key) {
			t.Fatalf("KeyFor(%s) = %s, not a Monday", Format(day), key)
		}
	}
}

func TestRangeOf(t *testing.T) {
	r, err := RangeOf("2024-01-08")
	if err != nil {
		t.Fatalf("RangeOf failed: %v", err)
	}
	if got := Format(r.End); got != "2024-01-12" {
		t.Errorf("End = %s, want 2024-01-12", got)
	}
	if got := r.End.Sub(r.Start); got != 4*24*time.Hour {
		t.Errorf("End - Start = %v, want 96h", got)
	}
	if got := r.String(); got != "08/01/2024 - 12/01/2024" {
		t.Errorf("String() = %q", got)
	}
	if got := r.Short(); got != "08 Jan - 12 Jan" {
		t.Errorf("Short() = %q", got)
	}
}

func TestRangeOfDoesNotRequireMonday(t *testing.T) {
	r, err := RangeOf("2024-01-10")
	if err != nil {
		t.Fatalf("RangeOf failed: %v", err)
	}
	if got := Format(r.End); got != "2024-01-14" {
		t.Errorf("End = %s, want 2024-01-14", got)
	}
}

func TestRangeOfRejectsMalformedKey(t *testing.T) {
	for _, key := range []string{"", "2024/01/08", "next week"} {
		if _, err := RangeOf(key); !wkerrors.IsValidation(err) {
			t.Errorf("RangeOf(%q) error = %v, want validation error", key, err)
		}
	}
}

func TestAvailableDefault(t *testing.T) {
	weeks, err := Available("2024-01-08", DefaultCount)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}

	want := []string{
		"2023-12-11", "2023-12-18", "2023-12-25", "2024-01-01",
		"2024-01-08",
		"2024-01-15", "2024-01-22", "2024-01-29", "2024-02-05",
	}
	if len(weeks) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(weeks), len(want), weeks)
	}
	for i := range want {
		if weeks[i] != want[i] {
			t.Errorf("weeks[%d] = %s, want %s", i, weeks[i], want[i])
		}
	}
	if weeks[4] != "2024-01-08" {
		t.Errorf("middle week = %s, want current", weeks[4])
	}

	seen := map[string]bool{}
	for i, w := range weeks {
		if seen[w] {
			t.Errorf("duplicate week %s", w)
		}
		seen[w] = true
		if i > 0 && weeks[i-1] >= w {
			t.Errorf("weeks not chronological at %d: %s >= %s", i, weeks[i-1], w)
		}
	}
}

func TestAvailableOddCountTruncates(t *testing.T) {
	weeks, err := Available("2024-01-08", 5)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}
	if len(weeks) != 5 {
		t.Errorf("len = %d, want 5 (2 past + current + 2 future)", len(weeks))
	}

	weeks, err = Available("2024-01-08", 0)
	if err != nil {
		t.Fatalf("Available failed: %v", err)
	}
	if len(weeks) != 1 || weeks[0] != "2024-01-08" {
		t.Errorf("Available(0) = %v, want only current", weeks)
	}
}

func TestAvailableRejectsNegativeCount(t *testing.T) {
	if _, err := Available("2024-01-08", -2); !wkerrors.IsValidation(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestShift(t *testing.T) {
	got, err := Shift("2024-01-08", -1)
	if err != nil {
		t.Fatalf("Shift failed: %v", err)
	}
	if got != "2024-01-01" {
		t.Errorf("Shift(-1) = %s, want 2024-01-01", got)
	}

	// A mid-week key snaps to its Monday
	got, err = Shift("2024-01-10", 1)
	if err != nil {
		t.Fatalf("Shift failed: %v", err)
	}
	if got != "2024-01-15" {
		t.Errorf("Shift(+1) = %s, want 2024-01-15", got)
	}
}
