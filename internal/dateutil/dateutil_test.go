package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseAnchor(t *testing.T) {
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		input   string
		want    time.Time
		wantErr error
	}{
		{"", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil},
		{"today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil},
		{"TOMORROW", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), nil},
		{"yesterday", time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), nil},
		{"2024-12-31", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil},
		{" 2025-02-01 ", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil},
		{"next-week", time.Time{}, ErrInvalidDateFormat},
		{"2025/01/15", time.Time{}, ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAnchor(tt.input, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMoment(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"14:00", time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC)},
		{"2025-02-01 09:15", time.Date(2025, 2, 1, 9, 15, 0, 0, time.UTC)},
		{"2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMoment(tc.input, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseMoment(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"25:00", "2025-13-01 10:00", "next week"} {
		if _, err := ParseMoment(bad, now); !errors.Is(err, ErrInvalidMoment) {
			t.Errorf("ParseMoment(%q) error = %v, want ErrInvalidMoment", bad, err)
		}
	}
}

func TestTruncateToHour(t *testing.T) {
	in := time.Date(2025, 3, 9, 17, 45, 12, 999, time.UTC)
	want := time.Date(2025, 3, 9, 17, 0, 0, 0, time.UTC)
	if got := TruncateToHour(in); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		sunday   time.Time
		saturday time.Time
	}{
		{
			name:     "wednesday",
			input:    time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			sunday:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			saturday: time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "sunday starts its own week",
			input:    time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC),
			sunday:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			saturday: time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "saturday across year boundary",
			input:    time.Date(2025, 1, 4, 8, 0, 0, 0, time.UTC),
			sunday:   time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
			saturday: time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sunday, saturday := WeekRange(tt.input)
			if !sunday.Equal(tt.sunday) {
				t.Errorf("sunday = %v, want %v", sunday, tt.sunday)
			}
			if !saturday.Equal(tt.saturday) {
				t.Errorf("saturday = %v, want %v", saturday, tt.saturday)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
