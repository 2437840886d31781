package utils

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"across month", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in, time.UTC); !got.Equal(tt.want) {
				t.Errorf("WeekStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDayAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	day := time.Date(2024, 3, 31, 0, 0, 0, 0, loc)
	next := NextDay(day)
	if next.Hour() != 0 || next.Day() != 1 {
		t.Errorf("NextDay() = %v, want midnight of April 1", next)
	}
	if got := next.Sub(day); got != 23*time.Hour {
		t.Errorf("DST day length = %v, want 23h", got)
	}
}

func TestAtMinute(t *testing.T) {
	day := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)
	if got := AtMinute(day, 12*60+30); !got.Equal(time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC)) {
		t.Errorf("AtMinute() = %v", got)
	}
}

func TestParseDateTimeInLocation(t *testing.T) {
	now := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01 08:15", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), false},
		{"08:15", time.Date(2024, 3, 4, 8, 15, 0, 0, time.UTC), false},
		{" 23:59 ", time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC), false},
		{"tomorrow", time.Time{}, true},
		{"2024-03-01", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateTimeInLocation(tt.in, now, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateTimeInLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDateTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("mon, Tuesday,5")
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Weekday{time.Monday, time.Tuesday, time.Friday}
	if len(days) != len(want) {
		t.Fatalf("ParseWeekdays() = %v", days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %v, want %v", i, days[i], want[i])
		}
	}
	if FormatWeekdays(days) != "mon,tue,fri" {
		t.Errorf("FormatWeekdays() = %q", FormatWeekdays(days))
	}

	if days, err := ParseWeekdays(""); err != nil || len(days) != 0 {
		t.Errorf("ParseWeekdays(\"\") = %v, %v", days, err)
	}
	if _, err := ParseWeekdays("mon,someday"); err == nil {
		t.Error("ParseWeekdays() should reject unknown names")
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") || !ValidateTimezone("") || !ValidateTimezone("UTC") {
		t.Error("Local, empty and UTC should be valid")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("Mars/Olympus should be invalid")
	}
}
