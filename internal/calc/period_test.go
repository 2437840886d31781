package calc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

func TestSumMoments(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	now := start.Add(48 * time.Hour)
	at := func(h, m int) time.Time { return start.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	ev := func(typ models.EventType, h, m int) models.Event { return models.Event{Time: at(h, m), Type: typ} }

	tests := []struct {
		name    string
		carryIn bool
		events  []models.Event
		want    int64
	}{
		{"empty", false, nil, 0},
		{"single session", false, []models.Event{ev(models.ClockIn, 8, 0), ev(models.ClockOut, 12, 0)}, 240},
		{"two sessions", false, []models.Event{
			ev(models.ClockIn, 8, 0), ev(models.ClockOut, 12, 0),
			ev(models.ClockIn, 13, 0), ev(models.ClockOut, 17, 30),
		}, 510},
		{"task switch keeps session", false, []models.Event{
			ev(models.ClockIn, 8, 0), ev(models.ClockIn, 10, 0), ev(models.ClockOut, 12, 0),
		}, 240},
		{"stray clock-out ignored", false, []models.Event{
			ev(models.ClockOut, 7, 0), ev(models.ClockIn, 8, 0), ev(models.ClockOut, 9, 0), ev(models.ClockOut, 10, 0),
		}, 60},
		{"carry-over closed by first clock-out", true, []models.Event{ev(models.ClockOut, 6, 0)}, 360},
		{"carry-over never closed", true, nil, 1440},
		{"open at end", false, []models.Event{ev(models.ClockIn, 20, 0)}, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SumMoments(start, end, now, tt.carryIn, models.Moments(tt.events))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSumMomentsNeverCountsPastNow(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	// period entirely in the future
	assert.Equal(t, int64(0), SumMoments(start, end, start.Add(-time.Hour), true, nil))
	// open session stops at now
	assert.Equal(t, int64(90), SumMoments(start, end, start.Add(90*time.Minute), true, nil))
}

func TestSumMomentsSyntheticNowClosesSession(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	now := start.Add(10 * time.Hour)

	moments := withSyntheticNow([]models.Event{
		{Time: start.Add(8 * time.Hour), Type: models.ClockIn},
		{Time: start.Add(15 * time.Hour), Type: models.ClockOut},
	}, now)

	require.Len(t, moments, 3)
	assert.True(t, moments[1].IsSynthetic())
	_, persisted := moments[1].Persisted()
	assert.False(t, persisted)
	assert.Equal(t, int64(120), SumMoments(start, end, now, false, moments))
}

// Scenario B: clocked in Friday 22:00 and never out; queried Saturday 10:00.
func TestSumOpenSessionCountsUpToNow(t *testing.T) {
	f := newFixture(t, "2024-03-09 10:00", nil)
	f.in("2024-03-08 22:00")

	got, err := f.calc.Sum(date(t, "2024-03-09"), date(t, "2024-03-11"))
	require.NoError(t, err)
	assert.Equal(t, hm("10:00"), got)

	week, err := f.calc.WeekSum(date(t, "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, hm("12:00"), week)

	events, err := f.store.GetEventsInRange(date(t, "2024-03-01"), date(t, "2024-03-31"))
	require.NoError(t, err)
	assert.Len(t, events, 1, "synthetic clock-out must not be stored")
}

func TestSumPastOpenSessionRunsToPeriodEnd(t *testing.T) {
	f := newFixture(t, "2024-03-12 10:00", nil)
	f.in("2024-03-08 22:00")

	got, err := f.calc.Sum(date(t, "2024-03-09"), date(t, "2024-03-11"))
	require.NoError(t, err)
	assert.Equal(t, hm("48:00"), got)
}

func TestSumSubtractsLiveAutoPause(t *testing.T) {
	enable := func(s *models.Settings) {
		s.AutoPauseEnabled = true
		s.AutoPauseBegin = "12:00"
		s.AutoPauseEnd = "13:00"
	}

	tests := []struct {
		name string
		now  string
		want string
	}{
		{"window elapsed", "2024-03-04 15:00", "5:00"},
		{"inside window", "2024-03-04 12:30", "3:30"},
		{"before window", "2024-03-04 11:00", "2:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now, enable)
			f.in("2024-03-04 09:00")

			got, err := f.calc.Sum(date(t, "2024-03-04"), date(t, "2024-03-05"))
			require.NoError(t, err)
			assert.Equal(t, hm(tt.want), got)
		})
	}
}

func TestSumEmptyOrInvertedPeriod(t *testing.T) {
	f := newFixture(t, "2024-03-04 15:00", nil)
	f.in("2024-03-04 09:00")

	got, err := f.calc.Sum(date(t, "2024-03-05"), date(t, "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, hm("0:00"), got)
}

func TestSumClampsAbsurdOpenSession(t *testing.T) {
	f := newFixture(t, "8000-01-01 00:00", nil)
	f.in("1000-01-01 00:00")

	got, err := f.calc.Sum(ts(t, "1000-01-01 00:00"), ts(t, "9000-01-01 00:00"))
	require.NoError(t, err)
	assert.Equal(t, timevalue.TimeValue(math.MaxInt32), got)
}
