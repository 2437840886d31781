package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/punchcard/internal/constants"
	"github.com/julianstephens/punchcard/internal/models"
	"github.com/julianstephens/punchcard/internal/storage/memory"
	"github.com/julianstephens/punchcard/internal/timevalue"
)

// ts parses "YYYY-MM-DD HH:MM" in UTC.
func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation(constants.DateTimeFormat, s, time.UTC)
	require.NoError(t, err)
	return v
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation(constants.DateFormat, s, time.UTC)
	require.NoError(t, err)
	return v
}

func hm(s string) timevalue.TimeValue {
	return timevalue.MustParse(s)
}

type fixture struct {
	t     *testing.T
	store *memory.Store
	now   time.Time
	calc  *Calculator
}

// newFixture builds a calculator over an empty in-memory store with 40h/5d
// defaults in UTC. mutate may adjust the settings first.
func newFixture(t *testing.T, now string, mutate func(*models.Settings)) *fixture {
	t.Helper()
	store := memory.NewStore("")
	require.NoError(t, store.Init())

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if mutate != nil {
		mutate(&settings)
	}
	require.NoError(t, store.SaveSettings(settings))

	f := &fixture{t: t, store: store, now: ts(t, now)}
	calc, err := Load(store, func() time.Time { return f.now })
	require.NoError(t, err)
	f.calc = calc
	return f
}

func (f *fixture) in(s string) {
	f.t.Helper()
	_, err := f.store.InsertEvent(models.Event{Time: ts(f.t, s), Type: models.ClockIn})
	require.NoError(f.t, err)
}

func (f *fixture) out(s string) {
	f.t.Helper()
	_, err := f.store.InsertEvent(models.Event{Time: ts(f.t, s), Type: models.ClockOut})
	require.NoError(f.t, err)
}

func (f *fixture) target(day string, kind models.TargetKind, value string) {
	f.t.Helper()
	tgt := models.Target{Kind: kind}
	if day != "" {
		d := date(f.t, day)
		tgt.Date = &d
	}
	if value != "" {
		tgt.ValueMin = hm(value).Minutes()
	}
	_, err := f.store.SetTarget(tgt)
	require.NoError(f.t, err)
}

func (f *fixture) week(start string, sum string) {
	f.t.Helper()
	w := models.Week{Start: date(f.t, start), ComputedAt: f.now}
	if sum != "" {
		m := hm(sum).Minutes()
		w.SumMinutes = &m
	}
	_, err := f.store.InsertWeek(w)
	require.NoError(f.t, err)
}
