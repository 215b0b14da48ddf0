package store_test

import (
	"testing"
	"time"

	"github.com/carebridge/hospital-api/internal/store"
)

func TestWindow(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   string
		wantFrom time.Time
	}{
		{
			name:     "daily_starts_at_midnight",
			period:   store.PeriodDaily,
			wantFrom: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekly_looks_back_seven_days",
			period:   store.PeriodWeekly,
			wantFrom: time.Date(2025, time.March, 8, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "monthly_looks_back_one_month",
			period:   store.PeriodMonthly,
			wantFrom: time.Date(2025, time.February, 15, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			from, to, err := store.Window(tt.period, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(now) {
				t.Errorf("to = %v, want %v", to, now)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	now := time.Date(2025, time.March, 15, 23, 30, 0, 0, time.UTC)

	start, end := store.DayRange(now)

	if want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	// an appointment tomorrow morning sits within 24h of a late-evening query
	// but must not count as today
	tomorrowMorning := time.Date(2025, time.March, 16, 8, 0, 0, 0, time.UTC)
	if tomorrowMorning.Before(end) {
		t.Errorf("range end %v admits %v", end, tomorrowMorning)
	}
}

func TestWindowUnknownPeriod(t *testing.T) {
	_, _, err := store.Window("fortnightly", time.Now())
	if err == nil {
		t.Fatal("expected an error for an unknown period")
	}
}

func TestWindowNonUTCNow(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, time.March, 15, 2, 0, 0, 0, loc) // 21:00 March 14 UTC

	from, _, err := store.Window(store.PeriodDaily, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	if !from.Equal(want) {
		t.Errorf("from = %v, want %v (window computed in UTC)", from, want)
	}
}
