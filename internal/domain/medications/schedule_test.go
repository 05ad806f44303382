package medications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDosesBetween(t *testing.T) {
	jhb := mustLoc(t, "Africa/Johannesburg")
	end := day(2025, 5, 21)

	tests := []struct {
		name   string
		med    Medication
		from   time.Time
		to     time.Time
		want   int
		hhmm   []string
		sameAt bool
	}{
		{
			name: "daily",
			med:  Medication{Frequency: FrequencyDaily, Times: []string{"08:00"}, StartDate: day(2025, 5, 1), Status: StatusActive},
			from: time.Date(2025, 5, 21, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 23, 0, 0, 0, 0, jhb),
			want: 2,
			hhmm: []string{"08:00", "08:00"},
		},
		{
			name: "twice daily",
			med:  Medication{Frequency: FrequencyTwiceDaily, Times: []string{"08:00", "20:00"}, StartDate: day(2025, 5, 1), Status: StatusActive},
			from: time.Date(2025, 5, 21, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 22, 0, 0, 0, 0, jhb),
			want: 2,
			hhmm: []string{"08:00", "20:00"},
		},
		{
			name: "end date bounds the schedule",
			med:  Medication{Frequency: FrequencyDaily, Times: []string{"08:00"}, StartDate: day(2025, 5, 1), EndDate: &end, Status: StatusActive},
			from: time.Date(2025, 5, 20, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 25, 0, 0, 0, 0, jhb),
			want: 2,
		},
		{
			name: "weekly on the start weekday",
			med:  Medication{Frequency: FrequencyWeekly, Times: []string{"09:00"}, StartDate: day(2025, 5, 5), Status: StatusActive},
			from: time.Date(2025, 5, 1, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 31, 23, 59, 0, 0, jhb),
			want: 4,
		},
		{
			name: "custom rrule",
			med:  Medication{Frequency: FrequencyCustom, RRule: "FREQ=DAILY;INTERVAL=2;BYHOUR=7;BYMINUTE=30", StartDate: day(2025, 5, 1), Status: StatusActive},
			from: time.Date(2025, 5, 1, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 7, 0, 0, 0, 0, jhb),
			want: 3,
			hhmm: []string{"07:30", "07:30", "07:30"},
		},
		{
			name: "as needed has no schedule",
			med:  Medication{Frequency: FrequencyAsNeeded, StartDate: day(2025, 5, 1), Status: StatusActive},
			from: time.Date(2025, 5, 1, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 7, 0, 0, 0, 0, jhb),
			want: 0,
		},
		{
			name: "completed medication",
			med:  Medication{Frequency: FrequencyDaily, Times: []string{"08:00"}, StartDate: day(2025, 5, 1), Status: StatusCompleted},
			from: time.Date(2025, 5, 1, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 7, 0, 0, 0, 0, jhb),
			want: 0,
		},
		{
			name: "starts after window",
			med:  Medication{Frequency: FrequencyDaily, Times: []string{"08:00"}, StartDate: day(2025, 6, 1), Status: StatusActive},
			from: time.Date(2025, 5, 1, 0, 0, 0, 0, jhb),
			to:   time.Date(2025, 5, 7, 0, 0, 0, 0, jhb),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doses, err := DosesBetween(tt.med, tt.from, tt.to, jhb)
			require.NoError(t, err)
			require.Len(t, doses, tt.want)
			sortDoses(doses)
			for i, want := range tt.hhmm {
				assert.Equal(t, want, doses[i].DueAt.In(jhb).Format("15:04"))
			}
		})
	}
}

func TestDosesBetween_WeeklyWeekday(t *testing.T) {
	m := Medication{Frequency: FrequencyWeekly, Times: []string{"09:00"}, StartDate: day(2025, 5, 5), Status: StatusActive}

	doses, err := DosesBetween(m, day(2025, 5, 1), day(2025, 6, 1), time.UTC)
	require.NoError(t, err)
	for _, d := range doses {
		assert.Equal(t, time.Monday, d.DueAt.Weekday())
	}
}

func TestNormalizeSchedule(t *testing.T) {
	tests := []struct {
		name  string
		freq  Frequency
		times []string
		rule  string
		want  []string
		err   bool
	}{
		{name: "daily sorted and deduped", freq: FrequencyDaily, times: []string{"20:00", "08:00", "08:00"}, want: []string{"08:00", "20:00"}},
		{name: "daily needs a time", freq: FrequencyDaily, err: true},
		{name: "twice daily needs two", freq: FrequencyTwiceDaily, times: []string{"08:00"}, err: true},
		{name: "twice daily ok", freq: FrequencyTwiceDaily, times: []string{"08:00", "20:00"}, want: []string{"08:00", "20:00"}},
		{name: "bad time", freq: FrequencyWeekly, times: []string{"8am"}, err: true},
		{name: "as needed drops times", freq: FrequencyAsNeeded, times: []string{"08:00"}, want: []string{}},
		{name: "custom ok", freq: FrequencyCustom, rule: "RRULE:FREQ=WEEKLY;BYDAY=MO,TH;BYHOUR=9", want: []string{}},
		{name: "custom bad", freq: FrequencyCustom, rule: "FREQ=SOMETIMES", err: true},
		{name: "unknown frequency", freq: Frequency("hourly"), times: []string{"08:00"}, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := normalizeSchedule(tt.freq, tt.times, tt.rule)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
