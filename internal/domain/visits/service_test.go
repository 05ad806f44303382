package visits_test

import (
	"context"
	"testing"
	"time"

	mem "carecircle/internal/adapters/storage/memory"
	"carecircle/internal/domain/visits"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func schedule(t *testing.T, svc *visits.Service, date, start, end, by string) visits.Visit {
	t.Helper()
	v, err := svc.Schedule(context.Background(), visits.ScheduleInput{
		RecipientID:   "rec-1",
		VisitorName:   "Visitor " + date,
		Date:          day(date),
		StartTime:     start,
		EndTime:       end,
		CreatedBy:     by,
		CreatedByName: by,
	})
	require.NoError(t, err)
	return v
}

func TestSchedule_Validation(t *testing.T) {
	svc := visits.NewService(mem.NewVisitsRepo(), nil)
	ctx := context.Background()

	base := visits.ScheduleInput{
		RecipientID: "rec-1",
		VisitorName: "Sarah Johnson",
		Date:        day("2025-05-25"),
		StartTime:   "10:00",
		EndTime:     "12:00",
		CreatedBy:   "sarah",
	}
	v, err := svc.Schedule(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-25", v.DateString())

	bad := []func(in *visits.ScheduleInput){
		func(in *visits.ScheduleInput) { in.EndTime = "10:00" },
		func(in *visits.ScheduleInput) { in.EndTime = "09:30" },
		func(in *visits.ScheduleInput) { in.StartTime = "25:00" },
		func(in *visits.ScheduleInput) { in.VisitorName = "  " },
		func(in *visits.ScheduleInput) { in.Date = time.Time{} },
	}
	for _, mutate := range bad {
		in := base
		mutate(&in)
		_, err := svc.Schedule(ctx, in)
		assert.ErrorIs(t, err, visits.ErrInvalidInput)
	}

	// solo el rango invertido usa el mensaje de fin antes de inicio
	in := base
	in.EndTime = "09:30"
	_, err = svc.Schedule(ctx, in)
	assert.ErrorIs(t, err, visits.ErrEndBeforeStart)

	in = base
	in.StartTime = "25:00"
	_, err = svc.Schedule(ctx, in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, visits.ErrEndBeforeStart)
	assert.Contains(t, err.Error(), "start_time")
}

func TestListMonth_AndCalendar(t *testing.T) {
	svc := visits.NewService(mem.NewVisitsRepo(), nil)
	ctx := context.Background()

	schedule(t, svc, "2025-05-27", "14:00", "16:00", "michael")
	schedule(t, svc, "2025-05-25", "10:00", "12:00", "sarah")
	schedule(t, svc, "2025-06-02", "15:00", "17:00", "robert")

	may, err := svc.ListMonth(ctx, "rec-1", visits.YearMonth{Year: 2025, Month: time.May})
	require.NoError(t, err)
	require.Len(t, may, 2)
	assert.Equal(t, "2025-05-25", may[0].DateString())

	other, err := svc.ListMonth(ctx, "rec-2", visits.YearMonth{Year: 2025, Month: time.May})
	require.NoError(t, err)
	assert.Empty(t, other)

	grid, err := svc.Calendar(ctx, "rec-1", visits.YearMonth{Year: 2025, Month: time.June})
	require.NoError(t, err)
	assert.Len(t, grid.Cells[grid.LeadingBlanks+1].Visits, 1)

	_, err = svc.ListMonth(ctx, "rec-1", visits.YearMonth{Year: 2025, Month: 13})
	assert.ErrorIs(t, err, visits.ErrInvalidInput)
}

func TestUpcoming_SkipsStarted(t *testing.T) {
	svc := visits.NewService(mem.NewVisitsRepo(), nil)
	ctx := context.Background()

	schedule(t, svc, "2025-05-25", "10:00", "12:00", "sarah")
	schedule(t, svc, "2025-05-25", "15:00", "16:00", "sarah")
	schedule(t, svc, "2025-05-30", "11:00", "13:30", "emma")

	now := time.Date(2025, 5, 25, 11, 0, 0, 0, time.UTC)
	next, err := svc.Upcoming(ctx, "rec-1", now, time.UTC, 1)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "15:00", next[0].StartTime)
}

func TestDelete_Permissions(t *testing.T) {
	svc := visits.NewService(mem.NewVisitsRepo(), nil)
	ctx := context.Background()

	v := schedule(t, svc, "2025-05-25", "10:00", "12:00", "sarah")

	assert.ErrorIs(t, svc.Delete(ctx, "rec-1", v.ID, "michael", false), visits.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "rec-2", v.ID, "sarah", true), visits.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "rec-1", v.ID, "sarah", false))
	assert.ErrorIs(t, svc.Delete(ctx, "rec-1", v.ID, "sarah", false), visits.ErrNotFound)

	w := schedule(t, svc, "2025-05-26", "10:00", "12:00", "sarah")
	require.NoError(t, svc.Delete(ctx, "rec-1", w.ID, "owner-1", true))
}
