package medications_test

import (
	"context"
	"testing"
	"time"

	mem "carecircle/internal/adapters/storage/memory"
	"carecircle/internal/domain/medications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sarah = medications.Taker{UserID: "sarah", Name: "Sarah Johnson"}

func TestCreate_AndList(t *testing.T) {
	svc := medications.NewService(mem.NewMedicationsRepo(), nil)
	ctx := context.Background()

	m, err := svc.Create(ctx, medications.CreateInput{
		RecipientID:  "rec-1",
		Name:         "Metformin",
		Dosage:       "500mg",
		Frequency:    medications.FrequencyTwiceDaily,
		Times:        []string{"20:00", "08:00"},
		Instructions: "Take with meals",
		StartDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:    sarah,
	})
	require.NoError(t, err)
	assert.Equal(t, medications.StatusActive, m.Status)
	assert.Equal(t, []string{"08:00", "20:00"}, m.Times)

	_, err = svc.Create(ctx, medications.CreateInput{RecipientID: "rec-1", Name: "Ibuprofen", Dosage: "400mg", Frequency: medications.FrequencyAsNeeded, CreatedBy: sarah})
	require.NoError(t, err)

	_, err = svc.Create(ctx, medications.CreateInput{RecipientID: "rec-1", Name: "", Dosage: "1mg", CreatedBy: sarah})
	assert.ErrorIs(t, err, medications.ErrInvalidInput)

	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, medications.CreateInput{
		RecipientID: "rec-1", Name: "X", Dosage: "1mg", Times: []string{"08:00"},
		StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), EndDate: &end, CreatedBy: sarah,
	})
	assert.ErrorIs(t, err, medications.ErrInvalidInput, "end before start")

	all, err := svc.List(ctx, "rec-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ibuprofen", all[0].Name)

	_, err = svc.List(ctx, "rec-1", medications.Status("paused"))
	assert.ErrorIs(t, err, medications.ErrInvalidInput)
}

func TestLogDose_OnlyActive_AndHistory(t *testing.T) {
	svc := medications.NewService(mem.NewMedicationsRepo(), nil)
	ctx := context.Background()

	m, err := svc.Create(ctx, medications.CreateInput{
		RecipientID: "rec-1", Name: "Lisinopril", Dosage: "10mg",
		Frequency: medications.FrequencyDaily, Times: []string{"08:00"}, CreatedBy: sarah,
	})
	require.NoError(t, err)

	first, err := svc.LogDose(ctx, medications.LogDoseInput{
		RecipientID: "rec-1", MedicationID: m.ID, TakenBy: sarah,
		TakenAt: time.Now().Add(-2 * time.Hour), Notes: "Taken with breakfast",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lisinopril", first.MedicationName)
	assert.Equal(t, "10mg", first.Dosage)

	second, err := svc.LogDose(ctx, medications.LogDoseInput{RecipientID: "rec-1", MedicationID: m.ID, TakenBy: sarah})
	require.NoError(t, err)

	_, err = svc.LogDose(ctx, medications.LogDoseInput{
		RecipientID: "rec-1", MedicationID: m.ID, TakenBy: sarah, TakenAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, medications.ErrInvalidInput, "future dose")

	hist, err := svc.History(ctx, "rec-1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.ID, hist[0].ID)

	_, err = svc.SetStatus(ctx, "rec-1", m.ID, medications.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.LogDose(ctx, medications.LogDoseInput{RecipientID: "rec-1", MedicationID: m.ID, TakenBy: sarah})
	assert.ErrorIs(t, err, medications.ErrBadState)

	// otro recipient => no existe
	_, err = svc.SetStatus(ctx, "rec-2", m.ID, medications.StatusActive)
	assert.ErrorIs(t, err, medications.ErrNotFound)
}

func TestSchedule_MergesAndSorts(t *testing.T) {
	svc := medications.NewService(mem.NewMedicationsRepo(), nil)
	ctx := context.Background()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, in := range []medications.CreateInput{
		{Name: "Metformin", Dosage: "500mg", Frequency: medications.FrequencyTwiceDaily, Times: []string{"08:00", "20:00"}},
		{Name: "Vitamin D", Dosage: "1000 IU", Frequency: medications.FrequencyDaily, Times: []string{"09:00"}},
		{Name: "Ibuprofen", Dosage: "400mg", Frequency: medications.FrequencyAsNeeded},
	} {
		in.RecipientID = "rec-1"
		in.StartDate = start
		in.CreatedBy = sarah
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	from := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	doses, err := svc.Schedule(ctx, "rec-1", from, from.Add(24*time.Hour), time.UTC)
	require.NoError(t, err)
	require.Len(t, doses, 3)
	assert.Equal(t, "Metformin", doses[0].Name)
	assert.Equal(t, "Vitamin D", doses[1].Name)
	assert.Equal(t, 20, doses[2].DueAt.Hour())

	_, err = svc.Schedule(ctx, "rec-1", from, from.Add(40*24*time.Hour), time.UTC)
	assert.ErrorIs(t, err, medications.ErrInvalidInput)
}
