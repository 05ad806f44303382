package medications

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"carecircle/internal/domain/activity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
	ErrBadState     = errors.New("medication is not active")
)

type Service struct {
	repo     Repository
	activity activity.Publisher
	now      func() time.Time
}

func NewService(repo Repository, pub activity.Publisher) *Service {
	if pub == nil {
		pub = activity.Nop{}
	}
	return &Service{
		repo:     repo,
		activity: pub,
		now:      time.Now,
	}
}

type CreateInput struct {
	RecipientID  string
	Name         string
	Dosage       string
	Frequency    Frequency
	Times        []string
	RRule        string
	Instructions string
	StartDate    time.Time // zero => hoy
	EndDate      *time.Time
	CreatedBy    Taker
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medication, error) {
	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	if strings.TrimSpace(in.RecipientID) == "" || name == "" || dosage == "" {
		return Medication{}, ErrInvalidInput
	}

	freq := in.Frequency
	if freq == "" {
		freq = FrequencyDaily
	}
	times, rule, err := normalizeSchedule(freq, in.Times, in.RRule)
	if err != nil {
		return Medication{}, err
	}

	now := s.now()
	start := dateOnly(in.StartDate)
	if in.StartDate.IsZero() {
		start = dateOnly(now)
	}
	var end *time.Time
	if in.EndDate != nil {
		e := dateOnly(*in.EndDate)
		if e.Before(start) {
			return Medication{}, ErrInvalidInput
		}
		end = &e
	}

	m := Medication{
		ID:           uuid.NewString(),
		RecipientID:  in.RecipientID,
		Name:         name,
		Dosage:       dosage,
		Frequency:    freq,
		Times:        times,
		RRule:        rule,
		Instructions: strings.TrimSpace(in.Instructions),
		StartDate:    start,
		EndDate:      end,
		Status:       StatusActive,
		CreatedBy:    in.CreatedBy.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      in.CreatedBy.UserID,
		ActorName:   in.CreatedBy.Name,
		RecipientID: m.RecipientID,
		Type:        activity.TypeMedication,
		Description: "Added medication: " + m.Name,
	})
	return m, nil
}

func (s *Service) Get(ctx context.Context, recipientID, id string) (Medication, error) {
	m, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil || m.RecipientID != recipientID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

// List: status vacío => todas. Orden por nombre.
func (s *Service) List(ctx context.Context, recipientID string, status Status) ([]Medication, error) {
	if status != "" && !validStatus(status) {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	out := make([]Medication, 0, len(items))
	for _, m := range items {
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Service) SetStatus(ctx context.Context, recipientID, id string, status Status) (Medication, error) {
	if !validStatus(status) {
		return Medication{}, ErrInvalidInput
	}
	m, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return Medication{}, err
	}
	if m.Status == status {
		return m, nil
	}
	m.Status = status
	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

type LogDoseInput struct {
	RecipientID  string
	MedicationID string
	TakenBy      Taker
	TakenAt      time.Time // zero => ahora
	Notes        string
}

// LogDose registra una toma. Solo medicaciones activas.
func (s *Service) LogDose(ctx context.Context, in LogDoseInput) (DoseLog, error) {
	if strings.TrimSpace(in.TakenBy.UserID) == "" {
		return DoseLog{}, ErrInvalidInput
	}
	m, err := s.Get(ctx, in.RecipientID, in.MedicationID)
	if err != nil {
		return DoseLog{}, err
	}
	if m.Status != StatusActive {
		return DoseLog{}, ErrBadState
	}

	takenAt := in.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}
	if takenAt.After(s.now().Add(time.Minute)) {
		// no se registran tomas a futuro
		return DoseLog{}, ErrInvalidInput
	}

	d := DoseLog{
		ID:             uuid.NewString(),
		MedicationID:   m.ID,
		RecipientID:    m.RecipientID,
		MedicationName: m.Name,
		Dosage:         m.Dosage,
		TakenAt:        takenAt,
		TakenBy:        in.TakenBy,
		Notes:          strings.TrimSpace(in.Notes),
	}
	if err := s.repo.CreateDoseLog(ctx, d); err != nil {
		return DoseLog{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      in.TakenBy.UserID,
		ActorName:   in.TakenBy.Name,
		RecipientID: m.RecipientID,
		Type:        activity.TypeMedication,
		Description: "Logged medication: " + m.Name,
	})
	return d, nil
}

// History: tomas registradas, más nuevas primero. limit <= 0 => todas.
func (s *Service) History(ctx context.Context, recipientID string, limit int) ([]DoseLog, error) {
	items, err := s.repo.ListDoseLogs(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TakenAt.After(items[j].TakenAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Schedule expande las tomas de todas las medicaciones activas en [from, to].
func (s *Service) Schedule(ctx context.Context, recipientID string, from, to time.Time, loc *time.Location) ([]Dose, error) {
	if to.Before(from) || to.Sub(from) > MaxScheduleWindow {
		return nil, ErrInvalidInput
	}

	meds, err := s.List(ctx, recipientID, StatusActive)
	if err != nil {
		return nil, err
	}

	out := make([]Dose, 0)
	for _, m := range meds {
		ds, err := DosesBetween(m, from, to, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	sortDoses(out)
	return out, nil
}

func validStatus(s Status) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusDiscontinued:
		return true
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
