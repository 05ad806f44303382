package visits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carecircle/internal/domain/activity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("visit not found")
	ErrForbidden    = errors.New("forbidden")

	ErrEndBeforeStart = fmt.Errorf("%w: end_time must be after start_time", ErrInvalidInput)
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

type ScheduleInput struct {
	RecipientID   string
	VisitorName   string
	Date          time.Time
	StartTime     string
	EndTime       string
	Notes         string
	CreatedBy     string
	CreatedByName string
}

// Schedule valida horario (HH:MM, fin > inicio) y guarda la visita.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Visit, error) {
	visitor := strings.TrimSpace(in.VisitorName)
	if strings.TrimSpace(in.RecipientID) == "" || visitor == "" || in.Date.IsZero() || strings.TrimSpace(in.CreatedBy) == "" {
		return Visit{}, fmt.Errorf("%w: visitor_name and date are required", ErrInvalidInput)
	}

	start, err := time.Parse("15:04", strings.TrimSpace(in.StartTime))
	if err != nil {
		return Visit{}, fmt.Errorf("%w: start_time must be HH:MM", ErrInvalidInput)
	}
	end, err := time.Parse("15:04", strings.TrimSpace(in.EndTime))
	if err != nil {
		return Visit{}, fmt.Errorf("%w: end_time must be HH:MM", ErrInvalidInput)
	}
	if !end.After(start) {
		return Visit{}, ErrEndBeforeStart
	}

	y, m, d := in.Date.Date()
	v := Visit{
		ID:            uuid.NewString(),
		RecipientID:   in.RecipientID,
		VisitorName:   visitor,
		Date:          time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		StartTime:     start.Format("15:04"),
		EndTime:       end.Format("15:04"),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedBy:     in.CreatedBy,
		CreatedByName: strings.TrimSpace(in.CreatedByName),
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Visit{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      in.CreatedBy,
		ActorName:   in.CreatedByName,
		RecipientID: v.RecipientID,
		Type:        activity.TypeVisit,
		Description: "Scheduled visit: " + v.VisitorName + " on " + v.DateString() + " at " + v.StartTime,
	})
	return v, nil
}

// ListBetween: fechas inclusivas, ordenadas por fecha y hora de inicio.
func (s *Service) ListBetween(ctx context.Context, recipientID string, from, to time.Time) ([]Visit, error) {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListBetween(ctx, recipientID, from, to)
	if err != nil {
		return nil, err
	}
	sortByStart(items)
	return items, nil
}

func (s *Service) ListMonth(ctx context.Context, recipientID string, ym YearMonth) ([]Visit, error) {
	if ym.Month < time.January || ym.Month > time.December || ym.Year < 1 {
		return nil, ErrInvalidInput
	}
	return s.ListBetween(ctx, recipientID, ym.First(), ym.Last())
}

func (s *Service) Calendar(ctx context.Context, recipientID string, ym YearMonth) (MonthGrid, error) {
	items, err := s.ListMonth(ctx, recipientID, ym)
	if err != nil {
		return MonthGrid{}, err
	}
	return BuildMonthGrid(ym, items), nil
}

// Upcoming: próximas visitas que todavía no empezaron (en la zona loc).
func (s *Service) Upcoming(ctx context.Context, recipientID string, now time.Time, loc *time.Location, limit int) ([]Visit, error) {
	items, err := s.ListBetween(ctx, recipientID, now.In(loc), now.In(loc).AddDate(0, 3, 0))
	if err != nil {
		return nil, err
	}
	out := make([]Visit, 0, len(items))
	for _, v := range items {
		if v.StartsAt(loc).Before(now) {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Delete: quien la creó o quien gestiona visitas.
func (s *Service) Delete(ctx context.Context, recipientID, id, userID string, canManage bool) error {
	v, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil || v.RecipientID != recipientID {
		return ErrNotFound
	}
	if !canManage && v.CreatedBy != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, v.ID)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
