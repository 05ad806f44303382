package dashboard

import (
	"context"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/medications"
	"carecircle/internal/domain/tasks"
	"carecircle/internal/domain/updates"
	"carecircle/internal/domain/visits"
)

const (
	sectionSize = 3
	doseWindow  = 48 * time.Hour
)

type UpdateLister interface {
	List(ctx context.Context, recipientID string, f updates.ListFilter) ([]updates.Update, error)
}

type TaskLister interface {
	List(ctx context.Context, recipientID string, f tasks.Filter, viewerID string) ([]tasks.Task, error)
}

type DoseScheduler interface {
	Schedule(ctx context.Context, recipientID string, from, to time.Time, loc *time.Location) ([]medications.Dose, error)
}

type VisitLister interface {
	Upcoming(ctx context.Context, recipientID string, now time.Time, loc *time.Location, limit int) ([]visits.Visit, error)
}

type UnreadCounter interface {
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type LocationLookup interface {
	LocationOf(ctx context.Context, recipientID string) (*time.Location, error)
}

type Deps struct {
	Updates       UpdateLister
	Tasks         TaskLister
	Medications   DoseScheduler
	Visits        VisitLister
	Notifications UnreadCounter
	Locations     LocationLookup
}

// Summary es la pantalla de inicio. Cada sección es nil si el viewer no
// tiene el scope correspondiente.
type Summary struct {
	RecentUpdates []updates.Update
	UpcomingTasks []tasks.Task
	OverdueTasks  int
	NextDoses     []medications.Dose
	NextVisit     *visits.Visit
	UnreadCount   int
	GeneratedAt   time.Time
}

type Service struct {
	deps Deps
	now  func() time.Time
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps, now: time.Now}
}

func (s *Service) Build(ctx context.Context, recipientID, viewerID string, access circle.Access) (Summary, error) {
	now := s.now()
	out := Summary{GeneratedAt: now}

	loc, err := s.deps.Locations.LocationOf(ctx, recipientID)
	if err != nil {
		return Summary{}, err
	}

	if access.Can(circle.ScopeUpdatesRead) {
		items, err := s.deps.Updates.List(ctx, recipientID, updates.ListFilter{Limit: sectionSize})
		if err != nil {
			return Summary{}, err
		}
		out.RecentUpdates = items
	}

	if access.Can(circle.ScopeTasksRead) {
		pending, err := s.deps.Tasks.List(ctx, recipientID, tasks.FilterPending, viewerID)
		if err != nil {
			return Summary{}, err
		}
		// ya vienen ordenadas por vencimiento
		next := make([]tasks.Task, 0, sectionSize)
		for _, t := range pending {
			if t.Overdue(now) {
				out.OverdueTasks++
			}
			if len(next) < sectionSize {
				next = append(next, t)
			}
		}
		out.UpcomingTasks = next
	}

	if access.Can(circle.ScopeMedicationsRead) {
		doses, err := s.deps.Medications.Schedule(ctx, recipientID, now, now.Add(doseWindow), loc)
		if err != nil {
			return Summary{}, err
		}
		if len(doses) > sectionSize {
			doses = doses[:sectionSize]
		}
		out.NextDoses = doses
	}

	if access.Can(circle.ScopeVisitsRead) {
		vs, err := s.deps.Visits.Upcoming(ctx, recipientID, now, loc, 1)
		if err != nil {
			return Summary{}, err
		}
		if len(vs) > 0 {
			out.NextVisit = &vs[0]
		}
	}

	n, err := s.deps.Notifications.UnreadCount(ctx, viewerID)
	if err != nil {
		return Summary{}, err
	}
	out.UnreadCount = n

	return out, nil
}
