package dashboard

import (
	"net/http"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service) {
	r.Get("/recipients/{recipientID}/dashboard", dashboardHandler(svc, circleSvc))
}

type updateItem struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}

type taskItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AssignedTo string    `json:"assigned_to"`
	Priority   string    `json:"priority"`
	DueAt      time.Time `json:"due_at"`
	Overdue    bool      `json:"overdue"`
}

type doseItem struct {
	MedicationID string    `json:"medication_id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Instructions string    `json:"instructions,omitempty"`
	DueAt        time.Time `json:"due_at"`
}

type visitItem struct {
	ID          string `json:"id"`
	VisitorName string `json:"visitor_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type dashboardResponse struct {
	RecentUpdates []updateItem `json:"recent_updates,omitempty"`
	UpcomingTasks []taskItem   `json:"upcoming_tasks,omitempty"`
	OverdueTasks  int          `json:"overdue_tasks"`
	NextDoses     []doseItem   `json:"next_doses,omitempty"`
	NextVisit     *visitItem   `json:"next_visit,omitempty"`
	UnreadCount   int          `json:"unread_notifications"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

func dashboardHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeRecipientRead)
		if !ok {
			return
		}

		sum, err := svc.Build(r.Context(), recipientID, claims.UserID, access)
		if err != nil {
			middleware.InternalError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toResponse(sum))
	}
}

func toResponse(s Summary) dashboardResponse {
	out := dashboardResponse{
		OverdueTasks: s.OverdueTasks,
		UnreadCount:  s.UnreadCount,
		GeneratedAt:  s.GeneratedAt,
	}
	for _, u := range s.RecentUpdates {
		out.RecentUpdates = append(out.RecentUpdates, updateItem{
			ID:         u.ID,
			AuthorName: u.Author.Name,
			Content:    u.Content,
			Likes:      u.Likes(),
			Comments:   len(u.Comments),
			CreatedAt:  u.CreatedAt,
		})
	}
	for _, t := range s.UpcomingTasks {
		out.UpcomingTasks = append(out.UpcomingTasks, taskItem{
			ID:         t.ID,
			Title:      t.Title,
			AssignedTo: t.AssignedTo.Name,
			Priority:   string(t.Priority),
			DueAt:      t.DueAt,
			Overdue:    t.Overdue(s.GeneratedAt),
		})
	}
	for _, d := range s.NextDoses {
		out.NextDoses = append(out.NextDoses, doseItem{
			MedicationID: d.MedicationID,
			Name:         d.Name,
			Dosage:       d.Dosage,
			Instructions: d.Instructions,
			DueAt:        d.DueAt,
		})
	}
	if v := s.NextVisit; v != nil {
		out.NextVisit = &visitItem{
			ID:          v.ID,
			VisitorName: v.VisitorName,
			Date:        v.DateString(),
			StartTime:   v.StartTime,
			EndTime:     v.EndTime,
		}
	}
	return out
}
