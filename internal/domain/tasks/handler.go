package tasks

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"
	"carecircle/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service) {
	r.Route("/recipients/{recipientID}/tasks", func(tr chi.Router) {
		tr.Post("/", createTaskHandler(svc, circleSvc))
		tr.Get("/", listTasksHandler(svc, circleSvc))
		tr.Get("/overdue", overdueTasksHandler(svc, circleSvc))
		tr.Post("/{taskID}/complete", completeTaskHandler(svc, circleSvc))
		tr.Post("/{taskID}/reopen", reopenTaskHandler(svc, circleSvc))
		tr.Delete("/{taskID}", deleteTaskHandler(svc, circleSvc))
	})
}

type createTaskRequest struct {
	Title            string `json:"title" validate:"notblank,max=200"`
	Description      string `json:"description" validate:"max=2000"`
	DueAt            string `json:"due_at" validate:"required,rfc3339"`
	AssignedToUserID string `json:"assigned_to_user_id" validate:"max=200"`
	Priority         string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type personResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type taskResponse struct {
	ID          string          `json:"id"`
	RecipientID string          `json:"recipient_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueAt       time.Time       `json:"due_at"`
	AssignedTo  personResponse  `json:"assigned_to"`
	AssignedBy  personResponse  `json:"assigned_by"`
	Priority    Priority        `json:"priority"`
	Status      Status          `json:"status"`
	Overdue     bool            `json:"overdue"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CompletedBy *personResponse `json:"completed_by,omitempty"`
}

func createTaskHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeTasksManage)
		if !ok {
			return
		}

		var req createTaskRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		due, _ := time.Parse(time.RFC3339, strings.TrimSpace(req.DueAt))

		by := Person{UserID: claims.UserID, Name: circle.DisplayName(claims, access)}

		// El asignado tiene que ser parte del circle.
		var to Person
		if uid := strings.TrimSpace(req.AssignedToUserID); uid != "" && uid != claims.UserID {
			members, err := circleSvc.Audience(r.Context(), recipientID)
			if err != nil {
				middleware.InternalError(w, r, err)
				return
			}
			found := false
			for _, m := range members {
				if m.UserID == uid {
					to = Person{UserID: uid, Name: m.DisplayName}
					found = true
					break
				}
			}
			if !found {
				http.Error(w, "assigned_to_user_id is not in the care circle", http.StatusBadRequest)
				return
			}
		}

		t, err := svc.Create(r.Context(), CreateInput{
			RecipientID: recipientID,
			Title:       req.Title,
			Description: req.Description,
			DueAt:       due,
			AssignedTo:  to,
			AssignedBy:  by,
			Priority:    Priority(req.Priority),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toTaskResponse(t, time.Now()))
	}
}

func listTasksHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeTasksRead)
		if !ok {
			return
		}

		filter := Filter(strings.TrimSpace(r.URL.Query().Get("filter")))
		items, err := svc.List(r.Context(), recipientID, filter, claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeTasks(w, items)
	}
}

func overdueTasksHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeTasksRead); !ok {
			return
		}

		items, err := svc.Overdue(r.Context(), recipientID, time.Now())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeTasks(w, items)
	}
}

func completeTaskHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	// tasks:manage o ser el asignado
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, "")
		if !ok {
			return
		}

		by := Person{UserID: claims.UserID, Name: circle.DisplayName(claims, access)}
		t, err := svc.Complete(r.Context(), recipientID, chi.URLParam(r, "taskID"), by, access.Can(circle.ScopeTasksManage))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toTaskResponse(t, time.Now()))
	}
}

func reopenTaskHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeTasksManage); !ok {
			return
		}

		t, err := svc.Reopen(r.Context(), recipientID, chi.URLParam(r, "taskID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toTaskResponse(t, time.Now()))
	}
}

func deleteTaskHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeTasksManage); !ok {
			return
		}

		if err := svc.Delete(r.Context(), recipientID, chi.URLParam(r, "taskID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeTasks(w http.ResponseWriter, items []Task) {
	now := time.Now()
	out := make([]taskResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTaskResponse(t, now))
	}
	httpjson.Write(w, http.StatusOK, out)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toTaskResponse(t Task, now time.Time) taskResponse {
	out := taskResponse{
		ID:          t.ID,
		RecipientID: t.RecipientID,
		Title:       t.Title,
		Description: t.Description,
		DueAt:       t.DueAt,
		AssignedTo:  personResponse{UserID: t.AssignedTo.UserID, Name: t.AssignedTo.Name},
		AssignedBy:  personResponse{UserID: t.AssignedBy.UserID, Name: t.AssignedBy.Name},
		Priority:    t.Priority,
		Status:      t.Status,
		Overdue:     t.Overdue(now),
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.CompletedBy != nil {
		out.CompletedBy = &personResponse{UserID: t.CompletedBy.UserID, Name: t.CompletedBy.Name}
	}
	return out
}
