package visits

import (
	"context"
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

// LocationLookup da la zona horaria del recipient (mes actual por defecto).
type LocationLookup interface {
	LocationOf(ctx context.Context, recipientID string) (*time.Location, error)
}

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service, locs LocationLookup) {
	r.Route("/recipients/{recipientID}/visits", func(vr chi.Router) {
		vr.Post("/", scheduleVisitHandler(svc, circleSvc))
		vr.Get("/", listVisitsHandler(svc, circleSvc, locs))
		vr.Delete("/{visitID}", deleteVisitHandler(svc, circleSvc))
	})
	r.Get("/recipients/{recipientID}/calendar", calendarHandler(svc, circleSvc, locs))
}

type scheduleVisitRequest struct {
	VisitorName string `json:"visitor_name" validate:"notblank,max=200"`
	Date        string `json:"date" validate:"required,isodate"`
	StartTime   string `json:"start_time" validate:"required,hhmm"`
	EndTime     string `json:"end_time" validate:"required,hhmm"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type visitResponse struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	VisitorName   string    `json:"visitor_name"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type cellResponse struct {
	Blank  bool            `json:"blank"`
	Day    int             `json:"day,omitempty"`
	Date   string          `json:"date,omitempty"`
	Visits []visitResponse `json:"visits"`
}

type calendarResponse struct {
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	MonthName     string         `json:"month_name"`
	LeadingBlanks int            `json:"leading_blanks"`
	DaysInMonth   int            `json:"days_in_month"`
	Cells         []cellResponse `json:"cells"`
	Prev          YearMonth      `json:"prev"`
	Next          YearMonth      `json:"next"`
}

func scheduleVisitHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeVisitsManage)
		if !ok {
			return
		}

		var req scheduleVisitRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		date, _ := time.Parse("2006-01-02", strings.TrimSpace(req.Date))

		v, err := svc.Schedule(r.Context(), ScheduleInput{
			RecipientID:   recipientID,
			VisitorName:   req.VisitorName,
			Date:          date,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Notes:         req.Notes,
			CreatedBy:     claims.UserID,
			CreatedByName: circle.DisplayName(claims, access),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toVisitResponse(v))
	}
}

func listVisitsHandler(svc *Service, circleSvc *circle.Service, locs LocationLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeVisitsRead); !ok {
			return
		}

		ym, ok := monthFromQuery(w, r, recipientID, locs)
		if !ok {
			return
		}

		items, err := svc.ListMonth(r.Context(), recipientID, ym)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]visitResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVisitResponse(v))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func calendarHandler(svc *Service, circleSvc *circle.Service, locs LocationLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeVisitsRead); !ok {
			return
		}

		ym, ok := monthFromQuery(w, r, recipientID, locs)
		if !ok {
			return
		}

		grid, err := svc.Calendar(r.Context(), recipientID, ym)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toCalendarResponse(grid))
	}
}

func deleteVisitHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeVisitsRead)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), recipientID, chi.URLParam(r, "visitID"), claims.UserID, access.Can(circle.ScopeVisitsManage))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// monthFromQuery lee ?year=&month=; sin parámetros usa el mes actual del recipient.
func monthFromQuery(w http.ResponseWriter, r *http.Request, recipientID string, locs LocationLookup) (YearMonth, bool) {
	loc, err := locs.LocationOf(r.Context(), recipientID)
	if err != nil {
		http.Error(w, "recipient not found", http.StatusNotFound)
		return YearMonth{}, false
	}
	now := time.Now().In(loc)

	year := httpjson.QueryInt(r, "year", -1, 1, 9999)
	month := httpjson.QueryInt(r, "month", -1, 1, 12)
	q := r.URL.Query()
	if (q.Get("year") != "" && year < 0) || (q.Get("month") != "" && month < 0) {
		http.Error(w, "year/month out of range", http.StatusBadRequest)
		return YearMonth{}, false
	}
	if year < 0 {
		year = now.Year()
	}
	if month < 0 {
		month = int(now.Month())
	}
	return YearMonth{Year: year, Month: time.Month(month)}, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "visit not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toVisitResponse(v Visit) visitResponse {
	return visitResponse{
		ID:            v.ID,
		RecipientID:   v.RecipientID,
		VisitorName:   v.VisitorName,
		Date:          v.DateString(),
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Notes:         v.Notes,
		CreatedBy:     v.CreatedBy,
		CreatedByName: v.CreatedByName,
		CreatedAt:     v.CreatedAt,
	}
}

func toCalendarResponse(g MonthGrid) calendarResponse {
	cells := make([]cellResponse, 0, len(g.Cells))
	for _, c := range g.Cells {
		vs := make([]visitResponse, 0, len(c.Visits))
		for _, v := range c.Visits {
			vs = append(vs, toVisitResponse(v))
		}
		cells = append(cells, cellResponse{Blank: c.Blank(), Day: c.Day, Date: c.Date, Visits: vs})
	}
	return calendarResponse{
		Year:          g.Month.Year,
		Month:         int(g.Month.Month),
		MonthName:     g.Month.Month.String(),
		LeadingBlanks: g.LeadingBlanks,
		DaysInMonth:   DaysIn(g.Month),
		Cells:         cells,
		Prev:          g.Prev,
		Next:          g.Next,
	}
}
