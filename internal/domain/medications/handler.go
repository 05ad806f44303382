package medications

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

// LocationLookup da la zona horaria del recipient.
type LocationLookup interface {
	LocationOf(ctx context.Context, recipientID string) (*time.Location, error)
}

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service, locs LocationLookup) {
	r.Route("/recipients/{recipientID}/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, circleSvc))
		mr.Get("/", listMedicationsHandler(svc, circleSvc))
		mr.Get("/history", historyHandler(svc, circleSvc))
		mr.Get("/schedule", scheduleHandler(svc, circleSvc, locs))
		mr.Patch("/{medicationID}/status", setStatusHandler(svc, circleSvc))
		mr.Post("/{medicationID}/doses", logDoseHandler(svc, circleSvc))
	})
}

type createMedicationRequest struct {
	Name         string   `json:"name" validate:"notblank,max=200"`
	Dosage       string   `json:"dosage" validate:"notblank,max=100"`
	Frequency    string   `json:"frequency" validate:"omitempty,oneof=daily twice-daily weekly as-needed custom"`
	Times        []string `json:"times" validate:"dive,hhmm"`
	RRule        string   `json:"rrule" validate:"max=500"`
	Instructions string   `json:"instructions" validate:"max=1000"`
	StartDate    string   `json:"start_date" validate:"isodate"`
	EndDate      string   `json:"end_date" validate:"isodate"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed discontinued"`
}

type logDoseRequest struct {
	TakenAt string `json:"taken_at" validate:"omitempty,rfc3339"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type medicationResponse struct {
	ID           string    `json:"id"`
	RecipientID  string    `json:"recipient_id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Frequency    Frequency `json:"frequency"`
	Times        []string  `json:"times"`
	RRule        string    `json:"rrule,omitempty"`
	Instructions string    `json:"instructions"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	Status       Status    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type doseLogResponse struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	TakenAt        time.Time `json:"taken_at"`
	TakenBy        string    `json:"taken_by"`
	TakenByUserID  string    `json:"taken_by_user_id"`
	Notes          string    `json:"notes"`
}

type doseResponse struct {
	MedicationID string    `json:"medication_id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Instructions string    `json:"instructions"`
	DueAt        time.Time `json:"due_at"`
}

func createMedicationHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsManage)
		if !ok {
			return
		}

		var req createMedicationRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		in := CreateInput{
			RecipientID:  recipientID,
			Name:         req.Name,
			Dosage:       req.Dosage,
			Frequency:    Frequency(req.Frequency),
			Times:        req.Times,
			RRule:        req.RRule,
			Instructions: req.Instructions,
			CreatedBy:    Taker{UserID: claims.UserID, Name: circle.DisplayName(claims, access)},
		}
		if d, ok := parseDate(req.StartDate); ok {
			in.StartDate = d
		}
		if d, ok := parseDate(req.EndDate); ok {
			in.EndDate = &d
		}

		m, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsRead); !ok {
			return
		}

		items, err := svc.List(r.Context(), recipientID, Status(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func setStatusHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsManage); !ok {
			return
		}

		var req setStatusRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m, err := svc.SetStatus(r.Context(), recipientID, chi.URLParam(r, "medicationID"), Status(req.Status))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toMedicationResponse(m))
	}
}

func logDoseHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsLog)
		if !ok {
			return
		}

		// body opcional: POST vacío = "mark as taken" ahora
		var req logDoseRequest
		if err := httpjson.DecodeOptional(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		in := LogDoseInput{
			RecipientID:  recipientID,
			MedicationID: chi.URLParam(r, "medicationID"),
			TakenBy:      Taker{UserID: claims.UserID, Name: circle.DisplayName(claims, access)},
			Notes:        req.Notes,
		}
		if req.TakenAt != "" {
			in.TakenAt, _ = time.Parse(time.RFC3339, req.TakenAt)
		}

		d, err := svc.LogDose(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toDoseLogResponse(d))
	}
}

func historyHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsRead); !ok {
			return
		}

		items, err := svc.History(r.Context(), recipientID, httpjson.QueryInt(r, "limit", 50, 1, 500))
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]doseLogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDoseLogResponse(d))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// scheduleHandler: ?from=&to= (RFC3339 o YYYY-MM-DD en la zona del recipient).
// Default: próximas 24h.
func scheduleHandler(svc *Service, circleSvc *circle.Service, locs LocationLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeMedicationsRead); !ok {
			return
		}

		loc, err := locs.LocationOf(r.Context(), recipientID)
		if err != nil {
			http.Error(w, "recipient not found", http.StatusNotFound)
			return
		}

		from := time.Now().In(loc)
		if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
			t, ok := parseInstant(v, loc)
			if !ok {
				http.Error(w, "from must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			from = t
		}
		to := from.Add(24 * time.Hour)
		if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
			t, ok := parseInstant(v, loc)
			if !ok {
				http.Error(w, "to must be RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			to = t
		}

		doses, err := svc.Schedule(r.Context(), recipientID, from, to, loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]doseResponse, 0, len(doses))
		for _, d := range doses {
			out = append(out, doseResponse{
				MedicationID: d.MedicationID,
				Name:         d.Name,
				Dosage:       d.Dosage,
				Instructions: d.Instructions,
				DueAt:        d.DueAt,
			})
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseInstant(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medication not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	out := medicationResponse{
		ID:           m.ID,
		RecipientID:  m.RecipientID,
		Name:         m.Name,
		Dosage:       m.Dosage,
		Frequency:    m.Frequency,
		Times:        m.Times,
		RRule:        m.RRule,
		Instructions: m.Instructions,
		StartDate:    m.StartDate.Format("2006-01-02"),
		Status:       m.Status,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if out.Times == nil {
		out.Times = []string{}
	}
	if m.EndDate != nil {
		out.EndDate = m.EndDate.Format("2006-01-02")
	}
	return out
}

func toDoseLogResponse(d DoseLog) doseLogResponse {
	return doseLogResponse{
		ID:             d.ID,
		MedicationID:   d.MedicationID,
		MedicationName: d.MedicationName,
		Dosage:         d.Dosage,
		TakenAt:        d.TakenAt,
		TakenBy:        d.TakenBy.Name,
		TakenByUserID:  d.TakenBy.UserID,
		Notes:          d.Notes,
	}
}
