package recipients

import (
	"encoding/json"
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
	// Recipients (owner)
	r.Route("/recipients", func(rr chi.Router) {
		rr.Post("/", createRecipientHandler(svc))
		rr.Get("/", listRecipientsHandler(svc))

		// Perfil (owner o miembro con recipient:read)
		rr.Get("/{recipientID}", getRecipientHandler(svc, circleSvc))

		// Editar perfil (owner o miembro con recipient:edit_profile)
		rr.Patch("/{recipientID}", updateRecipientHandler(svc, circleSvc))
	})

	// Recipients compartidos conmigo (miembro del circle)
	r.Get("/me/recipients", listMySharedRecipientsHandler(svc, circleSvc))
}

type createRecipientRequest struct {
	Name      string `json:"name" validate:"notblank,max=200"`
	BirthDate string `json:"birth_date" validate:"isodate"` // YYYY-MM-DD opcional
	Timezone  string `json:"timezone" validate:"max=64"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type recipientResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Timezone    string     `json:"timezone"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type updateRecipientRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
	Notes    *string `json:"notes"`
	// birth_date se lee aparte para distinguir null de ausente.
}

type sharedRecipientResponse struct {
	Recipient  recipientResponse `json:"recipient"`
	Membership sharedMembership  `json:"membership"`
	Scopes     []circle.Scope    `json:"scopes"`
}

type sharedMembership struct {
	ID           string        `json:"id"`
	Status       circle.Status `json:"status"`
	Relationship string        `json:"relationship,omitempty"`
}

func createRecipientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req createRecipientRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, _ := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
			bd = &t
		}

		rec, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			BirthDate: bd,
			Timezone:  req.Timezone,
			Notes:     req.Notes,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpjson.Write(w, http.StatusCreated, toRecipientResponse(rec))
	}
}

func listRecipientsHandler(svc *Service) http.HandlerFunc {
	// Owner-only (sin mezclar compartidos)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]recipientResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecipientResponse(rec))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func getRecipientHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeRecipientRead); !ok {
			return
		}

		rec, err := svc.GetByID(r.Context(), recipientID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toRecipientResponse(rec))
	}
}

func updateRecipientHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeRecipientEditProfile); !ok {
			return
		}

		// Para soportar birth_date: null hay que ver si el campo vino.
		var raw map[string]json.RawMessage
		if err := httpjson.Decode(r, &raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateRecipientRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		var bd PatchDate
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
				if err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				bd.Value = &t
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), recipientID, UpdateProfileInput{
			Name:      req.Name,
			BirthDate: bd,
			Timezone:  req.Timezone,
			Notes:     req.Notes,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toRecipientResponse(updated))
	}
}

func listMySharedRecipientsHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	// Recipients compartidos conmigo (memberships activos con recipient:read)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		memberships, err := circleSvc.ListByMember(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		seen := map[string]struct{}{}
		out := make([]sharedRecipientResponse, 0)

		for _, m := range memberships {
			if m.Status != circle.StatusActive || !circle.HasScope(m, circle.ScopeRecipientRead) {
				continue
			}
			if _, ok := seen[m.RecipientID]; ok {
				continue
			}
			seen[m.RecipientID] = struct{}{}

			rec, err := svc.GetByID(r.Context(), m.RecipientID)
			if err != nil {
				// memberships huérfanos se ignoran
				continue
			}

			out = append(out, sharedRecipientResponse{
				Recipient: toRecipientResponse(rec),
				Membership: sharedMembership{
					ID:           m.ID,
					Status:       m.Status,
					Relationship: m.Relationship,
				},
				Scopes: m.Scopes,
			})
		}

		httpjson.Write(w, http.StatusOK, out)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "recipient not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toRecipientResponse(r Recipient) recipientResponse {
	return recipientResponse{
		ID:          r.ID,
		OwnerUserID: r.OwnerUserID,
		Name:        r.Name,
		BirthDate:   r.BirthDate,
		Timezone:    r.Timezone,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
