package profiles

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"carecircle/internal/domain/activity"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"
	"carecircle/internal/platform/validation"
	"carecircle/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// ActivityLister alimenta "Recent Activity" del perfil.
type ActivityLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error)
}

func RegisterRoutes(r chi.Router, svc *Service, acts ActivityLister) {
	r.Get("/me/profile", getProfileHandler(svc))
	r.Put("/me/profile", putProfileHandler(svc))
	r.Get("/me/activity", myActivityHandler(acts))
}

type notificationPrefs struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type putProfileRequest struct {
	FirstName     string            `json:"first_name" validate:"notblank,max=100"`
	LastName      string            `json:"last_name" validate:"max=100"`
	Email         string            `json:"email" validate:"required,email"`
	Phone         string            `json:"phone" validate:"max=40"`
	Role          string            `json:"role" validate:"omitempty,oneof=caregiver family professional"`
	Relationship  string            `json:"relationship" validate:"max=100"`
	AvatarURL     string            `json:"avatar_url" validate:"omitempty,url"`
	Notifications notificationPrefs `json:"notifications"`
}

type profileResponse struct {
	UserID        string            `json:"user_id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	FullName      string            `json:"full_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Role          Role              `json:"role"`
	Relationship  string            `json:"relationship"`
	AvatarURL     string            `json:"avatar_url,omitempty"`
	Notifications notificationPrefs `json:"notifications"`
	JoinedAt      *time.Time        `json:"joined_at,omitempty"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

type activityResponse struct {
	ID          string        `json:"id"`
	RecipientID string        `json:"recipient_id,omitempty"`
	Type        activity.Type `json:"type"`
	Description string        `json:"description"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// todavía no lo guardó: lo armamos desde los claims
				httpjson.Write(w, http.StatusOK, toProfileResponse(fromClaims(claims)))
				return
			}
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toProfileResponse(p))
	}
}

func putProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		var req putProfileRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := svc.Upsert(r.Context(), claims.UserID, UpsertInput{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			Role:         Role(req.Role),
			Relationship: req.Relationship,
			AvatarURL:    req.AvatarURL,
			Notifications: NotificationPrefs{
				Email: req.Notifications.Email,
				Push:  req.Notifications.Push,
				SMS:   req.Notifications.SMS,
			},
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toProfileResponse(p))
	}
}

func myActivityHandler(acts ActivityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		limit := httpjson.QueryInt(r, "limit", 20, 1, 200)
		items, err := acts.ListByUser(r.Context(), claims.UserID, limit)
		if err != nil {
			middleware.InternalError(w, r, err)
			return
		}

		out := make([]activityResponse, 0, len(items))
		for _, e := range items {
			out = append(out, activityResponse{
				ID:          e.ID,
				RecipientID: e.RecipientID,
				Type:        e.Type,
				Description: e.Description,
				OccurredAt:  e.OccurredAt,
			})
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func fromClaims(c auth.Claims) Profile {
	first, last := c.Name, ""
	if i := strings.LastIndex(strings.TrimSpace(c.Name), " "); i > 0 {
		first, last = c.Name[:i], c.Name[i+1:]
	}
	return Profile{
		UserID:        c.UserID,
		FirstName:     strings.TrimSpace(first),
		LastName:      strings.TrimSpace(last),
		Email:         c.Email,
		Role:          RoleCaregiver,
		Notifications: NotificationPrefs{Email: true, Push: true},
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		UserID:       p.UserID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		FullName:     p.FullName(),
		Email:        p.Email,
		Phone:        p.Phone,
		Role:         p.Role,
		Relationship: p.Relationship,
		AvatarURL:    p.AvatarURL,
		Notifications: notificationPrefs{
			Email: p.Notifications.Email,
			Push:  p.Notifications.Push,
			SMS:   p.Notifications.SMS,
		},
	}
	if !p.JoinedAt.IsZero() {
		t := p.JoinedAt
		out.JoinedAt = &t
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
