package circle

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"
	"carecircle/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Owner: invitar y listar el circle de un recipient
	r.Route("/recipients/{recipientID}/members", func(mr chi.Router) {
		mr.Post("/", inviteMemberHandler(svc))
		mr.Get("/", listMembersHandler(svc))
	})

	// Miembro acepta, owner revoca
	r.Route("/memberships/{membershipID}", func(mr chi.Router) {
		mr.Post("/accept", acceptMembershipHandler(svc))
		mr.Post("/revoke", revokeMembershipHandler(svc))
	})

	r.Get("/me/memberships", listMyMembershipsHandler(svc))
}

type inviteMemberRequest struct {
	MemberUserID string  `json:"member_user_id" validate:"notblank,max=200"`
	DisplayName  string  `json:"display_name" validate:"max=200"`
	Relationship string  `json:"relationship" validate:"max=100"`
	Scopes       []Scope `json:"scopes"`
}

type membershipResponse struct {
	ID           string     `json:"id"`
	RecipientID  string     `json:"recipient_id"`
	OwnerUserID  string     `json:"owner_user_id"`
	MemberUserID string     `json:"member_user_id"`
	DisplayName  string     `json:"display_name"`
	Relationship string     `json:"relationship,omitempty"`
	Scopes       []Scope    `json:"scopes"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

func inviteMemberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")

		claims, access, ok := svc.Guard(w, r, recipientID, "")
		if !ok {
			return
		}
		if !access.IsOwner {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req inviteMemberRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m, err := svc.Invite(r.Context(), InviteInput{
			RecipientID:  recipientID,
			OwnerUserID:  claims.UserID,
			MemberUserID: req.MemberUserID,
			DisplayName:  req.DisplayName,
			Relationship: req.Relationship,
			Scopes:       req.Scopes,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpjson.Write(w, http.StatusCreated, toMembershipResponse(m))
	}
}

func listMembersHandler(svc *Service) http.HandlerFunc {
	// Owner ve todo; un miembro con recipient:read ve solo los activos.
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")

		_, access, ok := svc.Guard(w, r, recipientID, ScopeRecipientRead)
		if !ok {
			return
		}

		items, err := svc.ListByRecipient(r.Context(), recipientID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			if !access.IsOwner && m.Status != StatusActive {
				continue
			}
			out = append(out, toMembershipResponse(m))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func listMyMembershipsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		// status=invited,active (CSV opcional)
		allowed := parseStatusFilter(r.URL.Query().Get("status"))

		items, err := svc.ListByMember(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			if len(allowed) > 0 {
				if _, ok := allowed[m.Status]; !ok {
					continue
				}
			}
			out = append(out, toMembershipResponse(m))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func acceptMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		m, err := svc.Accept(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toMembershipResponse(m))
	}
}

func revokeMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireUser(w, r)
		if !ok {
			return
		}

		m, err := svc.Revoke(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toMembershipResponse(m))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrRecipientNotFound):
		http.Error(w, "recipient not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toMembershipResponse(m Membership) membershipResponse {
	scopes := m.Scopes
	if scopes == nil {
		scopes = []Scope{}
	}
	return membershipResponse{
		ID:           m.ID,
		RecipientID:  m.RecipientID,
		OwnerUserID:  m.OwnerUserID,
		MemberUserID: m.MemberUserID,
		DisplayName:  m.DisplayName,
		Relationship: m.Relationship,
		Scopes:       scopes,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		RevokedAt:    m.RevokedAt,
	}
}

func parseStatusFilter(raw string) map[Status]struct{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[Status]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		s := Status(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		out[s] = struct{}{}
	}
	return out
}
