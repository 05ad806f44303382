package circle

import (
	"errors"
	"net/http"

	"carecircle/internal/middleware"
	"carecircle/internal/ports/auth"
)

// Guard junta lo que todos los handlers por recipient repiten:
// claims (401), recipient existente (404) y scope (403).
// Si devuelve ok=false ya respondió al cliente.
func (s *Service) Guard(w http.ResponseWriter, r *http.Request, recipientID string, scope Scope) (auth.Claims, Access, bool) {
	claims, ok := middleware.RequireUser(w, r)
	if !ok {
		return auth.Claims{}, Access{}, false
	}

	access, err := s.Authorize(r.Context(), recipientID, claims.UserID, scope)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecipientNotFound):
			http.Error(w, "recipient not found", http.StatusNotFound)
		case errors.Is(err, ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			middleware.InternalError(w, r, err)
		}
		return auth.Claims{}, Access{}, false
	}
	return claims, access, true
}

// DisplayName es el nombre con el que firma un usuario dentro del circle:
// el que le puso el owner al invitarlo, o el de sus claims.
func DisplayName(c auth.Claims, a Access) string {
	if !a.IsOwner {
		if n := a.Membership.DisplayName; n != "" && n != a.Membership.MemberUserID {
			return n
		}
	}
	return c.DisplayName()
}
