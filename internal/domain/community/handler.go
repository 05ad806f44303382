package community

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// El directorio es público; no requiere usuario.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/community", func(rr chi.Router) {
		rr.Get("/provinces", provincesHandler())
		rr.Get("/facilities", facilitiesHandler(svc))
		rr.Get("/events", eventsHandler(svc))
		rr.Get("/support-groups", supportGroupsHandler(svc))
		rr.Get("/share/{kind}/{id}", shareHandler(svc))
	})
}

type provincesResponse struct {
	Provinces     []Province `json:"provinces"`
	RadiusOptions []int      `json:"radius_options_km"`
	Default       string     `json:"default_province"`
	DefaultRadius int        `json:"default_radius_km"`
}

type shareResponse struct {
	URL string `json:"url"`
}

func provincesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, provincesResponse{
			Provinces:     Provinces,
			RadiusOptions: RadiusOptions(),
			Default:       DefaultProvince,
			DefaultRadius: DefaultRadiusKm,
		})
	}
}

func facilitiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		radius := 0
		if v := strings.TrimSpace(r.URL.Query().Get("radius")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "radius must be a number", http.StatusBadRequest)
				return
			}
			radius = n
		}

		items, err := svc.Facilities(r.Context(), r.URL.Query().Get("province"), radius)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func eventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Events(r.Context(), r.URL.Query().Get("province"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func supportGroupsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.SupportGroups(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func shareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := svc.ShareLink(r.Context(), Kind(chi.URLParam(r, "kind")), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, shareResponse{URL: link})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid province, radius or kind", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}
