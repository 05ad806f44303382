package help

import (
	"net/http"

	"carecircle/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Get("/help/faqs", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, Search(r.URL.Query().Get("q")))
	})
	r.Get("/help/topics", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, Topics())
	})
}
