package documents

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// lo que ParseMultipartForm mantiene en memoria; el resto va a disco
const multipartMemory = 8 << 20

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service) {
	r.Route("/recipients/{recipientID}/documents", func(rr chi.Router) {
		rr.Post("/", uploadDocumentHandler(svc, circleSvc))
		rr.Get("/", listDocumentsHandler(svc, circleSvc))
		rr.Get("/{documentID}", getDocumentHandler(svc, circleSvc))
		rr.Get("/{documentID}/content", downloadDocumentHandler(svc, circleSvc))
		rr.Delete("/{documentID}", deleteDocumentHandler(svc, circleSvc))
	})
}

type documentResponse struct {
	ID             string    `json:"id"`
	RecipientID    string    `json:"recipient_id"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	Kind           Kind      `json:"kind"`
	Description    string    `json:"description"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	Size           string    `json:"size"`
	UploadedBy     string    `json:"uploaded_by"`
	UploadedByName string    `json:"uploaded_by_name,omitempty"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// multipart: file (requerido), name, category, description
func uploadDocumentHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeDocumentsUpload)
		if !ok {
			return
		}

		// margen de 1MB para los otros campos del form
		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+1<<20)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = header.Filename
		}

		d, err := svc.Upload(r.Context(), UploadInput{
			RecipientID:    recipientID,
			Name:           name,
			Category:       Category(strings.TrimSpace(r.FormValue("category"))),
			Description:    r.FormValue("description"),
			ContentType:    header.Header.Get("Content-Type"),
			Body:           file,
			UploadedBy:     claims.UserID,
			UploadedByName: circle.DisplayName(claims, access),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toDocumentResponse(d))
	}
}

func listDocumentsHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeDocumentsRead); !ok {
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))
		if category == "all" {
			category = ""
		}
		items, err := svc.List(r.Context(), recipientID, ListFilter{
			Category: Category(category),
			Query:    r.URL.Query().Get("q"),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]documentResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDocumentResponse(d))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func getDocumentHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeDocumentsRead); !ok {
			return
		}

		d, err := svc.Get(r.Context(), recipientID, chi.URLParam(r, "documentID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toDocumentResponse(d))
	}
}

func downloadDocumentHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		if _, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeDocumentsRead); !ok {
			return
		}

		d, rc, err := svc.Open(r.Context(), recipientID, chi.URLParam(r, "documentID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", d.ContentType)
		w.Header().Set("Content-Length", strconv.FormatInt(d.SizeBytes, 10))
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Name}))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

func deleteDocumentHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeDocumentsRead)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), recipientID, chi.URLParam(r, "documentID"), claims.UserID, access.IsOwner); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toDocumentResponse(d Document) documentResponse {
	return documentResponse{
		ID:             d.ID,
		RecipientID:    d.RecipientID,
		Name:           d.Name,
		Category:       d.Category,
		Kind:           d.Kind(),
		Description:    d.Description,
		ContentType:    d.ContentType,
		SizeBytes:      d.SizeBytes,
		Size:           d.SizeLabel(),
		UploadedBy:     d.UploadedBy,
		UploadedByName: d.UploadedByName,
		UploadedAt:     d.UploadedAt,
	}
}
