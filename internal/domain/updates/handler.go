package updates

import (
	"errors"
	"net/http"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/httpjson"
	"carecircle/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, circleSvc *circle.Service) {
	r.Route("/recipients/{recipientID}/updates", func(ur chi.Router) {
		ur.Post("/", postUpdateHandler(svc, circleSvc))
		ur.Get("/", listUpdatesHandler(svc, circleSvc))
		ur.Delete("/{updateID}", deleteUpdateHandler(svc, circleSvc))
		ur.Post("/{updateID}/like", likeUpdateHandler(svc, circleSvc, true))
		ur.Delete("/{updateID}/like", likeUpdateHandler(svc, circleSvc, false))
		ur.Post("/{updateID}/comments", commentUpdateHandler(svc, circleSvc))
	})
}

type postUpdateRequest struct {
	Content string `json:"content" validate:"notblank,max=5000"`
}

type authorResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
}

type commentResponse struct {
	ID        string         `json:"id"`
	Author    authorResponse `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

type updateResponse struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipient_id"`
	Author      authorResponse    `json:"author"`
	Content     string            `json:"content"`
	Likes       int               `json:"likes"`
	LikedByMe   bool              `json:"liked_by_me"`
	Comments    []commentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
}

func postUpdateHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeUpdatesPost)
		if !ok {
			return
		}

		var req postUpdateRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u, err := svc.Post(r.Context(), PostInput{
			RecipientID: recipientID,
			Author:      authorFor(claims.UserID, circle.DisplayName(claims, access), access),
			Content:     req.Content,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toUpdateResponse(u, claims.UserID))
	}
}

func listUpdatesHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeUpdatesRead)
		if !ok {
			return
		}

		items, err := svc.List(r.Context(), recipientID, ListFilter{
			Query: r.URL.Query().Get("q"),
			Limit: httpjson.QueryInt(r, "limit", DefaultLimit, 1, MaxLimit),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]updateResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUpdateResponse(u, claims.UserID))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func likeUpdateHandler(svc *Service, circleSvc *circle.Service, like bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, _, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeUpdatesPost)
		if !ok {
			return
		}

		updateID := chi.URLParam(r, "updateID")
		var (
			u   Update
			err error
		)
		if like {
			u, err = svc.Like(r.Context(), recipientID, updateID, claims.UserID)
		} else {
			u, err = svc.Unlike(r.Context(), recipientID, updateID, claims.UserID)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toUpdateResponse(u, claims.UserID))
	}
}

func commentUpdateHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeUpdatesPost)
		if !ok {
			return
		}

		var req postUpdateRequest
		if err := httpjson.Decode(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u, err := svc.Comment(r.Context(), recipientID, chi.URLParam(r, "updateID"),
			authorFor(claims.UserID, circle.DisplayName(claims, access), access), req.Content)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toUpdateResponse(u, claims.UserID))
	}
}

func deleteUpdateHandler(svc *Service, circleSvc *circle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := chi.URLParam(r, "recipientID")
		claims, access, ok := circleSvc.Guard(w, r, recipientID, circle.ScopeUpdatesRead)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), recipientID, chi.URLParam(r, "updateID"), claims.UserID, access.IsOwner); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func authorFor(userID, name string, access circle.Access) Author {
	return Author{UserID: userID, Name: name, Relationship: access.Relationship()}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "update not found", http.StatusNotFound)
	default:
		middleware.InternalError(w, r, err)
	}
}

func toAuthorResponse(a Author) authorResponse {
	return authorResponse{UserID: a.UserID, Name: a.Name, Relationship: a.Relationship}
}

func toUpdateResponse(u Update, viewerID string) updateResponse {
	comments := make([]commentResponse, 0, len(u.Comments))
	for _, c := range u.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID,
			Author:    toAuthorResponse(c.Author),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return updateResponse{
		ID:          u.ID,
		RecipientID: u.RecipientID,
		Author:      toAuthorResponse(u.Author),
		Content:     u.Content,
		Likes:       u.Likes(),
		LikedByMe:   u.LikedByUser(viewerID),
		Comments:    comments,
		CreatedAt:   u.CreatedAt,
	}
}
