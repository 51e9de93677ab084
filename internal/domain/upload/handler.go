package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messhub/messhub-api/internal/middleware"
	"github.com/messhub/messhub-api/internal/pkg/imaging"
	"github.com/messhub/messhub-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload handles POST /uploads multipart form: "file" plus a "kind" field,
// and "menu_item_id" when the kind is menu_image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxFileSize)
	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	kind := Kind(r.FormValue("kind"))

	var menuItemID *uuid.UUID
	if v := r.FormValue("menu_item_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "invalid menu_item_id")
			return
		}
		menuItemID = &id
	}

	u, url, err := h.svc.Store(r.Context(), userID, kind, header.Filename, header.Header.Get("Content-Type"), file, menuItemID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidKind):
			response.BadRequest(w, "invalid upload kind")
		case errors.Is(err, ErrUnsupportedType):
			response.BadRequest(w, "unsupported file type")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, map[string]interface{}{
		"upload": u,
		"url":    url,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uploadID"))
	if err != nil {
		response.BadRequest(w, "invalid upload id")
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			response.NotFound(w, "upload not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, u)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Upload)
	r.Get("/{uploadID}", h.Get)
	return r
}
