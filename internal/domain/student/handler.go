package student

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messhub/messhub-api/internal/middleware"
	"github.com/messhub/messhub-api/internal/pkg/response"
	"github.com/messhub/messhub-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	st, err := h.svc.CreateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileExists):
			response.Conflict(w, "profile already exists")
		case errors.Is(err, ErrStudentCodeTaken):
			response.Conflict(w, "student code already in use")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, st)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	st, err := h.svc.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			response.NotFound(w, "profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, st)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	st, err := h.svc.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			response.NotFound(w, "profile not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, st)
}

func (h *Handler) RequestHotelLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req LinkHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	st, err := h.svc.RequestHotelLink(r.Context(), userID, req.HotelID)
	if err != nil {
		switch {
		case errors.Is(err, ErrStudentNotFound):
			response.NotFound(w, "student or hotel not found")
		case errors.Is(err, ErrAlreadyLinked):
			response.Conflict(w, "already linked to a hotel")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, st)
}

func (h *Handler) ReviewHotelLink(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		response.BadRequest(w, "invalid student id")
		return
	}

	var req ReviewLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	st, err := h.svc.ReviewHotelLink(r.Context(), ownerUserID, studentID, req.Approve, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrStudentNotFound):
			response.NotFound(w, "student not found")
		case errors.Is(err, ErrNoLinkRequest):
			response.Conflict(w, "no pending request for this student")
		case errors.Is(err, ErrLinkRequestForbidden):
			response.Forbidden(w, "request belongs to another hotel")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, st)
}

func (h *Handler) SuspendHotelLink(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		response.BadRequest(w, "invalid student id")
		return
	}

	st, err := h.svc.SuspendHotelLink(r.Context(), ownerUserID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrStudentNotFound):
			response.NotFound(w, "student not found")
		case errors.Is(err, ErrLinkRequestForbidden):
			response.Forbidden(w, "student is not linked to your hotel")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, st)
}

func (h *Handler) PendingLinkRequests(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	students, err := h.svc.PendingLinkRequests(r.Context(), ownerUserID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, students)
}

func (h *Handler) LinkedStudents(w http.ResponseWriter, r *http.Request) {
	ownerUserID := middleware.GetUserID(r.Context())

	students, err := h.svc.LinkedStudents(r.Context(), ownerUserID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, students)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent)
		r.Post("/profile", h.CreateProfile)
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Post("/hotel-link", h.RequestHotelLink)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireHotelOwner)
		r.Get("/link-requests", h.PendingLinkRequests)
		r.Get("/linked", h.LinkedStudents)
		r.Post("/{studentID}/link-review", h.ReviewHotelLink)
		r.Post("/{studentID}/suspend", h.SuspendHotelLink)
	})

	return r
}
