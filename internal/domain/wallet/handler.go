package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messhub/messhub-api/internal/middleware"
	"github.com/messhub/messhub-api/internal/pkg/response"
	"github.com/messhub/messhub-api/internal/pkg/validator"
)

// StudentResolver maps the authenticated user to their student id.
type StudentResolver interface {
	StudentIDByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type Handler struct {
	svc      *Service
	students StudentResolver
}

func NewHandler(svc *Service, students StudentResolver) *Handler {
	return &Handler{svc: svc, students: students}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	wallet, err := h.svc.GetWallet(r.Context(), studentID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, wallet)
}

func (h *Handler) Topup(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	var req TopupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.Topup(r.Context(), studentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "amount must be greater than zero")
		case errors.Is(err, ErrAmountOutOfRange):
			response.BadRequest(w, "amount outside allowed topup range")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, entry)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	f := ListFilter{
		Type:   EntryType(r.URL.Query().Get("type")),
		Status: EntryStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}

	entries, err := h.svc.ListEntries(r.Context(), studentID, f)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, entries)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), studentID, chi.URLParam(r, "transactionID"))
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			response.NotFound(w, "ledger entry not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, entry)
}

func (h *Handler) CancelEntry(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.CancelEntry(r.Context(), studentID, chi.URLParam(r, "transactionID"))
	if err != nil {
		switch {
		case errors.Is(err, ErrEntryNotPending):
			response.Conflict(w, "only pending entries can be cancelled")
		case errors.Is(err, ErrEntryNotFound):
			response.NotFound(w, "ledger entry not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, entry)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.resolveStudent(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(r.Context(), studentID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, summary)
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.Adjust(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "amount must be greater than zero")
		case errors.Is(err, ErrInsufficientFunds):
			response.Conflict(w, "insufficient wallet balance for penalty")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, entry)
}

func (h *Handler) FailEntry(w http.ResponseWriter, r *http.Request) {
	var req FailEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.FailEntry(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEntryNotFound):
			response.NotFound(w, "ledger entry not found")
		case errors.Is(err, ErrEntryNotPending):
			response.Conflict(w, "only pending entries can be failed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, entry)
}

func (h *Handler) resolveStudent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return uuid.Nil, false
	}

	studentID, err := h.students.StudentIDByUser(r.Context(), userID)
	if err != nil {
		response.NotFound(w, "student profile not found")
		return uuid.Nil, false
	}
	return studentID, true
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent)
		r.Get("/", h.Get)
		r.Post("/topup", h.Topup)
		r.Get("/entries", h.ListEntries)
		r.Get("/entries/{transactionID}", h.GetEntry)
		r.Post("/entries/{transactionID}/cancel", h.CancelEntry)
		r.Get("/summary", h.Summary)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/adjustments", h.Adjust)
		r.Post("/entries/fail", h.FailEntry)
	})

	return r
}
